package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/config"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/db/models"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/randx"
)

func TestPaymentMessage(t *testing.T) {
	composer := NewComposer(randx.NewSeeded(1))
	msg := composer.PaymentMessage("TX-42", "Ultra-Pods Elite", 187.99)

	for _, want := range []string{
		"*PAGAMENTO RECEBIDO:* Pedido TX-42",
		"R$187.99",
		"*Ultra-Pods Elite*",
		"Envio Fast Track",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("payment message missing %q:\n%s", want, msg)
		}
	}
}

func TestShippingMessage(t *testing.T) {
	composer := NewComposer(randx.NewSeeded(1))
	msg := composer.ShippingMessage("TX-42", "Bio-Light Max", "BR123456789BR")

	if !strings.Contains(msg, "Rastreio: *BR123456789BR*") {
		t.Fatalf("missing tracking code:\n%s", msg)
	}
	if !strings.Contains(msg, "linkcorreios.com.br/BR123456789BR") {
		t.Fatalf("missing tracking link:\n%s", msg)
	}
}

func TestRecoveryMessage(t *testing.T) {
	composer := NewComposer(randx.NewSeeded(1))
	msg := composer.RecoveryMessage("Ana", "https://shop.example/cart/9", "Neural-Sleep Mask")

	if !strings.Contains(msg, "Ana") || !strings.Contains(msg, "*Neural-Sleep Mask*") {
		t.Fatalf("recovery hook not interpolated:\n%s", msg)
	}
	if !strings.Contains(msg, "https://shop.example/cart/9") {
		t.Fatalf("missing cart link:\n%s", msg)
	}
}

func TestWebhook_orderPaid(t *testing.T) {
	var got paidEvent
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	hook := NewWebhook(config.FulfillmentConfig{WebhookURL: server.URL}, nil)
	order := models.Order{
		ID:            "ord_1",
		TransactionID: "TX-42",
		Total:         187.99,
		Items:         models.OrderItems{{Name: "Ultra-Pods Elite", Qty: 1, Price: 187.99}},
	}
	if err := hook.OrderPaid(context.Background(), order); err != nil {
		t.Fatalf("order paid: %v", err)
	}
	if got.Event != "order.paid" || got.TransactionID != "TX-42" || len(got.Items) != 1 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestWebhook_disabledWithoutURL(t *testing.T) {
	hook := NewWebhook(config.FulfillmentConfig{}, nil)
	if hook.Enabled() {
		t.Fatal("webhook without a URL should be disabled")
	}
	if err := hook.OrderPaid(context.Background(), models.Order{}); err != nil {
		t.Fatalf("disabled webhook should no-op: %v", err)
	}
}

func TestWebhook_partnerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	hook := NewWebhook(config.FulfillmentConfig{WebhookURL: server.URL}, nil)
	if err := hook.OrderPaid(context.Background(), models.Order{TransactionID: "TX-1"}); err == nil {
		t.Fatal("non-2xx response should surface an error")
	}
}
