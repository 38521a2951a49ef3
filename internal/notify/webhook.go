package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/config"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/db/models"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/logger"
)

// Webhook pushes paid-order events to the fulfillment partner. A missing
// URL disables it; a failed delivery is logged and dropped.
type Webhook struct {
	url    string
	client *http.Client
	logg   *logger.Logger
}

// NewWebhook builds the fulfillment webhook client.
func NewWebhook(cfg config.FulfillmentConfig, logg *logger.Logger) *Webhook {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return &Webhook{
		url:    cfg.WebhookURL,
		client: &http.Client{Timeout: timeout},
		logg:   logg,
	}
}

// Enabled reports whether a partner URL is configured.
func (w *Webhook) Enabled() bool {
	return w.url != ""
}

type paidEvent struct {
	Event         string            `json:"event"`
	TransactionID string            `json:"transaction_id"`
	OrderID       string            `json:"order_id"`
	Total         float64           `json:"total"`
	Items         models.OrderItems `json:"items"`
	PaidAt        string            `json:"paid_at,omitempty"`
}

// OrderPaid delivers the paid event. Errors are reported to the caller so
// the worker can log them, but never retried here.
func (w *Webhook) OrderPaid(ctx context.Context, order models.Order) error {
	if !w.Enabled() {
		return nil
	}
	event := paidEvent{
		Event:         "order.paid",
		TransactionID: order.TransactionID,
		OrderID:       order.ID,
		Total:         order.Total,
		Items:         order.Items,
	}
	if order.PaidAt != nil {
		event.PaidAt = order.PaidAt.UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding paid event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivering paid event: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("fulfillment partner returned %d", resp.StatusCode)
	}
	if w.logg != nil {
		w.logg.Info(w.logg.WithTransactionID(ctx, order.TransactionID), "fulfillment partner notified")
	}
	return nil
}
