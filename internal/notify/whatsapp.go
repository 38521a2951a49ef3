// Package notify carries the customer-facing side effects of an order:
// WhatsApp scripts and the fulfillment partner webhook. Delivery is
// best-effort; a lost message never fails the triggering request.
package notify

import (
	"context"
	"fmt"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/logger"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/randx"
)

// Dispatcher delivers a rendered message to a phone number.
type Dispatcher interface {
	Dispatch(ctx context.Context, phone, message string) error
}

var paymentHooks = []string{
	"Ótima escolha! Seu pedido já está sendo priorizado. 🚀",
	"Pagamento confirmado! Você acaba de dar um upgrade no seu dia. ✨",
	"Tudo certo! O sistema já reservou sua unidade exclusiva. 🧬",
}

var recoveryHooks = []string{
	"Ei %[1]s, vi que você deixou o seu *%[2]s* reservado, mas não finalizou. Restam apenas 3 unidades no Hub local! 🔥",
	"Olá %[1]s! Liberamos um Frete Grátis relâmpago para o seu *%[2]s* por 20 minutos. Aproveita! 🚚",
	"Notamos uma instabilidade no seu checkout, %[1]s. Sua unidade do *%[2]s* está salva aqui, mas por pouco tempo. ⏳",
}

// Composer renders the WhatsApp scripts. A seeded Rand makes the hook
// choice deterministic in tests.
type Composer struct {
	rng randx.Rand
}

// NewComposer builds a composer with its own randomness source.
func NewComposer(rng randx.Rand) *Composer {
	if rng == nil {
		rng = randx.New()
	}
	return &Composer{rng: rng}
}

// PaymentMessage is the payment confirmation script sent right after the
// order flips to paid.
func (c *Composer) PaymentMessage(orderID, productName string, total float64) string {
	return fmt.Sprintf(
		"*PAGAMENTO RECEBIDO:* Pedido %s\n\n%s\n\nConfirmamos o valor de *R$%.2f* para o *%s*.\n\n"+
			"📍 O que acontece agora?\n"+
			"1. Triagem Neural (Concluída)\n"+
			"2. Preparação no Hub (Iniciada)\n"+
			"3. Envio Fast Track (Próximo Passo)\n\n"+
			"Te enviaremos o rastreio em breve! 🛰️",
		orderID, randx.Pick(c.rng, paymentHooks), total, productName,
	)
}

// ShippingMessage is the dispatch notice with the national tracking code.
func (c *Composer) ShippingMessage(orderID, productName, trackingCode string) string {
	return fmt.Sprintf(
		"*SUA ENCOMENDA ESTÁ A CAMINHO!* 📦\n\nO *%s* (Ref: %s) já saiu para entrega.\n\n"+
			"📍 Rastreio: *%s*\n"+
			"Acompanhe o trajeto aqui: https://www.linkcorreios.com.br/%s\n\n"+
			"Em breve você terá o melhor da tecnologia em suas mãos! 🚀",
		productName, orderID, trackingCode, trackingCode,
	)
}

// RecoveryMessage nudges a customer who abandoned checkout.
func (c *Composer) RecoveryMessage(customerName, cartLink, productName string) string {
	hook := fmt.Sprintf(randx.Pick(c.rng, recoveryHooks), customerName, productName)
	return fmt.Sprintf(
		"⚠️ *OPORTUNIDADE PENDENTE*\n\n%s\n\n🔗 Clique aqui para concluir agora:\n%s\n\n"+
			"Se tiver qualquer dúvida, é só me chamar aqui! 🤖",
		hook, cartLink,
	)
}

// LogDispatcher writes outbound messages to the structured log instead of
// a live gateway. The production gateway implements Dispatcher the same way.
type LogDispatcher struct {
	logg *logger.Logger
}

// NewLogDispatcher builds the log-backed dispatcher.
func NewLogDispatcher(logg *logger.Logger) *LogDispatcher {
	return &LogDispatcher{logg: logg}
}

// Dispatch logs the message preview keyed by phone.
func (d *LogDispatcher) Dispatch(ctx context.Context, phone, message string) error {
	if d.logg == nil {
		return nil
	}
	preview := message
	if len(preview) > 60 {
		preview = preview[:60]
	}
	ctx = d.logg.WithFields(ctx, map[string]any{
		"channel": "whatsapp",
		"phone":   phone,
		"preview": preview,
	})
	d.logg.Info(ctx, "outbound message dispatched")
	return nil
}
