package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/suruagyvieira/dropmasters-alpha/internal/notify"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/db/models"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/enums"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/logger"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/worker"
)

// CallbackResult is the outcome reported to the payment gateway.
type CallbackResult string

const (
	ResultProcessed        CallbackResult = "processed"
	ResultIgnored          CallbackResult = "ignored"
	ResultAlreadyProcessed CallbackResult = "already_processed"
)

// idempotencyTTL bounds how long a processed transaction id stays guarded.
const idempotencyTTL = 24 * time.Hour

type orderStore interface {
	FindByTransaction(ctx context.Context, txnID string) (*models.Order, error)
	MarkPaid(ctx context.Context, txnID string, paidAt time.Time) (bool, error)
}

type idempotencyGuard interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
	Del(ctx context.Context, keys ...string) error
}

type dispatchRouter interface {
	SubmitOrder(ctx context.Context, order models.Order)
	SyncTracking(ctx context.Context, order models.Order) string
}

type paidWebhook interface {
	Enabled() bool
	OrderPaid(ctx context.Context, order models.Order) error
}

type conversionCounter interface {
	RecordConversion()
}

type eventSink interface {
	Record(eventType, message string) bool
}

// Service handles the payment gateway callback: an idempotent paid
// transition followed by best-effort finalization on the worker pool.
type Service struct {
	store       orderStore
	guard       idempotencyGuard
	pool        *worker.Pool
	router      dispatchRouter
	composer    *notify.Composer
	messenger   notify.Dispatcher
	webhook     paidWebhook
	conversions conversionCounter
	events      eventSink
	logg        *logger.Logger
	clock       func() time.Time
}

// Deps wires the service's collaborators.
type Deps struct {
	Store       orderStore
	Guard       idempotencyGuard
	Pool        *worker.Pool
	Router      dispatchRouter
	Composer    *notify.Composer
	Messenger   notify.Dispatcher
	Webhook     paidWebhook
	Conversions conversionCounter
	Events      eventSink
	Logger      *logger.Logger
}

// NewService builds the payment callback service.
func NewService(deps Deps) *Service {
	return &Service{
		store:       deps.Store,
		guard:       deps.Guard,
		pool:        deps.Pool,
		router:      deps.Router,
		composer:    deps.Composer,
		messenger:   deps.Messenger,
		webhook:     deps.Webhook,
		conversions: deps.Conversions,
		events:      deps.Events,
		logg:        deps.Logger,
		clock:       time.Now,
	}
}

// SetClock overrides the time source, used by tests.
func (s *Service) SetClock(clock func() time.Time) {
	if clock != nil {
		s.clock = clock
	}
}

// HandleCallback processes a gateway notification. The paid transition is
// settled by a conditional update keyed on the pending status, with a redis
// guard in front of it to short-circuit replays. Any other status is
// acknowledged and ignored.
func (s *Service) HandleCallback(ctx context.Context, txnID, status string) (CallbackResult, error) {
	if s.logg != nil {
		ctx = s.logg.WithTransactionID(ctx, txnID)
	}
	if status != enums.OrderStatusPaid.String() {
		return ResultIgnored, nil
	}

	var guardKey string
	if s.guard != nil {
		guardKey = s.guard.IdempotencyKey("payment", txnID)
		fresh, err := s.guard.SetNX(ctx, guardKey, s.clock().Unix(), idempotencyTTL)
		if err != nil {
			// The database transition below still enforces exactly-once.
			if s.logg != nil {
				s.logg.Warn(ctx, "idempotency guard unavailable, relying on store transition")
			}
			guardKey = ""
		} else if !fresh {
			return ResultAlreadyProcessed, nil
		}
	}

	order, err := s.store.FindByTransaction(ctx, txnID)
	if err != nil {
		s.releaseGuard(ctx, guardKey)
		return ResultIgnored, err
	}

	paidAt := s.clock()
	transitioned, err := s.store.MarkPaid(ctx, txnID, paidAt)
	if err != nil {
		s.releaseGuard(ctx, guardKey)
		return ResultIgnored, err
	}
	if !transitioned {
		return ResultAlreadyProcessed, nil
	}
	order.Status = enums.OrderStatusPaid
	order.PaidAt = &paidAt

	s.recordPayout(ctx, *order)
	if s.conversions != nil {
		s.conversions.RecordConversion()
	}
	s.enqueueFinalize(ctx, *order)
	return ResultProcessed, nil
}

func (s *Service) releaseGuard(ctx context.Context, guardKey string) {
	if s.guard == nil || guardKey == "" {
		return
	}
	if err := s.guard.Del(ctx, guardKey); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "failed to release idempotency guard")
	}
}

// recordPayout writes the payout split to the event log. Decimal math keeps
// the audit line exact for the accounting export.
func (s *Service) recordPayout(ctx context.Context, order models.Order) {
	vendor := decimal.NewFromFloat(order.Metadata.VendorPayout)
	platform := decimal.NewFromFloat(order.Metadata.PlatformNet)
	if vendor.IsZero() && platform.IsZero() {
		// Legacy orders predate the split; derive it from the total.
		total := decimal.NewFromFloat(order.Total)
		vendor = total.Mul(decimal.NewFromFloat(0.75)).Round(2)
		platform = total.Sub(vendor)
	}
	line := fmt.Sprintf("PAYOUT: TX %s | Vendor R$ %s | Profit R$ %s",
		order.TransactionID, vendor.StringFixed(2), platform.StringFixed(2))
	if s.events != nil {
		s.events.Record("revenue", line)
	}
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"vendor_payout": vendor.StringFixed(2),
			"platform_net":  platform.StringFixed(2),
		})
		s.logg.Info(ctx, "payout recorded")
	}
}

// enqueueFinalize offloads the post-payment side effects: regional
// dispatch, the confirmation message, the fulfillment webhook and the
// tracking sync with its shipping notice. All are best-effort; a full
// queue drops the work and the order stays paid.
func (s *Service) enqueueFinalize(ctx context.Context, order models.Order) {
	if s.pool == nil {
		return
	}
	accepted, err := s.pool.Submit(func(taskCtx context.Context) {
		s.finalize(taskCtx, order)
	})
	if (err != nil || !accepted) && s.logg != nil {
		s.logg.Warn(ctx, "finalize task dropped, order finalization skipped")
	}
}

func (s *Service) finalize(ctx context.Context, order models.Order) {
	if s.logg != nil {
		ctx = s.logg.WithTransactionID(ctx, order.TransactionID)
	}
	if s.router != nil {
		s.router.SubmitOrder(ctx, order)
	}
	if order.Phone != "" && s.composer != nil && s.messenger != nil {
		name := "Item Prioritário"
		if len(order.Items) > 0 {
			name = order.Items[0].Name
		}
		msg := s.composer.PaymentMessage(order.TransactionID, name, order.Total)
		if err := s.messenger.Dispatch(ctx, order.Phone, msg); err != nil && s.logg != nil {
			s.logg.Error(ctx, "payment confirmation message failed", err)
		}
	}
	if s.webhook != nil && s.webhook.Enabled() {
		if err := s.webhook.OrderPaid(ctx, order); err != nil && s.logg != nil {
			s.logg.Error(ctx, "fulfillment webhook failed", err)
		}
	}
	if s.router != nil {
		code := s.router.SyncTracking(ctx, order)
		if code != "" && order.Phone != "" && s.composer != nil && s.messenger != nil {
			name := "Item Prioritário"
			if len(order.Items) > 0 {
				name = order.Items[0].Name
			}
			msg := s.composer.ShippingMessage(order.ID, name, code)
			if err := s.messenger.Dispatch(ctx, order.Phone, msg); err != nil && s.logg != nil {
				s.logg.Error(ctx, "shipping notice message failed", err)
			}
		}
	}
}
