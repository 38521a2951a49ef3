// Package supplier models the supply-chain autopilot: an in-process signal
// source consumed read-only by the repricing cycle and nudged by order
// submissions.
package supplier

import (
	"context"
	"fmt"
	"sync"

	"github.com/jaevor/go-nanoid"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/db/models"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/enums"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/logger"
)

// Signals is a point-in-time copy of the autopilot's internal metrics.
type Signals struct {
	AvgDispatchTime     float64
	ReliabilityScore    float64
	SupplyChainPressure float64
	RegionalHubs        map[string]float64
}

// localHubs are the regions dispatched through the priority lane.
var localHubs = map[string]bool{"SP": true, "SC": true}

// IsLocalHub reports whether a region ships from a priority hub.
func IsLocalHub(region string) bool {
	return localHubs[region]
}

const (
	localPressureIncrement  = 0.02
	globalPressureIncrement = 0.05
)

type orderShipper interface {
	MarkShipped(ctx context.Context, orderID, trackingCode string) error
}

// Autopilot tracks dispatch-hub health and routes submitted orders.
type Autopilot struct {
	mu      sync.Mutex
	metrics Signals

	logg     *logger.Logger
	orders   orderShipper
	tracking func() string
	// decay, when > 0, is the fraction of pressure released per cycle tick.
	decay float64
}

// Option mutates autopilot construction.
type Option func(*Autopilot)

// WithOrderShipper wires the order store used by tracking sync.
func WithOrderShipper(shipper orderShipper) Option {
	return func(a *Autopilot) { a.orders = shipper }
}

// WithPressureDecay enables pressure release per decay tick. The source
// system never decayed pressure; this hook exists for tuning.
func WithPressureDecay(fraction float64) Option {
	return func(a *Autopilot) { a.decay = fraction }
}

// New builds an autopilot with the stock hub topology.
func New(logg *logger.Logger, opts ...Option) *Autopilot {
	a := &Autopilot{
		metrics: Signals{
			AvgDispatchTime:     12.5,
			ReliabilityScore:    0.98,
			SupplyChainPressure: 0.2,
			RegionalHubs: map[string]float64{
				"SP":     1.0,
				"SC":     0.95,
				"PR":     0.9,
				"MG":     0.85,
				"GLOBAL": 0.6,
			},
		},
		logg:     logg,
		tracking: newTrackingGenerator(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func newTrackingGenerator() func() string {
	gen, err := nanoid.CustomASCII("0123456789", 9)
	if err != nil {
		// The alphabet is static; this only fires on a programming error.
		panic(err)
	}
	return func() string {
		return fmt.Sprintf("BR%sBR", gen())
	}
}

// GetSignals returns a thread-safe copy of the current metrics.
func (a *Autopilot) GetSignals() Signals {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.metrics
	out.RegionalHubs = make(map[string]float64, len(a.metrics.RegionalHubs))
	for k, v := range a.metrics.RegionalHubs {
		out.RegionalHubs[k] = v
	}
	return out
}

// SubmitOrder classifies the order's line items by region, logs a dispatch
// event per bucket and raises the supply-chain pressure. The caller is
// expected to run this on a background worker.
func (a *Autopilot) SubmitOrder(ctx context.Context, order models.Order) {
	var local, global int
	for _, item := range order.Items {
		if IsLocalHub(item.Location) {
			local++
		} else {
			global++
		}
	}

	if a.logg != nil {
		ctx = a.logg.WithTransactionID(ctx, order.TransactionID)
		if local > 0 {
			a.logg.Info(a.logg.WithField(ctx, "items", local), "fast-track dispatch via regional hub")
		}
		if global > 0 {
			a.logg.Info(a.logg.WithField(ctx, "items", global), "standard dispatch via global route")
		}
	}

	increment := globalPressureIncrement
	if local > 0 {
		increment = localPressureIncrement
	}
	a.mu.Lock()
	a.metrics.SupplyChainPressure = min(1.0, a.metrics.SupplyChainPressure+increment)
	a.mu.Unlock()
}

// SyncTracking generates a national tracking code and flips the order to
// shipped, returning the issued code. Failures are logged, never surfaced:
// shipping is best-effort and an empty code means nothing shipped.
func (a *Autopilot) SyncTracking(ctx context.Context, order models.Order) string {
	if a.orders == nil {
		return ""
	}
	code := a.tracking()
	if err := a.orders.MarkShipped(ctx, order.ID, code); err != nil {
		if a.logg != nil {
			a.logg.Error(ctx, "tracking sync failed", err)
		}
		return ""
	}
	if a.logg != nil {
		ctx = a.logg.WithFields(ctx, map[string]any{
			"order_id": order.ID,
			"tracking": code,
			"status":   enums.OrderStatusShipped.String(),
		})
		a.logg.Info(ctx, "tracking code issued")
	}
	return code
}

// ReleasePressure applies the configured decay fraction. No-op unless the
// decay hook was enabled.
func (a *Autopilot) ReleasePressure() {
	if a.decay <= 0 {
		return
	}
	a.mu.Lock()
	a.metrics.SupplyChainPressure *= 1 - a.decay
	a.mu.Unlock()
}

// SetTrackingGenerator overrides the tracking code source, used by tests.
func (a *Autopilot) SetTrackingGenerator(gen func() string) {
	if gen != nil {
		a.tracking = gen
	}
}
