package supplier

import (
	"context"
	"math"
	"testing"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/db/models"
)

func TestGetSignals_copies(t *testing.T) {
	a := New(nil)
	sig := a.GetSignals()
	sig.RegionalHubs["SP"] = 0

	if a.GetSignals().RegionalHubs["SP"] != 1.0 {
		t.Fatal("GetSignals must return a copy of the hub map")
	}
}

func TestSubmitOrder_pressureIncrements(t *testing.T) {
	a := New(nil)
	start := a.GetSignals().SupplyChainPressure

	a.SubmitOrder(context.Background(), models.Order{
		Items: models.OrderItems{{Name: "x", Qty: 1, Location: "SP"}},
	})
	withLocal := a.GetSignals().SupplyChainPressure
	if diff := withLocal - start; math.Abs(diff-0.02) > 1e-9 {
		t.Fatalf("local order raised pressure by %v, want 0.02", diff)
	}

	a.SubmitOrder(context.Background(), models.Order{
		Items: models.OrderItems{{Name: "y", Qty: 1, Location: "RS"}},
	})
	withGlobal := a.GetSignals().SupplyChainPressure
	if diff := withGlobal - withLocal; math.Abs(diff-0.05) > 1e-9 {
		t.Fatalf("global order raised pressure by %v, want 0.05", diff)
	}
}

func TestSubmitOrder_pressureCapped(t *testing.T) {
	a := New(nil)
	for i := 0; i < 100; i++ {
		a.SubmitOrder(context.Background(), models.Order{
			Items: models.OrderItems{{Name: "x", Qty: 1, Location: "RS"}},
		})
	}
	if got := a.GetSignals().SupplyChainPressure; got > 1.0 {
		t.Fatalf("pressure exceeded cap: %v", got)
	}
}

type fakeShipper struct {
	orderID string
	code    string
}

func (f *fakeShipper) MarkShipped(_ context.Context, orderID, trackingCode string) error {
	f.orderID = orderID
	f.code = trackingCode
	return nil
}

func TestSyncTracking(t *testing.T) {
	shipper := &fakeShipper{}
	a := New(nil, WithOrderShipper(shipper))
	a.SetTrackingGenerator(func() string { return "BR123456789BR" })

	code := a.SyncTracking(context.Background(), models.Order{ID: "ord-1"})

	if shipper.orderID != "ord-1" {
		t.Fatalf("shipped wrong order: %q", shipper.orderID)
	}
	if code != "BR123456789BR" || shipper.code != code {
		t.Fatalf("unexpected tracking code: %q (stored %q)", code, shipper.code)
	}
}

func TestReleasePressure_disabledByDefault(t *testing.T) {
	a := New(nil)
	before := a.GetSignals().SupplyChainPressure
	a.ReleasePressure()
	if got := a.GetSignals().SupplyChainPressure; got != before {
		t.Fatalf("pressure changed without decay configured: %v", got)
	}

	decaying := New(nil, WithPressureDecay(0.5))
	decaying.ReleasePressure()
	if got := decaying.GetSignals().SupplyChainPressure; math.Abs(got-0.1) > 1e-9 {
		t.Fatalf("decayed pressure = %v, want 0.1", got)
	}
}
