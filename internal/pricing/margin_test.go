package pricing

import (
	"math"
	"testing"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/enums"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/randx"
)

func TestMargin_bands(t *testing.T) {
	r := randx.NewSeeded(1)
	for i := 0; i < 200; i++ {
		high := Margin(r, 0.85)
		if high < 1.6 || high >= 2.0 {
			t.Fatalf("high pressure margin out of band: %v", high)
		}
		low := Margin(r, 0.5)
		if low < 3.5 || low >= 4.2 {
			t.Fatalf("low pressure margin out of band: %v", low)
		}
	}
}

func TestEffectiveMultiplier_floor(t *testing.T) {
	r := randx.NewSeeded(7)
	moods := []enums.Mood{enums.MoodOptimal, enums.MoodSafety, enums.MoodThrottled, enums.MoodEmpathy, enums.MoodApex}
	for i := 0; i <= 100; i++ {
		pressure := float64(i) / 100
		for _, mood := range moods {
			if got := EffectiveMultiplier(r, pressure, mood); got < MinimumMultiplier {
				t.Fatalf("multiplier %v below floor for pressure=%v mood=%s", got, pressure, mood)
			}
		}
	}
}

func TestPressure_range(t *testing.T) {
	r := randx.NewSeeded(3)
	for i := 0; i < 200; i++ {
		p := Pressure(r)
		if p < 0.6 || p >= 0.95 {
			t.Fatalf("pressure out of range: %v", p)
		}
	}
}

func TestCharmPrice_endsInNinetyNine(t *testing.T) {
	cases := []float64{100, 349.954, 85 * 2.2, 55.12345}
	for _, raw := range cases {
		price := CharmPrice(raw)
		cents := math.Round(price*100) - math.Floor(price)*100
		if math.Abs(cents-99) > 1e-6 {
			t.Fatalf("CharmPrice(%v) = %v does not end in .99", raw, price)
		}
	}
}

func TestMoodPriceAdjustment(t *testing.T) {
	if got := enums.MoodSafety.PriceAdjustment(); got != 1.2 {
		t.Fatalf("Safety adjustment = %v", got)
	}
	if got := enums.MoodEmpathy.PriceAdjustment(); got != 0.9 {
		t.Fatalf("Empathy adjustment = %v", got)
	}
	if got := enums.MoodApex.PriceAdjustment(); got != 1.0 {
		t.Fatalf("Apex adjustment = %v", got)
	}
}
