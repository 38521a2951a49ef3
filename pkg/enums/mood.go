package enums

import "fmt"

// Mood captures the repricer's current operating posture, derived from
// supplier signals and customer sentiment.
type Mood string

const (
	MoodOptimal   Mood = "Optimal"
	MoodSafety    Mood = "Safety"
	MoodThrottled Mood = "Throttled"
	MoodEmpathy   Mood = "Empathy"
	MoodApex      Mood = "Apex"
)

var validMoods = []Mood{
	MoodOptimal,
	MoodSafety,
	MoodThrottled,
	MoodEmpathy,
	MoodApex,
}

// String implements fmt.Stringer.
func (m Mood) String() string {
	return string(m)
}

// IsValid reports whether the value is a known Mood.
func (m Mood) IsValid() bool {
	for _, candidate := range validMoods {
		if candidate == m {
			return true
		}
	}
	return false
}

// PriceAdjustment returns the multiplier the mood applies on top of the
// sampled margin. Safety raises prices, Empathy lowers them, everything
// else is neutral.
func (m Mood) PriceAdjustment() float64 {
	switch m {
	case MoodSafety:
		return 1.2
	case MoodEmpathy:
		return 0.9
	default:
		return 1.0
	}
}

// ParseMood converts raw input into a Mood.
func ParseMood(value string) (Mood, error) {
	for _, candidate := range validMoods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid mood %q", value)
}
