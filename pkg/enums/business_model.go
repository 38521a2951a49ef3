package enums

import "fmt"

// BusinessModel identifies the monetization model selected for a product.
type BusinessModel string

const (
	BusinessModelDropshipping BusinessModel = "DROPSHIPPING"
	BusinessModelMarketplace  BusinessModel = "MARKETPLACE"
	BusinessModelAffiliate    BusinessModel = "AFFILIATE"
	BusinessModelWhiteLabel   BusinessModel = "WHITE_LABEL"
	BusinessModelLocalHub     BusinessModel = "LOCAL_HUB"
)

var validBusinessModels = []BusinessModel{
	BusinessModelDropshipping,
	BusinessModelMarketplace,
	BusinessModelAffiliate,
	BusinessModelWhiteLabel,
	BusinessModelLocalHub,
}

// String implements fmt.Stringer.
func (b BusinessModel) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BusinessModel.
func (b BusinessModel) IsValid() bool {
	for _, candidate := range validBusinessModels {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBusinessModel converts raw input into a BusinessModel.
func ParseBusinessModel(value string) (BusinessModel, error) {
	for _, candidate := range validBusinessModels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid business model %q", value)
}
