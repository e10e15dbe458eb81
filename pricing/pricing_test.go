package pricing

import (
	"testing"

	"leitfaden/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeIncompleteInputs(t *testing.T) {
	tests := []struct {
		name   string
		boiler domain.BoilerFacts
	}{
		{"all unset", domain.BoilerFacts{}},
		{"missing zone", domain.BoilerFacts{Type: domain.BoilerEasyfire, Contract: domain.Yes}},
		{"missing type", domain.BoilerFacts{Zone: domain.Zone1, Contract: domain.Yes}},
		{"contract unanswered", domain.BoilerFacts{Type: domain.BoilerEasyfire, Zone: domain.Zone1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(tt.boiler)

			assert.Nil(t, res.BoilerPrice)
			assert.Nil(t, res.BundleTotal)
			assert.Nil(t, res.BundleSavings)
			// The fixed solar rates are always available
			assert.Equal(t, "330.00", res.SoloSolarPrice.StringFixed(2))
			assert.Equal(t, "169.00", res.BundledSolarPrice.StringFixed(2))
		})
	}
}

func TestComputeRateTable(t *testing.T) {
	tests := []struct {
		name     string
		boiler   domain.BoilerType
		zone     domain.Zone
		contract domain.YesNo
		price    string
	}{
		{"easyfire zone1 with contract", domain.BoilerEasyfire, domain.Zone1, domain.Yes, "316.80"},
		{"easyfire zone1 without contract", domain.BoilerEasyfire, domain.Zone1, domain.No, "352.00"},
		{"easyfire zone2 with contract", domain.BoilerEasyfire, domain.Zone2, domain.Yes, "338.40"},
		{"easyfire zone2 without contract", domain.BoilerEasyfire, domain.Zone2, domain.No, "374.40"},
		{"multifire zone1 with contract", domain.BoilerMultifire, domain.Zone1, domain.Yes, "387.20"},
		{"multifire zone1 without contract", domain.BoilerMultifire, domain.Zone1, domain.No, "422.40"},
		{"multifire zone2 with contract", domain.BoilerMultifire, domain.Zone2, domain.Yes, "409.60"},
		// The zone-2 no-contract rate sits below the contract rate; the
		// table is carried over literally from the rate sheet.
		{"multifire zone2 without contract", domain.BoilerMultifire, domain.Zone2, domain.No, "398.40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(domain.BoilerFacts{
				Type:     tt.boiler,
				Zone:     tt.zone,
				Contract: tt.contract,
			})

			require.NotNil(t, res.BoilerPrice)
			assert.Equal(t, tt.price, res.BoilerPrice.StringFixed(2))
		})
	}
}

func TestComputeBundleFigures(t *testing.T) {
	res := Compute(domain.BoilerFacts{
		Type:     domain.BoilerEasyfire,
		Zone:     domain.Zone1,
		Contract: domain.Yes,
	})

	require.NotNil(t, res.BundleTotal)
	require.NotNil(t, res.BundleSavings)
	assert.Equal(t, "485.80", res.BundleTotal.StringFixed(2))
	// Savings concern the solar line item only: 330 solo vs 169 bundled
	assert.Equal(t, "161.00", res.BundleSavings.StringFixed(2))
}

func TestComputeControllerIrrelevant(t *testing.T) {
	// The controller variant has no bearing on the price
	base := domain.BoilerFacts{
		Type:     domain.BoilerMultifire,
		Zone:     domain.Zone1,
		Contract: domain.No,
	}
	withController := base
	withController.Controller = domain.ControllerComfort4

	assert.Equal(t,
		Compute(base).BoilerPrice.StringFixed(2),
		Compute(withController).BoilerPrice.StringFixed(2))
}
