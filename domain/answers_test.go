package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnswersDefaults(t *testing.T) {
	a := NewAnswers()

	assert.NotEmpty(t, a.SessionID)
	assert.False(t, a.CreatedAt.IsZero())

	// Every tri-state question starts unanswered
	assert.Equal(t, Unknown, a.Solar.Present)
	assert.Equal(t, Unknown, a.Boiler.Contract)
	assert.Equal(t, Unknown, a.PV.Present)
	assert.Equal(t, Unknown, a.PV.EMSInterest)
	assert.False(t, a.Offer.Mentioned)
	assert.False(t, a.FollowUp.Needed)
}

func TestNewAnswersUniqueSessionIDs(t *testing.T) {
	a1 := NewAnswers()
	a2 := NewAnswers()

	assert.NotEqual(t, a1.SessionID, a2.SessionID, "Each session ID should be unique")
}

func TestYesNoKnown(t *testing.T) {
	assert.False(t, Unknown.Known())
	assert.True(t, Yes.Known())
	assert.True(t, No.Known())
}

func TestCloneIndependence(t *testing.T) {
	size := 35.5
	price := decimal.NewFromInt(199)

	a := NewAnswers()
	a.Solar.SizeM2 = &size
	a.Offer.PriceEUR = &price
	a.Customer.Name = "Mustermann"

	c := a.Clone()
	require.NotSame(t, a, c)

	// Mutating the clone must not leak into the original
	*c.Solar.SizeM2 = 99
	*c.Offer.PriceEUR = decimal.NewFromInt(1)
	c.Customer.Name = "Anders"

	assert.Equal(t, 35.5, *a.Solar.SizeM2)
	assert.Equal(t, "199", a.Offer.PriceEUR.String())
	assert.Equal(t, "Mustermann", a.Customer.Name)
}

func TestCloneNilPointers(t *testing.T) {
	a := NewAnswers()
	c := a.Clone()

	assert.Nil(t, c.Solar.SizeM2)
	assert.Nil(t, c.Offer.PriceEUR)
}

func TestControllerSupportsEMS(t *testing.T) {
	assert.False(t, ControllerUnset.SupportsEMS())
	assert.False(t, ControllerComfort3.SupportsEMS())
	assert.True(t, ControllerComfort4.SupportsEMS())
	assert.False(t, ControllerOther.SupportsEMS())
}

func TestInverterLabel(t *testing.T) {
	tests := []struct {
		name     string
		inverter Inverter
		expected string
	}{
		{"unset", Inverter{}, ""},
		{"known make", Inverter{Make: InverterFronius}, "Fronius"},
		{"other with text", Inverter{Make: InverterOther, Other: "Kostal"}, "Kostal"},
		{"other without text", Inverter{Make: InverterOther}, "Sonstige"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.inverter.Label())
		})
	}
}

func TestUsageFlagsLabels(t *testing.T) {
	u := UsageFlags{
		Heizstab:    true,
		Klimaanlage: true,
		Sonstiges:   "Poolheizung",
	}

	assert.Equal(t, []string{"Heizstab", "Klimaanlage", "Poolheizung"}, u.Labels())
	assert.Empty(t, UsageFlags{}.Labels())
}
