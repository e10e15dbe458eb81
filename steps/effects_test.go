package steps

import (
	"testing"

	"leitfaden/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func apply(a *domain.Answers, patches ...domain.Patch) {
	for _, p := range patches {
		p(a)
	}
}

func TestInterestAnswersFlagFollowUp(t *testing.T) {
	tests := []struct {
		name   string
		patch  domain.Patch
		reason string
	}{
		{"solar interest", SetSolarInterest(domain.Yes), ReasonSolarInterest},
		{"pv interest", SetPVInterest(domain.Yes), ReasonPVInterest},
		{"pv future usage", SetPVFutureInterest(domain.Yes), ReasonPVFutureUsage},
		{"upgrade interest", SetUpgradeInterest(domain.Yes), ReasonUpgradeInterest},
		{"ems interest", SetEMSInterest(domain.Yes), ReasonEMSInterest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := domain.NewAnswers()
			apply(a, tt.patch)

			assert.True(t, a.FollowUp.Needed)
			assert.Equal(t, tt.reason, a.FollowUp.Reason)
		})
	}
}

func TestInterestNoDoesNotTouchFollowUp(t *testing.T) {
	a := domain.NewAnswers()
	apply(a, SetSolarInterest(domain.Yes))

	// A later "nein" answer leaves the earlier follow-up in place
	apply(a, SetPVInterest(domain.No))

	assert.True(t, a.FollowUp.Needed)
	assert.Equal(t, ReasonSolarInterest, a.FollowUp.Reason)
	assert.Equal(t, domain.No, a.PV.Interest)
}

func TestFollowUpReasonOverwrite(t *testing.T) {
	a := domain.NewAnswers()
	apply(a, SetSolarInterest(domain.Yes))
	assert.Equal(t, ReasonSolarInterest, a.FollowUp.Reason)

	// The latest interest wins; reasons are not accumulated
	apply(a, SetPVInterest(domain.Yes))
	assert.True(t, a.FollowUp.Needed)
	assert.Equal(t, ReasonPVInterest, a.FollowUp.Reason)
}

func TestFollowUpManualFieldsSurviveRevisit(t *testing.T) {
	a := domain.NewAnswers()
	apply(a,
		SetFollowUpNeeded(true),
		SetFollowUpReason("Kundin bittet um Rückruf"),
		SetFollowUpNotes("ab 17 Uhr erreichbar"),
	)

	apply(a, SetSolarPresent(domain.Yes))

	assert.True(t, a.FollowUp.Needed)
	assert.Equal(t, "Kundin bittet um Rückruf", a.FollowUp.Reason)
	assert.Equal(t, "ab 17 Uhr erreichbar", a.FollowUp.Notes)
}

func TestControllerChangeClearsEMS(t *testing.T) {
	a := domain.NewAnswers()
	apply(a,
		SetControllerVariant(domain.ControllerComfort4),
		SetEMSInterest(domain.Yes),
		SetEMSWishes(domain.UsageFlags{Heizstab: true}),
	)
	assert.Equal(t, domain.Yes, a.PV.EMSInterest)

	// Downgrading to a class without energy management support clears
	// both fields
	apply(a, SetControllerVariant(domain.ControllerComfort3))

	assert.Equal(t, domain.Unknown, a.PV.EMSInterest)
	assert.Equal(t, domain.UsageFlags{}, a.PV.EMSWishes)
	// The follow-up already noted stays
	assert.True(t, a.FollowUp.Needed)
}

func TestPriceModeExclusivity(t *testing.T) {
	price := decimal.NewFromInt(199)

	a := domain.NewAnswers()
	apply(a, SetPriceMode(domain.PriceModeFixed), SetPriceEUR(&price))
	assert.NotNil(t, a.Offer.PriceEUR)

	apply(a, SetPriceMode(domain.PriceModeTier), SetPriceTier(domain.TierPlus))
	assert.Nil(t, a.Offer.PriceEUR)
	assert.Equal(t, domain.TierPlus, a.Offer.PriceTier)

	apply(a, SetPriceMode(domain.PriceModeFixed))
	assert.Equal(t, domain.TierUnset, a.Offer.PriceTier)
}

func TestSolarSizeExclusivity(t *testing.T) {
	size := 35.0

	a := domain.NewAnswers()
	apply(a, SetSolarSizeM2(&size))
	assert.NotNil(t, a.Solar.SizeM2)

	apply(a, SetSolarSizeRange(domain.Size20to40))
	assert.Nil(t, a.Solar.SizeM2)
	assert.Equal(t, domain.Size20to40, a.Solar.SizeRange)

	apply(a, SetSolarSizeM2(&size))
	assert.Equal(t, domain.SizeUnset, a.Solar.SizeRange)
	assert.Equal(t, 35.0, *a.Solar.SizeM2)
}

func TestSetInverterFreeTextOnlyForOther(t *testing.T) {
	a := domain.NewAnswers()
	apply(a, SetInverter(domain.InverterOther, "Kostal"))
	assert.Equal(t, "Kostal", a.PV.Inverter.Other)

	// Switching to a known make drops the stale free text
	apply(a, SetInverter(domain.InverterFronius, "Kostal"))
	assert.Equal(t, domain.InverterFronius, a.PV.Inverter.Make)
	assert.Empty(t, a.PV.Inverter.Other)
}
