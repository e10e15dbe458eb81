package steps

import (
	"leitfaden/domain"

	"github.com/shopspring/decimal"
)

// Follow-up reason strings. Answering "ja" to the corresponding question
// always sets the callback flag and replaces the stored reason; answering
// "nein" leaves prior follow-up state untouched.
const (
	ReasonSolarInterest   = "Interesse an Solar-Wartung"
	ReasonPVInterest      = "Interesse an PV-Anlage"
	ReasonPVFutureUsage   = "Interesse an optimaler PV-Nutzung"
	ReasonUpgradeInterest = "Interesse an PV-Optimierung (Heizstab/Batteriespeicher)"
	ReasonEMSInterest     = "Interesse an Energiemanagement"
)

// noteFollowUp flags the callback and overwrites the reason. The overwrite
// semantics are deliberate, see the open question in DESIGN.md.
func noteFollowUp(a *domain.Answers, reason string) {
	a.FollowUp.Needed = true
	a.FollowUp.Reason = reason
}

// interestPatch answers a tri-state interest question and fires the
// follow-up side effect on "ja".
func interestPatch(set func(*domain.Answers, domain.YesNo), v domain.YesNo, reason string) domain.Patch {
	return func(a *domain.Answers) {
		set(a, v)
		if v == domain.Yes {
			noteFollowUp(a, reason)
		}
	}
}

func SetEmployee(name string) domain.Patch {
	return func(a *domain.Answers) { a.Employee = name }
}

func SetServiceArticle(id string) domain.Patch {
	return func(a *domain.Answers) { a.ServiceArticleID = id }
}

func SetCustomer(c domain.Customer) domain.Patch {
	return func(a *domain.Answers) { a.Customer = c }
}

func SetSolarPresent(v domain.YesNo) domain.Patch {
	return func(a *domain.Answers) { a.Solar.Present = v }
}

// SetSolarInterest answers the interest-if-absent question.
func SetSolarInterest(v domain.YesNo) domain.Patch {
	return interestPatch(func(a *domain.Answers, v domain.YesNo) { a.Solar.Interest = v }, v, ReasonSolarInterest)
}

func SetSolarSizeKnown(v domain.YesNo) domain.Patch {
	return func(a *domain.Answers) { a.Solar.SizeKnown = v }
}

// SetSolarSizeM2 records the free m² value. The free value and the bucket
// are mutually exclusive; setting one clears the other.
func SetSolarSizeM2(m2 *float64) domain.Patch {
	return func(a *domain.Answers) {
		a.Solar.SizeM2 = m2
		if m2 != nil {
			a.Solar.SizeRange = domain.SizeUnset
		}
	}
}

func SetSolarSizeRange(r domain.SizeRange) domain.Patch {
	return func(a *domain.Answers) {
		a.Solar.SizeRange = r
		if r != domain.SizeUnset {
			a.Solar.SizeM2 = nil
		}
	}
}

func SetOfferMentioned(mentioned bool) domain.Patch {
	return func(a *domain.Answers) { a.Offer.Mentioned = mentioned }
}

func SetOfferInterest(v domain.YesNo) domain.Patch {
	return func(a *domain.Answers) { a.Offer.Interest = v }
}

// SetPriceMode switches the pricing mode and clears the field belonging to
// the other mode, so only one of amount and tier is ever populated.
func SetPriceMode(m domain.PriceMode) domain.Patch {
	return func(a *domain.Answers) {
		a.Offer.PriceMode = m
		switch m {
		case domain.PriceModeFixed:
			a.Offer.PriceTier = domain.TierUnset
		case domain.PriceModeTier:
			a.Offer.PriceEUR = nil
		}
	}
}

func SetPriceEUR(d *decimal.Decimal) domain.Patch {
	return func(a *domain.Answers) { a.Offer.PriceEUR = d }
}

func SetPriceTier(t domain.PriceTier) domain.Patch {
	return func(a *domain.Answers) { a.Offer.PriceTier = t }
}

func SetBoilerType(t domain.BoilerType) domain.Patch {
	return func(a *domain.Answers) { a.Boiler.Type = t }
}

func SetZone(z domain.Zone) domain.Patch {
	return func(a *domain.Answers) { a.Boiler.Zone = z }
}

func SetContract(v domain.YesNo) domain.Patch {
	return func(a *domain.Answers) { a.Boiler.Contract = v }
}

// SetControllerVariant changes the control-unit class. Moving away from
// the Comfort 4 class clears both energy-management fields; they are only
// meaningful on that class.
func SetControllerVariant(c domain.ControllerVariant) domain.Patch {
	return func(a *domain.Answers) {
		a.Boiler.Controller = c
		if !c.SupportsEMS() {
			a.PV.EMSInterest = domain.Unknown
			a.PV.EMSWishes = domain.UsageFlags{}
		}
	}
}

func SetPVPresent(v domain.YesNo) domain.Patch {
	return func(a *domain.Answers) { a.PV.Present = v }
}

func SetPVInterest(v domain.YesNo) domain.Patch {
	return interestPatch(func(a *domain.Answers, v domain.YesNo) { a.PV.Interest = v }, v, ReasonPVInterest)
}

func SetPVFutureInterest(v domain.YesNo) domain.Patch {
	return interestPatch(func(a *domain.Answers, v domain.YesNo) { a.PV.FutureInterest = v }, v, ReasonPVFutureUsage)
}

// SetInverter records the manufacturer. Free text is only kept for the
// open escape value.
func SetInverter(m domain.InverterMake, other string) domain.Patch {
	return func(a *domain.Answers) {
		a.PV.Inverter.Make = m
		if m == domain.InverterOther {
			a.PV.Inverter.Other = other
		} else {
			a.PV.Inverter.Other = ""
		}
	}
}

func SetCapacityKnown(v domain.YesNo) domain.Patch {
	return func(a *domain.Answers) { a.PV.CapacityKnown = v }
}

func SetCapacityRange(r domain.CapacityRange) domain.Patch {
	return func(a *domain.Answers) { a.PV.CapacityRange = r }
}

func SetBattery(v domain.YesNo) domain.Patch {
	return func(a *domain.Answers) { a.PV.Battery = v }
}

func SetHeizstabSurplus(v domain.YesNo) domain.Patch {
	return func(a *domain.Answers) { a.PV.HeizstabSurplus = v }
}

func SetUpgradeInterest(v domain.YesNo) domain.Patch {
	return interestPatch(func(a *domain.Answers, v domain.YesNo) { a.PV.UpgradeInterest = v }, v, ReasonUpgradeInterest)
}

func SetCurrentUsage(f domain.UsageFlags) domain.Patch {
	return func(a *domain.Answers) { a.PV.CurrentUsage = f }
}

func SetEMSInterest(v domain.YesNo) domain.Patch {
	return interestPatch(func(a *domain.Answers, v domain.YesNo) { a.PV.EMSInterest = v }, v, ReasonEMSInterest)
}

func SetEMSWishes(f domain.UsageFlags) domain.Patch {
	return func(a *domain.Answers) { a.PV.EMSWishes = f }
}

func SetFollowUpNeeded(needed bool) domain.Patch {
	return func(a *domain.Answers) { a.FollowUp.Needed = needed }
}

func SetFollowUpReason(reason string) domain.Patch {
	return func(a *domain.Answers) { a.FollowUp.Reason = reason }
}

func SetFollowUpNotes(notes string) domain.Patch {
	return func(a *domain.Answers) { a.FollowUp.Notes = notes }
}
