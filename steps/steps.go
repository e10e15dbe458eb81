// Package steps derives the ordered step list of the questionnaire from
// the current answer set. The step composition and all sub-field
// visibility rules live here so the branching logic is testable without a
// rendering layer.
package steps

import (
	"fmt"
	"strconv"
	"strings"

	"leitfaden/domain"
	"leitfaden/pricing"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

// Step identifiers, in flow order.
const (
	StepStammdaten   = "stammdaten"
	StepSolarPresent = "solar-vorhanden"
	StepSolarSize    = "solar-groesse"
	StepOffer        = "angebot-kombi"
	StepBoiler       = "kessel"
	StepPVPresent    = "pv-vorhanden"
	StepPVDetails    = "pv-details"
	StepSummary      = "zusammenfassung"
)

// DefaultRoster is the built-in employee roster, overridable via
// ~/.leitfaden/roster.yaml.
var DefaultRoster = []string{"Huber", "Leitner", "Maier", "Steiner"}

// ApplyFunc is the single mutation entry point handed to step renderers.
type ApplyFunc func(domain.Patch)

// StepForm is a rendered step: the interactive form plus the commit that
// translates the bound values into answer patches once the form completes.
type StepForm struct {
	Form       *huh.Form
	Commit     func()
	FieldCount int
}

// Step describes one questionnaire step. Render receives an immutable
// answer snapshot and the mutation entry point.
type Step struct {
	ID     string
	Title  string
	Render func(a *domain.Answers, apply ApplyFunc) StepForm
}

// Generator builds step lists. The zero value uses the default roster.
type Generator struct {
	Roster []string
}

// NewGenerator creates a step generator with the given employee roster.
func NewGenerator(roster []string) *Generator {
	if len(roster) == 0 {
		roster = DefaultRoster
	}
	return &Generator{Roster: roster}
}

// Visibility predicates. Evaluated fresh against the current answers on
// every regeneration, never cached.

// SolarSizeStep reports whether the solar-size step exists.
func SolarSizeStep(a *domain.Answers) bool {
	return a.Solar.Present == domain.Yes
}

// SolarInterestVisible reports whether the interest-if-absent follow-up
// is shown within the solar presence step.
func SolarInterestVisible(a *domain.Answers) bool {
	return a.Solar.Present == domain.No
}

// SolarSizeFieldsVisible reports whether the size inputs are shown.
func SolarSizeFieldsVisible(a *domain.Answers) bool {
	return a.Solar.SizeKnown == domain.Yes
}

// PriceFieldsVisible reports whether the price-mode sub-fields are shown.
func PriceFieldsVisible(a *domain.Answers) bool {
	return a.Offer.Interest == domain.Yes
}

// FixedPriceVisible reports whether the fixed-amount input is shown.
func FixedPriceVisible(a *domain.Answers) bool {
	return PriceFieldsVisible(a) && a.Offer.PriceMode == domain.PriceModeFixed
}

// TierVisible reports whether the tier selector is shown.
func TierVisible(a *domain.Answers) bool {
	return PriceFieldsVisible(a) && a.Offer.PriceMode == domain.PriceModeTier
}

// EMSVisible reports whether the energy-management block is shown.
func EMSVisible(a *domain.Answers) bool {
	return a.Boiler.Controller.SupportsEMS()
}

// EMSWishesVisible reports whether the optimization-target flags are shown.
func EMSWishesVisible(a *domain.Answers) bool {
	return EMSVisible(a) && a.PV.EMSInterest == domain.Yes
}

// PVDetailsStep reports whether the pv-details step exists.
func PVDetailsStep(a *domain.Answers) bool {
	return a.PV.Present == domain.Yes
}

// PVInterestVisible reports whether the PV interest-if-absent follow-ups
// are shown within the PV presence step.
func PVInterestVisible(a *domain.Answers) bool {
	return a.PV.Present == domain.No
}

// CapacityBucketVisible reports whether the capacity bucket is shown.
func CapacityBucketVisible(a *domain.Answers) bool {
	return a.PV.CapacityKnown == domain.Yes
}

// InverterOtherVisible reports whether the free-text manufacturer input
// is shown.
func InverterOtherVisible(a *domain.Answers) bool {
	return a.PV.Inverter.Make == domain.InverterOther
}

// UpgradePromptVisible reports whether the upgrade/optimization interest
// prompt is shown: the PV installation exists but surplus power is not yet
// fully used.
func UpgradePromptVisible(a *domain.Answers) bool {
	return a.PV.Present == domain.Yes &&
		(a.PV.Battery == domain.No || a.PV.HeizstabSurplus == domain.No)
}

// AdvancesAutomatically reports the single auto-advance transition in the
// flow: confirming an existing solar installation moves straight to the
// size step. Every other answer requires an explicit next action.
func AdvancesAutomatically(stepID string, a *domain.Answers) bool {
	return stepID == StepSolarPresent && a.Solar.Present == domain.Yes
}

// Build maps the current answers to the ordered step list. The result is
// regenerated on every answer change; orphaned answers of steps that
// disappeared stay in the model untouched.
func (g *Generator) Build(a *domain.Answers) []Step {
	roster := g.Roster
	if len(roster) == 0 {
		roster = DefaultRoster
	}

	steps := []Step{
		stammdatenStep(roster),
		solarPresenceStep(),
	}
	if SolarSizeStep(a) {
		steps = append(steps, solarSizeStep())
	}
	steps = append(steps,
		offerStep(),
		boilerStep(),
		pvPresenceStep(),
	)
	if PVDetailsStep(a) {
		steps = append(steps, pvDetailsStep())
	}
	steps = append(steps, summaryStep())
	return steps
}

// yesNoSelect always carries the unset option first: a committed form must
// never turn an unanswered question into an answer.
func yesNoSelect(title string, value *domain.YesNo) *huh.Select[domain.YesNo] {
	return huh.NewSelect[domain.YesNo]().
		Title(title).
		Options(
			huh.NewOption("Keine Angabe", domain.Unknown),
			huh.NewOption("Ja", domain.Yes),
			huh.NewOption("Nein", domain.No),
		).
		Value(value)
}

func stepForm(fields []huh.Field, commit func()) StepForm {
	return StepForm{
		Form:       huh.NewForm(huh.NewGroup(fields...)),
		Commit:     commit,
		FieldCount: len(fields),
	}
}

func stammdatenStep(roster []string) Step {
	return Step{
		ID:    StepStammdaten,
		Title: "Stammdaten",
		Render: func(a *domain.Answers, apply ApplyFunc) StepForm {
			employee := a.Employee
			customer := a.Customer
			article := a.ServiceArticleID

			options := make([]huh.Option[string], 0, len(roster)+1)
			options = append(options, huh.NewOption("Keine Angabe", ""))
			for _, name := range roster {
				options = append(options, huh.NewOption(name, name))
			}

			fields := []huh.Field{
				huh.NewSelect[string]().
					Title("Mitarbeiter:in").
					Options(options...).
					Value(&employee),
				huh.NewInput().
					Title("Kundenname").
					Value(&customer.Name),
				huh.NewInput().
					Title("Kundennummer").
					Value(&customer.Number),
				huh.NewInput().
					Title("Telefon").
					Value(&customer.Phone),
				huh.NewInput().
					Title("Artikelnummer Kundendienst").
					Placeholder("interne Referenz").
					Value(&article),
			}

			return stepForm(fields, func() {
				apply(SetEmployee(employee))
				apply(SetCustomer(customer))
				apply(SetServiceArticle(article))
			})
		},
	}
}

func solarPresenceStep() Step {
	return Step{
		ID:    StepSolarPresent,
		Title: "Solar-Anlage vorhanden?",
		Render: func(a *domain.Answers, apply ApplyFunc) StepForm {
			present := a.Solar.Present
			interest := a.Solar.Interest

			fields := []huh.Field{
				yesNoSelect("Haben Sie eine Solar-Anlage?", &present),
			}
			if SolarInterestVisible(a) {
				fields = append(fields,
					yesNoSelect("Interesse an einer Solar-Anlage?", &interest),
				)
			}

			return stepForm(fields, func() {
				apply(SetSolarPresent(present))
				if SolarInterestVisible(a) {
					apply(SetSolarInterest(interest))
				}
			})
		},
	}
}

func solarSizeStep() Step {
	return Step{
		ID:    StepSolarSize,
		Title: "Solar-Größe",
		Render: func(a *domain.Answers, apply ApplyFunc) StepForm {
			known := a.Solar.SizeKnown
			sizeText := ""
			if a.Solar.SizeM2 != nil {
				sizeText = strconv.FormatFloat(*a.Solar.SizeM2, 'f', -1, 64)
			}
			initialText := sizeText
			sizeRange := a.Solar.SizeRange

			fields := []huh.Field{
				yesNoSelect("Ist die Größe der Anlage bekannt?", &known),
			}
			if SolarSizeFieldsVisible(a) {
				fields = append(fields,
					huh.NewInput().
						Title("Größe (m²) – frei").
						Placeholder("z. B. 35").
						Value(&sizeText).
						Validate(validateOptionalNumber),
					huh.NewSelect[domain.SizeRange]().
						Title("oder Bereich wählen").
						Options(
							huh.NewOption("Keine Angabe", domain.SizeUnset),
							huh.NewOption("Kleiner als 20 m²", domain.SizeBelow20),
							huh.NewOption("20–40 m²", domain.Size20to40),
							huh.NewOption("40–60 m²", domain.Size40to60),
							huh.NewOption("Größer als 60 m²", domain.SizeAbove60),
						).
						Value(&sizeRange),
				)
			}

			return stepForm(fields, func() {
				apply(SetSolarSizeKnown(known))
				if !SolarSizeFieldsVisible(a) {
					return
				}
				for _, p := range solarSizePatches(a, sizeText, initialText, sizeRange) {
					apply(p)
				}
			})
		},
	}
}

// solarSizePatches resolves the two mutually exclusive size inputs against
// the previous snapshot: the field the user actually changed wins, and
// clearing the free value unsets it. An edited free value takes precedence
// when both changed.
func solarSizePatches(a *domain.Answers, sizeText, initialText string, sizeRange domain.SizeRange) []domain.Patch {
	var patches []domain.Patch

	if strings.TrimSpace(sizeText) != strings.TrimSpace(initialText) {
		if m2, ok := parseNumber(sizeText); ok {
			return append(patches, SetSolarSizeM2(&m2))
		}
		if strings.TrimSpace(sizeText) == "" {
			patches = append(patches, SetSolarSizeM2(nil))
		}
	}

	if sizeRange != a.Solar.SizeRange {
		patches = append(patches, SetSolarSizeRange(sizeRange))
	}

	return patches
}

func offerStep() Step {
	return Step{
		ID:    StepOffer,
		Title: "Angebot Kombi-Wartung",
		Render: func(a *domain.Answers, apply ApplyFunc) StepForm {
			interest := a.Offer.Interest
			mode := a.Offer.PriceMode
			tier := a.Offer.PriceTier
			priceText := ""
			if a.Offer.PriceEUR != nil {
				priceText = a.Offer.PriceEUR.String()
			}

			fields := []huh.Field{
				yesNoSelect("Interesse am Kombi-Angebot?", &interest).
					Description(offerPitch(a)),
			}
			if PriceFieldsVisible(a) {
				fields = append(fields,
					huh.NewSelect[domain.PriceMode]().
						Title("Preis-Modus").
						Options(
							huh.NewOption("Keine Angabe", domain.PriceModeUnset),
							huh.NewOption("Fester Preis (EUR)", domain.PriceModeFixed),
							huh.NewOption("Preis-Stufe", domain.PriceModeTier),
						).
						Value(&mode),
				)
			}
			if FixedPriceVisible(a) {
				fields = append(fields,
					huh.NewInput().
						Title("Preis (EUR)").
						Placeholder("z. B. 199").
						Value(&priceText).
						Validate(validateOptionalAmount),
				)
			}
			if TierVisible(a) {
				fields = append(fields,
					huh.NewSelect[domain.PriceTier]().
						Title("Preis-Stufe").
						Options(
							huh.NewOption("Keine Angabe", domain.TierUnset),
							huh.NewOption("Basis", domain.TierBasis),
							huh.NewOption("Plus", domain.TierPlus),
							huh.NewOption("Premium", domain.TierPremium),
						).
						Value(&tier),
				)
			}

			return stepForm(fields, func() {
				apply(SetOfferMentioned(true))
				apply(SetOfferInterest(interest))
				if !PriceFieldsVisible(a) {
					return
				}
				apply(SetPriceMode(mode))
				switch mode {
				case domain.PriceModeFixed:
					if d, err := decimal.NewFromString(strings.TrimSpace(priceText)); err == nil {
						apply(SetPriceEUR(&d))
					}
				case domain.PriceModeTier:
					if tier != domain.TierUnset {
						apply(SetPriceTier(tier))
					}
				}
			})
		},
	}
}

// offerPitch restates the bundle advantage, with concrete figures once the
// boiler facts are complete.
func offerPitch(a *domain.Answers) string {
	prices := pricing.Compute(a.Boiler)
	if prices.BundleTotal == nil {
		return fmt.Sprintf(
			"Solar-Wartung einzeln %s € netto, im Kombipaket %s € netto. Gesamtpreis folgt aus den Kesseldaten.",
			prices.SoloSolarPrice.StringFixed(2),
			prices.BundledSolarPrice.StringFixed(2),
		)
	}
	return fmt.Sprintf(
		"Kombipaket gesamt %s € netto (Solaranteil %s € statt %s €, Ersparnis %s €).",
		prices.BundleTotal.StringFixed(2),
		prices.BundledSolarPrice.StringFixed(2),
		prices.SoloSolarPrice.StringFixed(2),
		prices.BundleSavings.StringFixed(2),
	)
}

func boilerStep() Step {
	return Step{
		ID:    StepBoiler,
		Title: "Heizkessel",
		Render: func(a *domain.Answers, apply ApplyFunc) StepForm {
			boilerType := a.Boiler.Type
			zone := a.Boiler.Zone
			contract := a.Boiler.Contract
			controller := a.Boiler.Controller
			emsInterest := a.PV.EMSInterest
			emsWishes := usageSelection(a.PV.EMSWishes)
			emsOther := a.PV.EMSWishes.Sonstiges

			fields := []huh.Field{
				huh.NewSelect[domain.BoilerType]().
					Title("Kesseltyp").
					Options(
						huh.NewOption("Keine Angabe", domain.BoilerUnset),
						huh.NewOption("EasyFire", domain.BoilerEasyfire),
						huh.NewOption("MultiFire", domain.BoilerMultifire),
					).
					Value(&boilerType),
				huh.NewSelect[domain.Zone]().
					Title("Zone").
					Options(
						huh.NewOption("Keine Angabe", domain.ZoneUnset),
						huh.NewOption("Zone 1", domain.Zone1),
						huh.NewOption("Zone 2", domain.Zone2),
					).
					Value(&zone),
				yesNoSelect("Besteht ein Wartungsvertrag?", &contract),
				huh.NewSelect[domain.ControllerVariant]().
					Title("Regelung").
					Options(
						huh.NewOption("Keine Angabe", domain.ControllerUnset),
						huh.NewOption("Comfort 3", domain.ControllerComfort3),
						huh.NewOption("Comfort 4", domain.ControllerComfort4),
						huh.NewOption("Sonstige", domain.ControllerOther),
					).
					Value(&controller),
			}
			if EMSVisible(a) {
				fields = append(fields,
					yesNoSelect("Interesse an Energiemanagement?", &emsInterest),
				)
			}
			if EMSWishesVisible(a) {
				fields = append(fields, emsWishFields(&emsWishes, &emsOther)...)
			}

			return stepForm(fields, func() {
				apply(SetBoilerType(boilerType))
				apply(SetZone(zone))
				apply(SetContract(contract))
				apply(SetControllerVariant(controller))
				if EMSVisible(a) && controller.SupportsEMS() {
					apply(SetEMSInterest(emsInterest))
				}
				if EMSWishesVisible(a) && controller.SupportsEMS() {
					apply(SetEMSWishes(selectionToUsage(emsWishes, emsOther)))
				}
			})
		},
	}
}

func pvPresenceStep() Step {
	return Step{
		ID:    StepPVPresent,
		Title: "PV-Anlage vorhanden?",
		Render: func(a *domain.Answers, apply ApplyFunc) StepForm {
			present := a.PV.Present
			interest := a.PV.Interest
			future := a.PV.FutureInterest

			fields := []huh.Field{
				yesNoSelect("Haben Sie eine PV-Anlage?", &present),
			}
			if PVInterestVisible(a) {
				fields = append(fields,
					yesNoSelect("Interesse an einer PV-Anlage?", &interest),
					yesNoSelect("Interesse an optimaler PV-Nutzung in Zukunft?", &future),
				)
			}

			return stepForm(fields, func() {
				apply(SetPVPresent(present))
				if PVInterestVisible(a) {
					apply(SetPVInterest(interest))
					apply(SetPVFutureInterest(future))
				}
			})
		},
	}
}

func pvDetailsStep() Step {
	return Step{
		ID:    StepPVDetails,
		Title: "PV-Details",
		Render: func(a *domain.Answers, apply ApplyFunc) StepForm {
			inverter := a.PV.Inverter.Make
			inverterOther := a.PV.Inverter.Other
			capacityKnown := a.PV.CapacityKnown
			capacityRange := a.PV.CapacityRange
			battery := a.PV.Battery
			heizstab := a.PV.HeizstabSurplus
			upgrade := a.PV.UpgradeInterest
			usage := usageSelection(a.PV.CurrentUsage)
			usageOther := a.PV.CurrentUsage.Sonstiges
			emsInterest := a.PV.EMSInterest
			emsWishes := usageSelection(a.PV.EMSWishes)
			emsOther := a.PV.EMSWishes.Sonstiges

			fields := []huh.Field{
				huh.NewSelect[domain.InverterMake]().
					Title("Wechselrichter-Hersteller").
					Options(
						huh.NewOption("Keine Angabe", domain.InverterUnset),
						huh.NewOption("Fronius", domain.InverterFronius),
						huh.NewOption("SMA", domain.InverterSMA),
						huh.NewOption("Huawei", domain.InverterHuawei),
						huh.NewOption("Sonstige", domain.InverterOther),
					).
					Value(&inverter),
			}
			if InverterOtherVisible(a) {
				fields = append(fields,
					huh.NewInput().
						Title("Hersteller (frei)").
						Value(&inverterOther),
				)
			}
			fields = append(fields,
				yesNoSelect("Ist die Leistung der Anlage bekannt?", &capacityKnown),
			)
			if CapacityBucketVisible(a) {
				fields = append(fields,
					huh.NewSelect[domain.CapacityRange]().
						Title("Leistung (kWp)").
						Options(
							huh.NewOption("Keine Angabe", domain.CapacityUnset),
							huh.NewOption("Kleiner als 5 kWp", domain.CapacityBelow5),
							huh.NewOption("5–10 kWp", domain.Capacity5to10),
							huh.NewOption("10–15 kWp", domain.Capacity10to15),
							huh.NewOption("Größer als 15 kWp", domain.CapacityAbove15),
						).
						Value(&capacityRange),
				)
			}
			fields = append(fields,
				yesNoSelect("Ist ein Batteriespeicher vorhanden?", &battery),
				yesNoSelect("Wird Überschuss für den Heizstab genutzt?", &heizstab),
			)
			fields = append(fields, usageFields("Wofür wird Überschuss aktuell genutzt?", &usage, &usageOther)...)
			if UpgradePromptVisible(a) {
				fields = append(fields,
					yesNoSelect("Interesse an Erweiterung/Optimierung?", &upgrade),
				)
			}
			if EMSVisible(a) {
				fields = append(fields,
					yesNoSelect("Interesse an Energiemanagement?", &emsInterest),
				)
			}
			if EMSWishesVisible(a) {
				fields = append(fields, emsWishFields(&emsWishes, &emsOther)...)
			}

			return stepForm(fields, func() {
				apply(SetInverter(inverter, inverterOther))
				apply(SetCapacityKnown(capacityKnown))
				if CapacityBucketVisible(a) && capacityRange != domain.CapacityUnset {
					apply(SetCapacityRange(capacityRange))
				}
				apply(SetBattery(battery))
				apply(SetHeizstabSurplus(heizstab))
				apply(SetCurrentUsage(selectionToUsage(usage, usageOther)))
				if UpgradePromptVisible(a) {
					apply(SetUpgradeInterest(upgrade))
				}
				if EMSVisible(a) {
					apply(SetEMSInterest(emsInterest))
				}
				if EMSWishesVisible(a) {
					apply(SetEMSWishes(selectionToUsage(emsWishes, emsOther)))
				}
			})
		},
	}
}

func summaryStep() Step {
	return Step{
		ID:    StepSummary,
		Title: "Zusammenfassung & Follow-up",
		Render: func(a *domain.Answers, apply ApplyFunc) StepForm {
			needed := a.FollowUp.Needed
			reason := a.FollowUp.Reason
			notes := a.FollowUp.Notes

			fields := []huh.Field{
				huh.NewConfirm().
					Title("Rückruf nötig?").
					Value(&needed).
					Affirmative("Ja").
					Negative("Nein"),
				huh.NewInput().
					Title("Grund").
					Value(&reason),
				huh.NewText().
					Title("Notizen").
					Value(&notes).
					CharLimit(1000),
			}

			return stepForm(fields, func() {
				apply(SetFollowUpNeeded(needed))
				apply(SetFollowUpReason(reason))
				apply(SetFollowUpNotes(notes))
			})
		},
	}
}

// Usage-flag helpers shared by the two independent flag sets.

const (
	usageHeizstab    = "heizstab"
	usageBatterie    = "batteriespeicher"
	usageWaermepumpe = "waermepumpe"
	usageKlima       = "klimaanlage"
)

func usageSelection(u domain.UsageFlags) []string {
	var sel []string
	if u.Heizstab {
		sel = append(sel, usageHeizstab)
	}
	if u.Batteriespeicher {
		sel = append(sel, usageBatterie)
	}
	if u.Waermepumpe {
		sel = append(sel, usageWaermepumpe)
	}
	if u.Klimaanlage {
		sel = append(sel, usageKlima)
	}
	return sel
}

func selectionToUsage(sel []string, other string) domain.UsageFlags {
	u := domain.UsageFlags{Sonstiges: strings.TrimSpace(other)}
	for _, key := range sel {
		switch key {
		case usageHeizstab:
			u.Heizstab = true
		case usageBatterie:
			u.Batteriespeicher = true
		case usageWaermepumpe:
			u.Waermepumpe = true
		case usageKlima:
			u.Klimaanlage = true
		}
	}
	return u
}

func usageFields(title string, sel *[]string, other *string) []huh.Field {
	return []huh.Field{
		huh.NewMultiSelect[string]().
			Title(title).
			Options(
				huh.NewOption("Heizstab", usageHeizstab),
				huh.NewOption("Batteriespeicher", usageBatterie),
				huh.NewOption("Wärmepumpe", usageWaermepumpe),
				huh.NewOption("Klimaanlage", usageKlima),
			).
			Value(sel),
		huh.NewInput().
			Title("Sonstiges").
			Value(other),
	}
}

func emsWishFields(sel *[]string, other *string) []huh.Field {
	return usageFields("Was soll optimiert werden?", sel, other)
}

func validateOptionalNumber(s string) error {
	if _, ok := parseNumber(s); ok || strings.TrimSpace(s) == "" {
		return nil
	}
	return fmt.Errorf("bitte eine Zahl eingeben")
}

func validateOptionalAmount(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := decimal.NewFromString(s); err != nil {
		return fmt.Errorf("bitte einen Betrag eingeben")
	}
	return nil
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
