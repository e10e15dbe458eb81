package ui

import (
	"fmt"
	"strconv"
	"strings"

	"leitfaden/domain"
	"leitfaden/pricing"
	"leitfaden/steps"

	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))
)

func yesNoLabel(y domain.YesNo) string {
	switch y {
	case domain.Yes:
		return "Ja"
	case domain.No:
		return "Nein"
	}
	return ""
}

func boolLabel(b bool) string {
	if b {
		return "Ja"
	}
	return "Nein"
}

type summaryLine struct {
	label string
	value string
}

func renderLines(lines []summaryLine) string {
	var b strings.Builder
	for _, l := range lines {
		if l.value == "" {
			continue
		}
		b.WriteString(labelStyle.Render(l.label+": ") + valueStyle.Render(l.value) + "\n")
	}
	return b.String()
}

// stepSummary renders the answered fields of one step for the review pane.
// Unanswered questions are simply omitted.
func stepSummary(a *domain.Answers, stepID string) string {
	switch stepID {
	case steps.StepStammdaten:
		return renderLines([]summaryLine{
			{"Mitarbeiter:in", a.Employee},
			{"Kundenname", a.Customer.Name},
			{"Kundennummer", a.Customer.Number},
			{"Telefon", a.Customer.Phone},
			{"Artikelnummer", a.ServiceArticleID},
		})
	case steps.StepSolarPresent:
		return renderLines([]summaryLine{
			{"Solar-Anlage vorhanden", yesNoLabel(a.Solar.Present)},
			{"Interesse an Solar", yesNoLabel(a.Solar.Interest)},
		})
	case steps.StepSolarSize:
		return renderLines([]summaryLine{
			{"Größe bekannt", yesNoLabel(a.Solar.SizeKnown)},
			{"Größe", solarSizeLabel(a)},
		})
	case steps.StepOffer:
		return renderLines([]summaryLine{
			{"Angebot genannt", boolLabel(a.Offer.Mentioned)},
			{"Interesse am Kombi-Angebot", yesNoLabel(a.Offer.Interest)},
			{"Preis", offerPriceLabel(a)},
		})
	case steps.StepBoiler:
		lines := []summaryLine{
			{"Kesseltyp", a.Boiler.Type.Label()},
			{"Zone", a.Boiler.Zone.Label()},
			{"Wartungsvertrag", yesNoLabel(a.Boiler.Contract)},
			{"Regelung", a.Boiler.Controller.Label()},
		}
		lines = append(lines, emsLines(a)...)
		return renderLines(lines)
	case steps.StepPVPresent:
		return renderLines([]summaryLine{
			{"PV-Anlage vorhanden", yesNoLabel(a.PV.Present)},
			{"Interesse an PV", yesNoLabel(a.PV.Interest)},
			{"Interesse an optimaler Nutzung", yesNoLabel(a.PV.FutureInterest)},
		})
	case steps.StepPVDetails:
		lines := []summaryLine{
			{"Wechselrichter", a.PV.Inverter.Label()},
			{"Leistung bekannt", yesNoLabel(a.PV.CapacityKnown)},
			{"Leistung", capacityLabel(a.PV.CapacityRange)},
			{"Batteriespeicher", yesNoLabel(a.PV.Battery)},
			{"Heizstab-Überschuss", yesNoLabel(a.PV.HeizstabSurplus)},
			{"Aktuelle Nutzung", strings.Join(a.PV.CurrentUsage.Labels(), ", ")},
			{"Interesse an Erweiterung", yesNoLabel(a.PV.UpgradeInterest)},
		}
		lines = append(lines, emsLines(a)...)
		return renderLines(lines)
	case steps.StepSummary:
		return sessionSummary(a)
	}
	return ""
}

func emsLines(a *domain.Answers) []summaryLine {
	if !a.Boiler.Controller.SupportsEMS() {
		return nil
	}
	return []summaryLine{
		{"Interesse an Energiemanagement", yesNoLabel(a.PV.EMSInterest)},
		{"Optimierungswünsche", strings.Join(a.PV.EMSWishes.Labels(), ", ")},
	}
}

func solarSizeLabel(a *domain.Answers) string {
	if a.Solar.SizeM2 != nil {
		return strconv.FormatFloat(*a.Solar.SizeM2, 'f', -1, 64) + " m²"
	}
	switch a.Solar.SizeRange {
	case domain.SizeBelow20:
		return "Kleiner als 20 m²"
	case domain.Size20to40:
		return "20–40 m²"
	case domain.Size40to60:
		return "40–60 m²"
	case domain.SizeAbove60:
		return "Größer als 60 m²"
	}
	return ""
}

func capacityLabel(c domain.CapacityRange) string {
	switch c {
	case domain.CapacityBelow5:
		return "Kleiner als 5 kWp"
	case domain.Capacity5to10:
		return "5–10 kWp"
	case domain.Capacity10to15:
		return "10–15 kWp"
	case domain.CapacityAbove15:
		return "Größer als 15 kWp"
	}
	return ""
}

func offerPriceLabel(a *domain.Answers) string {
	switch a.Offer.PriceMode {
	case domain.PriceModeFixed:
		if a.Offer.PriceEUR != nil {
			return a.Offer.PriceEUR.StringFixed(2) + " €"
		}
	case domain.PriceModeTier:
		return string(a.Offer.PriceTier)
	}
	return ""
}

// sessionSummary renders the whole visit for the final step, grouped the
// way the conversation ran.
func sessionSummary(a *domain.Answers) string {
	var b strings.Builder

	section := func(title, body string) {
		if body == "" {
			return
		}
		b.WriteString(sectionStyle.Render(title) + "\n")
		b.WriteString(body)
		b.WriteString("\n")
	}

	section("Stammdaten", stepSummary(a, steps.StepStammdaten))
	section("Solar", stepSummary(a, steps.StepSolarPresent)+stepSummary(a, steps.StepSolarSize))
	section("Angebot", stepSummary(a, steps.StepOffer)+priceSummary(a))
	section("Heizkessel", stepSummary(a, steps.StepBoiler))
	section("PV", stepSummary(a, steps.StepPVPresent)+stepSummary(a, steps.StepPVDetails))
	section("Follow-up", renderLines([]summaryLine{
		{"Rückruf nötig", boolLabel(a.FollowUp.Needed)},
		{"Grund", a.FollowUp.Reason},
		{"Notizen", a.FollowUp.Notes},
	}))

	return b.String()
}

func priceSummary(a *domain.Answers) string {
	prices := pricing.Compute(a.Boiler)
	if prices.BundleTotal == nil {
		return ""
	}
	return renderLines([]summaryLine{
		{"Kesselwartung", prices.BoilerPrice.StringFixed(2) + " € netto"},
		{"Solaranteil im Paket", fmt.Sprintf("%s € statt %s € netto",
			prices.BundledSolarPrice.StringFixed(2),
			prices.SoloSolarPrice.StringFixed(2))},
		{"Kombipaket gesamt", prices.BundleTotal.StringFixed(2) + " € netto"},
		{"Ersparnis", prices.BundleSavings.StringFixed(2) + " €"},
	})
}
