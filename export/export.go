// Package export turns a finished (or half-finished) answer set into the
// two interchange formats: the structured JSON payload and the flat
// semicolon-delimited record for downstream processing. Export never
// blocks on missing answers; unknown values become empty columns.
package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"leitfaden/domain"
	"leitfaden/pricing"

	"github.com/shopspring/decimal"
)

// Headers is the versioned column order of the flat record. Changing it
// requires bumping the schema revision of the persistence key.
var Headers = []string{
	"SessionId",
	"Timestamp",
	"Mitarbeiterin",
	"Artikelnummer",
	"Kundenname",
	"Kundennummer",
	"Telefon",
	"SolarVorhanden",
	"SolarInteresse",
	"SolarGroesseBekannt",
	"SolarGroesseM2",
	"SolarGroesseRange",
	"KombiKommuniziert",
	"KombiInteresse",
	"KombiPreisModus",
	"KombiPreisEUR",
	"KombiPreisstufe",
	"KesselTyp",
	"KesselZone",
	"Wartungsvertrag",
	"Regelung",
	"PreisKessel",
	"PreisSolarEinzeln",
	"PreisSolarKombi",
	"PreisKombiGesamt",
	"ErsparnisSolar",
	"PVVorhanden",
	"PVInteresse",
	"PVZukunftInteresse",
	"Wechselrichter",
	"PVLeistungBekannt",
	"PVLeistungRange",
	"PVBatterie",
	"PVHeizstab",
	"PVUpgradeInteresse",
	"PVNutzungAktuell",
	"EMSInteresse",
	"EMSWuensche",
	"FollowUpNoetig",
	"FollowUpGrund",
	"FollowUpNotizen",
}

// CSV renders the answers as header row plus one record, semicolon
// delimited. Booleans render as "ja"/"nein", unknown values as empty
// string, flag sets as a comma-joined list of human labels.
func CSV(a *domain.Answers) string {
	values := Values(a)
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = escapeValue(v)
	}
	return strings.Join(Headers, ";") + "\n" + strings.Join(escaped, ";")
}

// Values returns the record columns in header order, unescaped.
func Values(a *domain.Answers) []string {
	prices := pricing.Compute(a.Boiler)

	return []string{
		a.SessionID,
		a.CreatedAt.Format(time.RFC3339),
		a.Employee,
		a.ServiceArticleID,
		a.Customer.Name,
		a.Customer.Number,
		a.Customer.Phone,
		string(a.Solar.Present),
		string(a.Solar.Interest),
		string(a.Solar.SizeKnown),
		formatFloat(a.Solar.SizeM2),
		string(a.Solar.SizeRange),
		boolToken(a.Offer.Mentioned),
		string(a.Offer.Interest),
		string(a.Offer.PriceMode),
		formatDecimal(a.Offer.PriceEUR),
		string(a.Offer.PriceTier),
		a.Boiler.Type.Label(),
		a.Boiler.Zone.Label(),
		string(a.Boiler.Contract),
		a.Boiler.Controller.Label(),
		formatDecimal(prices.BoilerPrice),
		prices.SoloSolarPrice.StringFixed(2),
		prices.BundledSolarPrice.StringFixed(2),
		formatDecimal(prices.BundleTotal),
		formatDecimal(prices.BundleSavings),
		string(a.PV.Present),
		string(a.PV.Interest),
		string(a.PV.FutureInterest),
		a.PV.Inverter.Label(),
		string(a.PV.CapacityKnown),
		string(a.PV.CapacityRange),
		string(a.PV.Battery),
		string(a.PV.HeizstabSurplus),
		string(a.PV.UpgradeInterest),
		strings.Join(a.PV.CurrentUsage.Labels(), ", "),
		string(a.PV.EMSInterest),
		strings.Join(a.PV.EMSWishes.Labels(), ", "),
		boolToken(a.FollowUp.Needed),
		a.FollowUp.Reason,
		a.FollowUp.Notes,
	}
}

// JSON renders the answers as the lossless structured payload.
func JSON(a *domain.Answers) ([]byte, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}
	return data, nil
}

// Filename builds the export filename for the given extension, e.g.
// leitfaden_3f2a….csv
func Filename(a *domain.Answers, ext string) string {
	return fmt.Sprintf("leitfaden_%s.%s", a.SessionID, ext)
}

// escapeValue applies standard CSV quoting for the semicolon dialect:
// values containing the delimiter, a double quote, or a newline are
// wrapped in double quotes with internal quotes doubled.
func escapeValue(v string) string {
	if strings.ContainsAny(v, ";\"\n") {
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return v
}

func boolToken(b bool) string {
	if b {
		return "ja"
	}
	return "nein"
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}
