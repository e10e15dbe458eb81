package export

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"leitfaden/domain"
	"leitfaden/steps"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAnswers() *domain.Answers {
	size := 35.5

	a := domain.NewAnswers()
	a.Employee = "Huber"
	a.Customer = domain.Customer{Name: "Mustermann; GmbH", Number: "K-1001", Phone: "+43 664 1234567"}
	a.Solar.Present = domain.Yes
	a.Solar.SizeKnown = domain.Yes
	a.Solar.SizeM2 = &size
	a.Offer.Mentioned = true
	a.Offer.Interest = domain.Yes
	a.Boiler = domain.BoilerFacts{
		Type:       domain.BoilerEasyfire,
		Zone:       domain.Zone1,
		Contract:   domain.Yes,
		Controller: domain.ControllerComfort4,
	}
	a.PV.Present = domain.Yes
	a.PV.Inverter = domain.Inverter{Make: domain.InverterOther, Other: "Kostal"}
	a.PV.CurrentUsage = domain.UsageFlags{Heizstab: true, Batteriespeicher: true}
	a.FollowUp = domain.FollowUp{
		Needed: true,
		Reason: steps.ReasonEMSInterest,
		Notes:  "Zitat: \"gerne\"\nZeile zwei",
	}
	return a
}

func TestCSVParsesWithStandardReader(t *testing.T) {
	a := sampleAnswers()

	r := csv.NewReader(strings.NewReader(CSV(a)))
	r.Comma = ';'
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, Headers, records[0])
	// Quoting round-trips delimiter, quotes, and newline
	assert.Equal(t, Values(a), records[1])
}

func TestCSVColumnAlignment(t *testing.T) {
	a := sampleAnswers()
	values := Values(a)
	require.Len(t, values, len(Headers))

	byHeader := make(map[string]string, len(Headers))
	for i, h := range Headers {
		byHeader[h] = values[i]
	}

	assert.Equal(t, a.SessionID, byHeader["SessionId"])
	timestamp, err := time.Parse(time.RFC3339, byHeader["Timestamp"])
	require.NoError(t, err)
	assert.True(t, timestamp.Equal(a.CreatedAt.Truncate(time.Second)))
	assert.Equal(t, "Huber", byHeader["Mitarbeiterin"])
	assert.Equal(t, "Mustermann; GmbH", byHeader["Kundenname"])
	assert.Equal(t, "ja", byHeader["SolarVorhanden"])
	assert.Equal(t, "35.5", byHeader["SolarGroesseM2"])
	assert.Equal(t, "ja", byHeader["KombiKommuniziert"])
	assert.Equal(t, "EasyFire", byHeader["KesselTyp"])
	assert.Equal(t, "Zone 1", byHeader["KesselZone"])
	assert.Equal(t, "Comfort 4", byHeader["Regelung"])
	assert.Equal(t, "316.80", byHeader["PreisKessel"])
	assert.Equal(t, "330.00", byHeader["PreisSolarEinzeln"])
	assert.Equal(t, "169.00", byHeader["PreisSolarKombi"])
	assert.Equal(t, "485.80", byHeader["PreisKombiGesamt"])
	assert.Equal(t, "161.00", byHeader["ErsparnisSolar"])
	assert.Equal(t, "Kostal", byHeader["Wechselrichter"])
	assert.Equal(t, "Heizstab, Batteriespeicher", byHeader["PVNutzungAktuell"])
	assert.Equal(t, "ja", byHeader["FollowUpNoetig"])
	assert.Equal(t, steps.ReasonEMSInterest, byHeader["FollowUpGrund"])
}

func TestCSVFreshSession(t *testing.T) {
	a := domain.NewAnswers()
	values := Values(a)

	byHeader := make(map[string]string, len(Headers))
	for i, h := range Headers {
		byHeader[h] = values[i]
	}

	// Unanswered tri-state questions export as empty, plain booleans as
	// "nein", the fixed rates are always present
	assert.Equal(t, "", byHeader["SolarVorhanden"])
	assert.Equal(t, "", byHeader["Wartungsvertrag"])
	assert.Equal(t, "nein", byHeader["KombiKommuniziert"])
	assert.Equal(t, "nein", byHeader["FollowUpNoetig"])
	assert.Equal(t, "", byHeader["PreisKessel"])
	assert.Equal(t, "", byHeader["PreisKombiGesamt"])
	assert.Equal(t, "330.00", byHeader["PreisSolarEinzeln"])
}

func TestJSONRoundTrip(t *testing.T) {
	a := sampleAnswers()

	data, err := JSON(a)
	require.NoError(t, err)

	var back domain.Answers
	require.NoError(t, json.Unmarshal(data, &back))

	assert.Equal(t, a.SessionID, back.SessionID)
	assert.Equal(t, a.Customer, back.Customer)
	assert.Equal(t, a.Boiler, back.Boiler)
	assert.Equal(t, a.PV.Inverter, back.PV.Inverter)
	assert.Equal(t, a.FollowUp, back.FollowUp)
	require.NotNil(t, back.Solar.SizeM2)
	assert.Equal(t, *a.Solar.SizeM2, *back.Solar.SizeM2)
}

func TestFilename(t *testing.T) {
	a := domain.NewAnswers()
	a.SessionID = "abc-123"

	assert.Equal(t, "leitfaden_abc-123.csv", Filename(a, "csv"))
	assert.Equal(t, "leitfaden_abc-123.json", Filename(a, "json"))
}

func TestEscapeValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Huber", "Huber"},
		{"empty", "", ""},
		{"semicolon", "a;b", `"a;b"`},
		{"quote", `sagt "ja"`, `"sagt ""ja"""`},
		{"newline", "a\nb", "\"a\nb\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, escapeValue(tt.input))
		})
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	a := sampleAnswers()

	csvPath, jsonPath, err := WriteFiles(a, dir)
	require.NoError(t, err)
	assert.FileExists(t, csvPath)
	assert.FileExists(t, jsonPath)
}
