package domain

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// YesNo is a tri-state answer: unknown until the user explicitly picks
// yes or no. No logic ever infers a value from other fields.
type YesNo string

const (
	Unknown YesNo = ""
	Yes     YesNo = "ja"
	No      YesNo = "nein"
)

// Known reports whether the question has been answered at all.
func (y YesNo) Known() bool {
	return y == Yes || y == No
}

// BoilerType identifies the boiler model line.
type BoilerType string

const (
	BoilerUnset     BoilerType = ""
	BoilerEasyfire  BoilerType = "easyfire"
	BoilerMultifire BoilerType = "multifire"
)

// Label returns the display name of the boiler type.
func (b BoilerType) Label() string {
	switch b {
	case BoilerEasyfire:
		return "EasyFire"
	case BoilerMultifire:
		return "MultiFire"
	}
	return ""
}

// Zone is the service zone the customer address falls into.
type Zone string

const (
	ZoneUnset Zone = ""
	Zone1     Zone = "zone1"
	Zone2     Zone = "zone2"
)

// Label returns the display name of the zone.
func (z Zone) Label() string {
	switch z {
	case Zone1:
		return "Zone 1"
	case Zone2:
		return "Zone 2"
	}
	return ""
}

// ControllerVariant is the boiler's control-unit class. Comfort 4 is the
// only class that supports energy management; Comfort 3 is structurally
// incompatible with it.
type ControllerVariant string

const (
	ControllerUnset    ControllerVariant = ""
	ControllerComfort3 ControllerVariant = "comfort3"
	ControllerComfort4 ControllerVariant = "comfort4"
	ControllerOther    ControllerVariant = "sonstige"
)

// Label returns the display name of the controller variant.
func (c ControllerVariant) Label() string {
	switch c {
	case ControllerComfort3:
		return "Comfort 3"
	case ControllerComfort4:
		return "Comfort 4"
	case ControllerOther:
		return "Sonstige"
	}
	return ""
}

// SupportsEMS reports whether energy management can be offered at all.
func (c ControllerVariant) SupportsEMS() bool {
	return c == ControllerComfort4
}

// SizeRange is the bucketed solar-thermal collector size in m².
type SizeRange string

const (
	SizeUnset   SizeRange = ""
	SizeBelow20 SizeRange = "<20"
	Size20to40  SizeRange = "20-40"
	Size40to60  SizeRange = "40-60"
	SizeAbove60 SizeRange = ">60"
)

// PriceMode selects how the combined-offer price is communicated.
type PriceMode string

const (
	PriceModeUnset PriceMode = ""
	PriceModeFixed PriceMode = "fest"
	PriceModeTier  PriceMode = "auswahl"
)

// PriceTier is the tier label used when PriceMode is "auswahl".
type PriceTier string

const (
	TierUnset   PriceTier = ""
	TierBasis   PriceTier = "Basis"
	TierPlus    PriceTier = "Plus"
	TierPremium PriceTier = "Premium"
)

// CapacityRange is the bucketed PV capacity in kWp.
type CapacityRange string

const (
	CapacityUnset   CapacityRange = ""
	CapacityBelow5  CapacityRange = "<5"
	Capacity5to10   CapacityRange = "5-10"
	Capacity10to15  CapacityRange = "10-15"
	CapacityAbove15 CapacityRange = ">15"
)

// InverterMake is the PV inverter manufacturer. InverterOther is the open
// escape value; free text is only valid together with it.
type InverterMake string

const (
	InverterUnset   InverterMake = ""
	InverterFronius InverterMake = "Fronius"
	InverterSMA     InverterMake = "SMA"
	InverterHuawei  InverterMake = "Huawei"
	InverterOther   InverterMake = "Sonstige"
)

// Inverter is a tagged variant: the free-text payload is meaningful only
// when Make is InverterOther.
type Inverter struct {
	Make  InverterMake `json:"make"`
	Other string       `json:"other,omitempty"`
}

// Label returns the display name of the inverter, preferring the free
// text when the escape value is selected.
func (i Inverter) Label() string {
	if i.Make == InverterOther && i.Other != "" {
		return i.Other
	}
	return string(i.Make)
}

// Customer identifies the visited customer.
type Customer struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Phone  string `json:"phone"`
}

// SolarFacts covers the thermal-solar installation.
type SolarFacts struct {
	Present   YesNo     `json:"present"`
	Interest  YesNo     `json:"interest"` // interest if absent
	SizeKnown YesNo     `json:"size_known"`
	SizeM2    *float64  `json:"size_m2,omitempty"`
	SizeRange SizeRange `json:"size_range,omitempty"`
}

// BoilerFacts covers the heating system.
type BoilerFacts struct {
	Type       BoilerType        `json:"type"`
	Zone       Zone              `json:"zone"`
	Contract   YesNo             `json:"contract"` // existing maintenance contract
	Controller ControllerVariant `json:"controller"`
}

// CombinedOffer covers the bundled solar + boiler maintenance offer.
// Exactly one of PriceEUR and PriceTier is populated, selected by PriceMode.
type CombinedOffer struct {
	Mentioned bool             `json:"mentioned"`
	Interest  YesNo            `json:"interest"`
	PriceMode PriceMode        `json:"price_mode,omitempty"`
	PriceEUR  *decimal.Decimal `json:"price_eur,omitempty"`
	PriceTier PriceTier        `json:"price_tier,omitempty"`
}

// UsageFlags describes what PV surplus power is (or should be) used for.
// Current usage and EMS wishes are independent instances of this shape.
type UsageFlags struct {
	Heizstab         bool   `json:"heizstab"`
	Batteriespeicher bool   `json:"batteriespeicher"`
	Waermepumpe      bool   `json:"waermepumpe"`
	Klimaanlage      bool   `json:"klimaanlage"`
	Sonstiges        string `json:"sonstiges,omitempty"`
}

// Labels returns the human labels of all set flags, free text last.
func (u UsageFlags) Labels() []string {
	var labels []string
	if u.Heizstab {
		labels = append(labels, "Heizstab")
	}
	if u.Batteriespeicher {
		labels = append(labels, "Batteriespeicher")
	}
	if u.Waermepumpe {
		labels = append(labels, "Wärmepumpe")
	}
	if u.Klimaanlage {
		labels = append(labels, "Klimaanlage")
	}
	if u.Sonstiges != "" {
		labels = append(labels, u.Sonstiges)
	}
	return labels
}

// PVFacts covers the photovoltaic installation.
type PVFacts struct {
	Present         YesNo         `json:"present"`
	Interest        YesNo         `json:"interest"`        // interest if absent
	FutureInterest  YesNo         `json:"future_interest"` // future optimal usage
	Inverter        Inverter      `json:"inverter"`
	CapacityKnown   YesNo         `json:"capacity_known"`
	CapacityRange   CapacityRange `json:"capacity_range,omitempty"`
	Battery         YesNo         `json:"battery"`
	HeizstabSurplus YesNo         `json:"heizstab_surplus"`
	UpgradeInterest YesNo         `json:"upgrade_interest"`
	CurrentUsage    UsageFlags    `json:"current_usage"`
	EMSInterest     YesNo         `json:"ems_interest"`
	EMSWishes       UsageFlags    `json:"ems_wishes"`
}

// FollowUp flags a needed callback with reason and free-text notes.
type FollowUp struct {
	Needed bool   `json:"needed"`
	Reason string `json:"reason,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// Answers is the full answer set of one technician/customer visit.
type Answers struct {
	SessionID        string        `json:"session_id"`
	CreatedAt        time.Time     `json:"created_at"`
	Employee         string        `json:"employee"`
	ServiceArticleID string        `json:"service_article_id,omitempty"`
	Customer         Customer      `json:"customer"`
	Solar            SolarFacts    `json:"solar"`
	Boiler           BoilerFacts   `json:"boiler"`
	Offer            CombinedOffer `json:"offer"`
	PV               PVFacts       `json:"pv"`
	FollowUp         FollowUp      `json:"follow_up"`
}

// Patch is a partial update applied to a working copy of the answers.
type Patch func(*Answers)

// NewAnswers creates the all-unknown default answer set with a fresh
// session identity and creation timestamp.
func NewAnswers() *Answers {
	return &Answers{
		SessionID: newSessionID(),
		CreatedAt: time.Now().UTC(),
	}
}

// newSessionID returns a UUID, falling back to a pseudo-random token if
// the secure generator is unavailable.
func newSessionID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	return fmt.Sprintf("s-%d-%04x", time.Now().UnixNano(), rand.Intn(1<<16))
}

// Clone returns a deep copy so step renderers see immutable snapshots.
func (a *Answers) Clone() *Answers {
	c := *a
	if a.Solar.SizeM2 != nil {
		v := *a.Solar.SizeM2
		c.Solar.SizeM2 = &v
	}
	if a.Offer.PriceEUR != nil {
		v := *a.Offer.PriceEUR
		c.Offer.PriceEUR = &v
	}
	return &c
}
