// Package pricing computes the bundled maintenance prices from the static
// rate table. All amounts are net (tax-exclusive) and never rounded here;
// formatting to two decimals happens at display and export time.
package pricing

import (
	"fmt"

	"leitfaden/domain"

	"github.com/shopspring/decimal"
)

// Fixed solar maintenance rates, independent of any answer.
var (
	// SoloSolarPrice is the stand-alone solar maintenance price.
	SoloSolarPrice = decimal.NewFromInt(330)
	// BundledSolarPrice is the solar maintenance price inside the bundle.
	BundledSolarPrice = decimal.NewFromInt(169)
)

type rateKey struct {
	Type domain.BoilerType
	Zone domain.Zone
}

type rate struct {
	withContract    decimal.Decimal
	withoutContract decimal.Decimal
}

// boilerRates is keyed by (boiler type, zone). The multifire/zone2 row has
// the no-contract rate below the with-contract rate; the table is carried
// over literally, see the product clarification note in DESIGN.md.
var boilerRates = map[rateKey]rate{
	{domain.BoilerEasyfire, domain.Zone1}:  {dec("316.8"), dec("352.0")},
	{domain.BoilerEasyfire, domain.Zone2}:  {dec("338.4"), dec("374.4")},
	{domain.BoilerMultifire, domain.Zone1}: {dec("387.2"), dec("422.4")},
	{domain.BoilerMultifire, domain.Zone2}: {dec("409.6"), dec("398.4")},
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Result holds the computed prices. Pointer fields are nil while the
// required boiler inputs are incomplete; partial information must not
// produce a misleading price.
type Result struct {
	BoilerPrice       *decimal.Decimal
	SoloSolarPrice    decimal.Decimal
	BundledSolarPrice decimal.Decimal
	BundleTotal       *decimal.Decimal
	BundleSavings     *decimal.Decimal
}

// Compute derives the price figures from the boiler facts. The boiler
// price resolves only when type, zone, and contract flag are all set.
// An unrecognized (type, zone) pair with complete inputs is a contract
// violation: the enumerated inputs are closed sets.
func Compute(b domain.BoilerFacts) Result {
	res := Result{
		SoloSolarPrice:    SoloSolarPrice,
		BundledSolarPrice: BundledSolarPrice,
	}

	if b.Type == domain.BoilerUnset || b.Zone == domain.ZoneUnset || !b.Contract.Known() {
		return res
	}

	r, ok := boilerRates[rateKey{b.Type, b.Zone}]
	if !ok {
		panic(fmt.Sprintf("pricing: no rate for boiler %q in %q", b.Type, b.Zone))
	}

	price := r.withoutContract
	if b.Contract == domain.Yes {
		price = r.withContract
	}
	res.BoilerPrice = &price

	total := price.Add(BundledSolarPrice)
	res.BundleTotal = &total

	// Savings concern the solar line item only, not the boiler line item.
	savings := SoloSolarPrice.Sub(BundledSolarPrice)
	res.BundleSavings = &savings

	return res
}
