package taxrule

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Table holds the statutory deduction rules for one jurisdiction. It is
// immutable after load; the calculator only ever reads it.
type Table struct {
	NSSF           NSSFRule
	SHIF           SHIFRule
	HousingLevy    HousingLevyRule
	PAYEBrackets   []PAYEBracket
	PersonalRelief decimal.Decimal
}

// NSSFRule describes the two-tier pension contribution: Rate applies to
// pensionable pay up to Tier1Limit (tier I) and to the slice between
// Tier1Limit and Tier2Limit (tier II). Pay above Tier2Limit contributes
// nothing.
type NSSFRule struct {
	Tier1Limit decimal.Decimal
	Tier2Limit decimal.Decimal
	Rate       decimal.Decimal
}

// SHIFRule is a flat percentage of gross clamped to [Floor, Cap].
type SHIFRule struct {
	Rate  decimal.Decimal
	Floor decimal.Decimal
	Cap   decimal.Decimal
}

// HousingLevyRule is a flat uncapped percentage of gross.
type HousingLevyRule struct {
	Rate decimal.Decimal
}

// PAYEBracket is one rung of the marginal tax ladder. Upper is nil on the
// final, open-ended bracket.
type PAYEBracket struct {
	Lower decimal.Decimal
	Upper *decimal.Decimal
	Rate  decimal.Decimal
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func dp(v string) *decimal.Decimal {
	dec := decimal.RequireFromString(v)
	return &dec
}

// Default returns the Kenyan statutory table: NSSF Act tier limits, SHIF
// at 2.75% with floor and cap, the 1.5% Affordable Housing Levy, and the
// monthly PAYE ladder with personal relief.
func Default() Table {
	return Table{
		NSSF: NSSFRule{
			Tier1Limit: d("6000"),
			Tier2Limit: d("18000"),
			Rate:       d("0.06"),
		},
		SHIF: SHIFRule{
			Rate:  d("0.0275"),
			Floor: d("300"),
			Cap:   d("5000"),
		},
		HousingLevy: HousingLevyRule{
			Rate: d("0.015"),
		},
		PAYEBrackets: []PAYEBracket{
			{Lower: d("0"), Upper: dp("24000"), Rate: d("0.10")},
			{Lower: d("24000"), Upper: dp("32333"), Rate: d("0.25")},
			{Lower: d("32333"), Upper: dp("500000"), Rate: d("0.30")},
			{Lower: d("500000"), Upper: dp("800000"), Rate: d("0.325")},
			{Lower: d("800000"), Upper: nil, Rate: d("0.35")},
		},
		PersonalRelief: d("2400"),
	}
}

// Validate rejects malformed tables before they reach the calculator: the
// PAYE ladder must start at zero, be contiguous and ascending, and end
// open; tier limits and clamps must be ordered; no rate may be negative.
func (t Table) Validate() error {
	if t.NSSF.Tier1Limit.IsNegative() || t.NSSF.Tier2Limit.LessThanOrEqual(t.NSSF.Tier1Limit) {
		return errors.New("taxrule: nssf tier limits must satisfy 0 <= tier1 < tier2")
	}
	if t.NSSF.Rate.IsNegative() || t.SHIF.Rate.IsNegative() || t.HousingLevy.Rate.IsNegative() {
		return errors.New("taxrule: rates cannot be negative")
	}
	if t.SHIF.Floor.IsNegative() || t.SHIF.Cap.LessThan(t.SHIF.Floor) {
		return errors.New("taxrule: shif clamp must satisfy 0 <= floor <= cap")
	}
	if t.PersonalRelief.IsNegative() {
		return errors.New("taxrule: personal relief cannot be negative")
	}

	if len(t.PAYEBrackets) == 0 {
		return errors.New("taxrule: paye ladder is empty")
	}
	if !t.PAYEBrackets[0].Lower.IsZero() {
		return errors.New("taxrule: paye ladder must start at zero")
	}
	for i, b := range t.PAYEBrackets {
		if b.Rate.IsNegative() {
			return fmt.Errorf("taxrule: paye bracket %d has a negative rate", i)
		}
		last := i == len(t.PAYEBrackets)-1
		if last {
			if b.Upper != nil {
				return errors.New("taxrule: final paye bracket must be open-ended")
			}
			continue
		}
		if b.Upper == nil {
			return fmt.Errorf("taxrule: paye bracket %d is open but not final", i)
		}
		if b.Upper.LessThanOrEqual(b.Lower) {
			return fmt.Errorf("taxrule: paye bracket %d has upper <= lower", i)
		}
		if !t.PAYEBrackets[i+1].Lower.Equal(*b.Upper) {
			return fmt.Errorf("taxrule: paye ladder has a gap after bracket %d", i)
		}
	}

	return nil
}
