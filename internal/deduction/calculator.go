package deduction

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/taxrule"

	"github.com/shopspring/decimal"
)

var ErrNegativeGross = apperror.New(
	apperror.CodeInvalidInput,
	"gross salary cannot be negative",
	http.StatusBadRequest,
)

const (
	TierOne = "tier_1"
	TierTwo = "tier_2"
)

// NSSFContribution reports the pension deduction split by tier so payslips
// can show which tiers the salary reached.
type NSSFContribution struct {
	Tier1        decimal.Decimal
	Tier2        decimal.Decimal
	Amount       decimal.Decimal
	TiersApplied []string
}

// Breakdown is the full statutory deduction result for one gross salary.
// TotalDeductions is the sum of the four rounded components and NetSalary
// is gross minus that sum, so net + total always reproduces gross exactly.
type Breakdown struct {
	GrossSalary     decimal.Decimal
	NSSF            NSSFContribution
	SHIF            decimal.Decimal
	HousingLevy     decimal.Decimal
	TaxableIncome   decimal.Decimal
	PAYE            decimal.Decimal
	PersonalRelief  decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
}

// Calculator turns a gross salary into a Breakdown using an immutable rule
// table. It performs no I/O and is safe for concurrent use.
type Calculator struct {
	rules taxrule.Table
}

func NewCalculator(rules taxrule.Table) Calculator {
	return Calculator{rules: rules}
}

// Compute fails only on a negative gross; every other input yields a
// deterministic breakdown. All components are rounded to 2 dp individually
// before summing.
func (c Calculator) Compute(gross decimal.Decimal) (Breakdown, error) {
	if gross.IsNegative() {
		return Breakdown{}, ErrNegativeGross
	}

	nssf := c.computeNSSF(gross)
	shif := c.computeSHIF(gross)
	levy := gross.Mul(c.rules.HousingLevy.Rate).Round(2)

	taxable := gross.Sub(nssf.Amount)
	paye := c.computePAYE(taxable)

	total := nssf.Amount.Add(shif).Add(levy).Add(paye)

	return Breakdown{
		GrossSalary:     gross,
		NSSF:            nssf,
		SHIF:            shif,
		HousingLevy:     levy,
		TaxableIncome:   taxable,
		PAYE:            paye,
		PersonalRelief:  c.rules.PersonalRelief,
		TotalDeductions: total,
		NetSalary:       gross.Sub(total),
	}, nil
}

func (c Calculator) computeNSSF(gross decimal.Decimal) NSSFContribution {
	rule := c.rules.NSSF

	tier1Base := decimal.Min(gross, rule.Tier1Limit)
	tier1 := tier1Base.Mul(rule.Rate).Round(2)

	tier2Base := decimal.Min(gross, rule.Tier2Limit).Sub(rule.Tier1Limit)
	if tier2Base.IsNegative() {
		tier2Base = decimal.Zero
	}
	tier2 := tier2Base.Mul(rule.Rate).Round(2)

	tiers := []string{}
	if tier1Base.IsPositive() {
		tiers = append(tiers, TierOne)
	}
	if tier2Base.IsPositive() {
		tiers = append(tiers, TierTwo)
	}

	return NSSFContribution{
		Tier1:        tier1,
		Tier2:        tier2,
		Amount:       tier1.Add(tier2),
		TiersApplied: tiers,
	}
}

func (c Calculator) computeSHIF(gross decimal.Decimal) decimal.Decimal {
	rule := c.rules.SHIF

	raw := gross.Mul(rule.Rate).Round(2)
	if raw.LessThan(rule.Floor) {
		return rule.Floor
	}
	if raw.GreaterThan(rule.Cap) {
		return rule.Cap
	}
	return raw
}

// computePAYE walks the marginal ladder over taxable income, summing
// rate x (min(taxable, upper) - lower) for every bracket the income
// reaches, then subtracts personal relief and floors at zero. Rounding
// happens once, on the summed tax, to avoid per-bracket drift.
func (c Calculator) computePAYE(taxable decimal.Decimal) decimal.Decimal {
	if taxable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	tax := decimal.Zero
	for _, bracket := range c.rules.PAYEBrackets {
		if taxable.LessThanOrEqual(bracket.Lower) {
			break
		}

		upper := taxable
		if bracket.Upper != nil {
			upper = decimal.Min(taxable, *bracket.Upper)
		}

		tax = tax.Add(upper.Sub(bracket.Lower).Mul(bracket.Rate))
	}

	tax = tax.Sub(c.rules.PersonalRelief)
	if tax.IsNegative() {
		return decimal.Zero
	}
	return tax.Round(2)
}
