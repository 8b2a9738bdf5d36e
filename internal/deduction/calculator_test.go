package deduction_test

import (
	"testing"

	"go-payroll/internal/deduction"
	"go-payroll/internal/taxrule"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newCalculator(t *testing.T) deduction.Calculator {
	t.Helper()
	rules := taxrule.Default()
	assert.NoError(t, rules.Validate())
	return deduction.NewCalculator(rules)
}

func TestCalculator_NegativeGross(t *testing.T) {
	calc := newCalculator(t)

	_, err := calc.Compute(d("-1"))
	assert.ErrorIs(t, err, deduction.ErrNegativeGross)
}

func TestCalculator_NSSFTierSplit(t *testing.T) {
	calc := newCalculator(t)

	// 10000 reaches into tier II: 6% x 6000 + 6% x (10000 - 6000)
	b, err := calc.Compute(d("10000"))
	assert.NoError(t, err)
	assert.True(t, b.NSSF.Tier1.Equal(d("360")), "tier1 = %s", b.NSSF.Tier1)
	assert.True(t, b.NSSF.Tier2.Equal(d("240")), "tier2 = %s", b.NSSF.Tier2)
	assert.True(t, b.NSSF.Amount.Equal(d("600")))
	assert.Equal(t, []string{deduction.TierOne, deduction.TierTwo}, b.NSSF.TiersApplied)

	// 5000 stays inside tier I
	b, err = calc.Compute(d("5000"))
	assert.NoError(t, err)
	assert.True(t, b.NSSF.Amount.Equal(d("300")))
	assert.Equal(t, []string{deduction.TierOne}, b.NSSF.TiersApplied)

	// zero gross touches no tier
	b, err = calc.Compute(d("0"))
	assert.NoError(t, err)
	assert.True(t, b.NSSF.Amount.IsZero())
	assert.Empty(t, b.NSSF.TiersApplied)
}

func TestCalculator_NSSFMonotonicAndBounded(t *testing.T) {
	calc := newCalculator(t)

	// upper bound is rate x tier2 limit = 6% x 18000
	bound := d("1080")

	prev := decimal.Zero
	for _, gross := range []string{"0", "3000", "6000", "9000", "18000", "25000", "100000", "1000000"} {
		b, err := calc.Compute(d(gross))
		assert.NoError(t, err)
		assert.True(t, b.NSSF.Amount.GreaterThanOrEqual(prev),
			"NSSF not monotonic at gross %s", gross)
		assert.True(t, b.NSSF.Amount.LessThanOrEqual(bound),
			"NSSF above bound at gross %s", gross)
		prev = b.NSSF.Amount
	}
}

func TestCalculator_SHIFClamp(t *testing.T) {
	calc := newCalculator(t)

	// raw 2.75% x 5000 = 137.50, below the 300 floor
	b, err := calc.Compute(d("5000"))
	assert.NoError(t, err)
	assert.True(t, b.SHIF.Equal(d("300")), "shif = %s", b.SHIF)

	// inside the clamp: 2.75% x 40000 = 1100
	b, err = calc.Compute(d("40000"))
	assert.NoError(t, err)
	assert.True(t, b.SHIF.Equal(d("1100")))

	// raw 2.75% x 200000 = 5500, above the 5000 cap
	b, err = calc.Compute(d("200000"))
	assert.NoError(t, err)
	assert.True(t, b.SHIF.Equal(d("5000")))
}

func TestCalculator_HousingLevyUncapped(t *testing.T) {
	calc := newCalculator(t)

	b, err := calc.Compute(d("1000000"))
	assert.NoError(t, err)
	assert.True(t, b.HousingLevy.Equal(d("15000")))
}

func TestCalculator_PAYEFloorsAtZero(t *testing.T) {
	calc := newCalculator(t)

	// taxable 9400, tax 940, relief 2400 -> floored
	b, err := calc.Compute(d("10000"))
	assert.NoError(t, err)
	assert.True(t, b.PAYE.IsZero(), "paye = %s", b.PAYE)
}

func TestCalculator_PAYEBracketWalk(t *testing.T) {
	calc := newCalculator(t)

	// gross 50000: NSSF 1080, taxable 48920
	// 24000 x 10% + 8333 x 25% + 16587 x 30% = 9459.35, minus 2400 relief
	b, err := calc.Compute(d("50000"))
	assert.NoError(t, err)
	assert.True(t, b.TaxableIncome.Equal(d("48920")))
	assert.True(t, b.PAYE.Equal(d("7059.35")), "paye = %s", b.PAYE)
}

func TestCalculator_PAYEMonotonic(t *testing.T) {
	calc := newCalculator(t)

	prev := decimal.Zero
	for _, gross := range []string{"10000", "24000", "32333", "40000", "100000", "500000", "800000", "1500000"} {
		b, err := calc.Compute(d(gross))
		assert.NoError(t, err)
		assert.False(t, b.PAYE.IsNegative(), "paye negative at gross %s", gross)
		assert.True(t, b.PAYE.GreaterThanOrEqual(prev), "paye not monotonic at gross %s", gross)
		prev = b.PAYE
	}
}

func TestCalculator_NetPlusDeductionsReproducesGross(t *testing.T) {
	calc := newCalculator(t)

	for _, gross := range []string{
		"0", "123.45", "5000", "6000", "10000", "18000", "24000.99",
		"32333", "50000", "99999.99", "500000", "800000.01", "2500000",
	} {
		g := d(gross)
		b, err := calc.Compute(g)
		assert.NoError(t, err)
		assert.True(t, b.NetSalary.Add(b.TotalDeductions).Equal(g),
			"net %s + total %s != gross %s", b.NetSalary, b.TotalDeductions, g)
	}
}

func TestCalculator_FullBreakdown(t *testing.T) {
	calc := newCalculator(t)

	b, err := calc.Compute(d("50000"))
	assert.NoError(t, err)

	assert.True(t, b.NSSF.Amount.Equal(d("1080")))
	assert.True(t, b.SHIF.Equal(d("1375")))
	assert.True(t, b.HousingLevy.Equal(d("750")))
	assert.True(t, b.PAYE.Equal(d("7059.35")))
	assert.True(t, b.TotalDeductions.Equal(d("10264.35")))
	assert.True(t, b.NetSalary.Equal(d("39735.65")))
}
