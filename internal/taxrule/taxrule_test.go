package taxrule_test

import (
	"testing"

	"go-payroll/internal/taxrule"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func dp(v string) *decimal.Decimal {
	dv := decimal.RequireFromString(v)
	return &dv
}

func TestDefaultTableValidates(t *testing.T) {
	assert.NoError(t, taxrule.Default().Validate())
}

func TestValidate_NSSFTierOrder(t *testing.T) {
	rules := taxrule.Default()
	rules.NSSF.Tier2Limit = d("3000") // below tier1

	err := rules.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "tier")
}

func TestValidate_SHIFCapBelowFloor(t *testing.T) {
	rules := taxrule.Default()
	rules.SHIF.Cap = d("100")

	assert.Error(t, rules.Validate())
}

func TestValidate_NegativeRate(t *testing.T) {
	rules := taxrule.Default()
	rules.HousingLevy.Rate = d("-0.015")

	assert.Error(t, rules.Validate())
}

func TestValidate_PAYELadder(t *testing.T) {
	t.Run("must start at zero", func(t *testing.T) {
		rules := taxrule.Default()
		rules.PAYEBrackets[0].Lower = d("100")
		assert.Error(t, rules.Validate())
	})

	t.Run("rejects gap between brackets", func(t *testing.T) {
		rules := taxrule.Default()
		rules.PAYEBrackets[1].Lower = d("25000") // previous upper is 24000
		assert.Error(t, rules.Validate())
	})

	t.Run("final bracket must be open ended", func(t *testing.T) {
		rules := taxrule.Default()
		last := len(rules.PAYEBrackets) - 1
		rules.PAYEBrackets[last].Upper = dp("900000")
		assert.Error(t, rules.Validate())
	})

	t.Run("only final bracket may be open ended", func(t *testing.T) {
		rules := taxrule.Default()
		rules.PAYEBrackets[1].Upper = nil
		assert.Error(t, rules.Validate())
	})

	t.Run("needs at least one bracket", func(t *testing.T) {
		rules := taxrule.Default()
		rules.PAYEBrackets = nil
		assert.Error(t, rules.Validate())
	})
}
