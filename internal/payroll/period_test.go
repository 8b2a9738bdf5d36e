package payroll_test

import (
	"testing"
	"time"

	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/stretchr/testify/assert"
)

func TestParsePeriod(t *testing.T) {
	want := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("year-month form", func(t *testing.T) {
		got, err := payroll.ParsePeriod("2026-03")
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("full date collapses to first of month", func(t *testing.T) {
		got, err := payroll.ParsePeriod("2026-03-15")
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("both forms address the same run", func(t *testing.T) {
		a, err := payroll.ParsePeriod("2026-03")
		assert.NoError(t, err)
		b, err := payroll.ParsePeriod("2026-03-31")
		assert.NoError(t, err)
		assert.True(t, a.Equal(b))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, v := range []string{"", "march", "2026/03", "2026-13", "03-2026"} {
			_, err := payroll.ParsePeriod(v)
			assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod, "input %q", v)
		}
	})
}

func TestFormatPeriod(t *testing.T) {
	key := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03", payroll.FormatPeriod(key))
}
