package payslip_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"
	"go-payroll/internal/payslip"
	"go-payroll/internal/taxrule"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeCounter struct {
	next atomic.Int64
	err  error
}

func (f *fakeCounter) GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.next.Add(1), nil
}

func setupGeneratorTest(t *testing.T) (payslip.Generator, *fakeCounter) {
	t.Helper()
	store, err := payslip.NewFSStore(t.TempDir())
	assert.NoError(t, err)
	counter := &fakeCounter{}
	return payslip.NewGenerator(store, counter), counter
}

func generatorTestBreakdown(t *testing.T, gross string) deduction.Breakdown {
	t.Helper()
	b, err := deduction.NewCalculator(taxrule.Default()).Compute(decimal.RequireFromString(gross))
	assert.NoError(t, err)
	return b
}

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	gen, _ := setupGeneratorTest(t)

	emp := employee.Employee{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		FullName:    "Wanjiku Kamau",
		GrossSalary: decimal.RequireFromString("50000"),
	}
	periodKey := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	artifact, err := gen.Generate(ctx, emp, generatorTestBreakdown(t, "50000"), periodKey)
	assert.NoError(t, err)

	assert.Equal(t, "PSL-202603-000001", artifact.Number)
	assert.Equal(t,
		fmt.Sprintf("payslips/%s/2026-03/%s.pdf", emp.CompanyID, emp.ID),
		artifact.Ref,
	)

	rc, err := gen.Open(ctx, artifact.Ref)
	assert.NoError(t, err)
	defer rc.Close()

	content, err := io.ReadAll(rc)
	assert.NoError(t, err)
	body := string(content)
	assert.True(t, strings.HasPrefix(body, "%PDF"))
	assert.Contains(t, body, "PAYSLIP PSL-202603-000001")
	assert.Contains(t, body, "Wanjiku Kamau")
	assert.Contains(t, body, "KES 39735.65")
}

func TestGenerator_NumbersAreSequential(t *testing.T) {
	ctx := context.Background()
	gen, _ := setupGeneratorTest(t)
	periodKey := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		emp := employee.Employee{ID: uuid.New(), CompanyID: uuid.New(), FullName: "E", GrossSalary: decimal.RequireFromString("30000")}
		artifact, err := gen.Generate(ctx, emp, generatorTestBreakdown(t, "30000"), periodKey)
		assert.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PSL-202603-%06d", i), artifact.Number)
	}
}

func TestGenerator_CounterFailureProducesNoArtifact(t *testing.T) {
	ctx := context.Background()
	gen, counter := setupGeneratorTest(t)
	counter.err = fmt.Errorf("counters table unavailable")

	emp := employee.Employee{ID: uuid.New(), CompanyID: uuid.New(), GrossSalary: decimal.RequireFromString("30000")}
	periodKey := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	_, err := gen.Generate(ctx, emp, generatorTestBreakdown(t, "30000"), periodKey)
	assert.ErrorContains(t, err, "assign payslip number")

	ref := fmt.Sprintf("payslips/%s/2026-03/%s.pdf", emp.CompanyID, emp.ID)
	_, err = gen.Open(ctx, ref)
	assert.ErrorIs(t, err, payslip.ErrArtifactNotFound)
}

func TestGenerator_Delete(t *testing.T) {
	ctx := context.Background()
	gen, _ := setupGeneratorTest(t)

	emp := employee.Employee{ID: uuid.New(), CompanyID: uuid.New(), GrossSalary: decimal.RequireFromString("30000")}
	periodKey := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	artifact, err := gen.Generate(ctx, emp, generatorTestBreakdown(t, "30000"), periodKey)
	assert.NoError(t, err)

	assert.NoError(t, gen.Delete(ctx, artifact.Ref))
	_, err = gen.Open(ctx, artifact.Ref)
	assert.ErrorIs(t, err, payslip.ErrArtifactNotFound)
}
