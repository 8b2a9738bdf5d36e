package payslip

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"
	"go-payroll/internal/shared/counter"

	"go.uber.org/zap"
)

const counterType = "payslip_number"

// Artifact identifies one generated payslip: Ref is the store key the
// payroll record carries, Number the human-facing sequential reference.
type Artifact struct {
	Ref    string
	Number string
}

//go:generate mockgen -source=generator.go -destination=mock/generator_mock.go -package=mock
type Generator interface {
	Generate(ctx context.Context, emp employee.Employee, breakdown deduction.Breakdown, periodKey time.Time) (Artifact, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}

type generator struct {
	store   Store
	counter counter.Repository
	logger  *zap.Logger
}

func NewGenerator(store Store, counterRepo counter.Repository, logger ...*zap.Logger) Generator {
	l := zap.L().Named("payslip.generator")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payslip.generator")
	}
	return &generator{store: store, counter: counterRepo, logger: l}
}

// Generate renders the payslip PDF and writes it to the store. The payslip
// number comes from the persisted company counter, so numbers stay unique
// and monotonic across restarts and concurrent runs.
func (g *generator) Generate(
	ctx context.Context,
	emp employee.Employee,
	breakdown deduction.Breakdown,
	periodKey time.Time,
) (Artifact, error) {
	seq, err := g.counter.GetNextValue(ctx, emp.CompanyID.String(), counterType)
	if err != nil {
		return Artifact{}, fmt.Errorf("assign payslip number: %w", err)
	}

	number := fmt.Sprintf("PSL-%s-%06d", periodKey.Format("200601"), seq)
	ref := fmt.Sprintf("payslips/%s/%s/%s.pdf", emp.CompanyID, periodKey.Format("2006-01"), emp.ID)

	pdf, err := buildPDF(payslipLines(number, emp, breakdown, periodKey))
	if err != nil {
		return Artifact{}, fmt.Errorf("render payslip pdf: %w", err)
	}

	if err := g.store.Put(ctx, ref, pdf); err != nil {
		return Artifact{}, fmt.Errorf("store payslip artifact: %w", err)
	}

	g.logger.Debug("payslip generated",
		zap.String("employee_id", emp.ID.String()),
		zap.String("payslip_number", number),
		zap.String("ref", ref),
	)

	return Artifact{Ref: ref, Number: number}, nil
}

func (g *generator) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	return g.store.Open(ctx, ref)
}

func (g *generator) Delete(ctx context.Context, ref string) error {
	return g.store.Delete(ctx, ref)
}

func payslipLines(number string, emp employee.Employee, b deduction.Breakdown, periodKey time.Time) []string {
	return []string{
		"PAYSLIP " + number,
		"Employee: " + emp.FullName,
		"Period: " + periodKey.Format("January 2006"),
		"",
		"Gross Salary:      KES " + b.GrossSalary.StringFixed(2),
		fmt.Sprintf("NSSF (%s):  KES %s", strings.Join(b.NSSF.TiersApplied, "+"), b.NSSF.Amount.StringFixed(2)),
		"SHIF:              KES " + b.SHIF.StringFixed(2),
		"Housing Levy:      KES " + b.HousingLevy.StringFixed(2),
		"PAYE:              KES " + b.PAYE.StringFixed(2),
		"Total Deductions:  KES " + b.TotalDeductions.StringFixed(2),
		"",
		"Net Salary:        KES " + b.NetSalary.StringFixed(2),
	}
}
