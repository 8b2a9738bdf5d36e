package payroll

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rec *PayrollRecord) error
	FindByEmployeeAndPeriod(ctx context.Context, companyID, employeeID string, periodKey time.Time) (*PayrollRecord, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollRecord, error)
	FindManyByCompanyAndPeriod(ctx context.Context, companyID string, periodKey time.Time) ([]PayrollRecord, error)
	FindPageByEmployee(ctx context.Context, companyID, employeeID string, offset, limit int) ([]PayrollRecord, error)
	CountByEmployee(ctx context.Context, companyID, employeeID string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

const insertRecordQuery = `
INSERT INTO payroll_records (
	id, company_id, employee_id, period_key,
	gross_salary, nssf_tier1, nssf_tier2, nssf_amount, nssf_tiers_applied,
	shif_amount, housing_levy, taxable_income, paye_amount, personal_relief,
	total_deductions, net_salary, payslip_number, payslip_ref, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
`

// Create inserts through the transaction when one is bound so the record
// and its outbox event commit atomically.
func (r *repository) Create(ctx context.Context, rec *PayrollRecord) error {
	if r.tx == nil {
		return r.db.WithContext(ctx).Create(rec).Error
	}

	_, err := r.tx.ExecContext(
		ctx, insertRecordQuery,
		rec.ID, rec.CompanyID, rec.EmployeeID, rec.PeriodKey,
		rec.GrossSalary, rec.NSSFTier1, rec.NSSFTier2, rec.NSSFAmount, rec.NSSFTiersApplied,
		rec.SHIFAmount, rec.HousingLevy, rec.TaxableIncome, rec.PAYEAmount, rec.PersonalRelief,
		rec.TotalDeductions, rec.NetSalary, rec.PayslipNumber, rec.PayslipRef, rec.CreatedAt,
	)
	return err
}

// FindByEmployeeAndPeriod returns (nil, nil) when no record exists; absence
// is the normal pre-processing state, not an error.
func (r *repository) FindByEmployeeAndPeriod(ctx context.Context, companyID, employeeID string, periodKey time.Time) (*PayrollRecord, error) {
	var rec PayrollRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("period_key = ?", periodKey).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollRecord, error) {
	var rec PayrollRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&rec, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) FindManyByCompanyAndPeriod(ctx context.Context, companyID string, periodKey time.Time) ([]PayrollRecord, error) {
	var recs []PayrollRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("period_key = ?", periodKey).
		Order("created_at ASC").
		Find(&recs).Error
	return recs, err
}

func (r *repository) FindPageByEmployee(ctx context.Context, companyID, employeeID string, offset, limit int) ([]PayrollRecord, error) {
	var recs []PayrollRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("period_key DESC").
		Offset(offset).
		Limit(limit).
		Find(&recs).Error
	return recs, err
}

func (r *repository) CountByEmployee(ctx context.Context, companyID, employeeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PayrollRecord{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Count(&count).Error
	return count, err
}
