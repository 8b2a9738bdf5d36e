package payroll

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayrollRecord is the immutable result of one successful payroll run.
// The unique index on (employee_id, period_key) is the authoritative
// exactly-once guard; a concurrent duplicate surfaces as a 23505 at
// insert time no matter what the prior existence check saw.
type PayrollRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_employee_period"`
	PeriodKey  time.Time `gorm:"type:date;not null;uniqueIndex:uq_payroll_employee_period"`

	// Amounts are stored as numeric(14,2); together they reproduce the
	// computed breakdown exactly.
	GrossSalary      decimal.Decimal `gorm:"column:gross_salary;type:numeric(14,2);not null"`
	NSSFTier1        decimal.Decimal `gorm:"column:nssf_tier1;type:numeric(14,2);not null"`
	NSSFTier2        decimal.Decimal `gorm:"column:nssf_tier2;type:numeric(14,2);not null"`
	NSSFAmount       decimal.Decimal `gorm:"column:nssf_amount;type:numeric(14,2);not null"`
	NSSFTiersApplied string          `gorm:"column:nssf_tiers_applied;type:varchar(40);not null"`
	SHIFAmount       decimal.Decimal `gorm:"column:shif_amount;type:numeric(14,2);not null"`
	HousingLevy      decimal.Decimal `gorm:"column:housing_levy;type:numeric(14,2);not null"`
	TaxableIncome    decimal.Decimal `gorm:"column:taxable_income;type:numeric(14,2);not null"`
	PAYEAmount       decimal.Decimal `gorm:"column:paye_amount;type:numeric(14,2);not null"`
	PersonalRelief   decimal.Decimal `gorm:"column:personal_relief;type:numeric(14,2);not null"`
	TotalDeductions  decimal.Decimal `gorm:"column:total_deductions;type:numeric(14,2);not null"`
	NetSalary        decimal.Decimal `gorm:"column:net_salary;type:numeric(14,2);not null"`

	PayslipNumber string `gorm:"column:payslip_number;type:varchar(40);not null"`
	PayslipRef    string `gorm:"column:payslip_ref;not null"`

	CreatedAt time.Time
}

func (PayrollRecord) TableName() string {
	return "payroll_records"
}

// Tier names are persisted as a comma-joined varchar rather than an array
// column so the record stays portable across SQL dialects.

func joinTiers(tiers []string) string {
	return strings.Join(tiers, ",")
}

func splitTiers(v string) []string {
	if v == "" {
		return []string{}
	}
	return strings.Split(v, ",")
}
