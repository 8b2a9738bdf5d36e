package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProcessPayrollRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Period     string `json:"period" binding:"required"`
}

type BulkPayrollRequest struct {
	Period string `json:"period" binding:"required"`
}

type NSSFResponse struct {
	Tier1        decimal.Decimal `json:"tier_1"`
	Tier2        decimal.Decimal `json:"tier_2"`
	Amount       decimal.Decimal `json:"amount"`
	TiersApplied []string        `json:"tiers_applied"`
}

type BreakdownResponse struct {
	NSSF            NSSFResponse    `json:"nssf"`
	SHIF            decimal.Decimal `json:"shif"`
	HousingLevy     decimal.Decimal `json:"housing_levy"`
	TaxableIncome   decimal.Decimal `json:"taxable_income"`
	PAYE            decimal.Decimal `json:"paye"`
	PersonalRelief  decimal.Decimal `json:"personal_relief"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
}

type PayrollRecordResponse struct {
	ID              string            `json:"id"`
	CompanyID       string            `json:"company_id"`
	EmployeeID      string            `json:"employee_id"`
	Period          string            `json:"period"`
	GrossSalary     decimal.Decimal   `json:"gross_salary"`
	Breakdown       BreakdownResponse `json:"breakdown"`
	NetSalary       decimal.Decimal   `json:"net_salary"`
	PayslipNumber   string            `json:"payslip_number"`
	CreatedAt       string            `json:"created_at"`
}

type BulkRunErrorEntry struct {
	EmployeeID string `json:"employee_id"`
	Message    string `json:"message"`
}

type BulkRunResponse struct {
	Period         string                  `json:"period"`
	ProcessedCount int                     `json:"processed_count"`
	FailedCount    int                     `json:"failed_count"`
	Records        []PayrollRecordResponse `json:"records"`
	Errors         []BulkRunErrorEntry     `json:"errors"`
}

func mapToResponse(rec PayrollRecord) PayrollRecordResponse {
	return PayrollRecordResponse{
		ID:          rec.ID.String(),
		CompanyID:   rec.CompanyID.String(),
		EmployeeID:  rec.EmployeeID.String(),
		Period:      FormatPeriod(rec.PeriodKey),
		GrossSalary: rec.GrossSalary,
		Breakdown: BreakdownResponse{
			NSSF: NSSFResponse{
				Tier1:        rec.NSSFTier1,
				Tier2:        rec.NSSFTier2,
				Amount:       rec.NSSFAmount,
				TiersApplied: splitTiers(rec.NSSFTiersApplied),
			},
			SHIF:            rec.SHIFAmount,
			HousingLevy:     rec.HousingLevy,
			TaxableIncome:   rec.TaxableIncome,
			PAYE:            rec.PAYEAmount,
			PersonalRelief:  rec.PersonalRelief,
			TotalDeductions: rec.TotalDeductions,
		},
		NetSalary:     rec.NetSalary,
		PayslipNumber: rec.PayslipNumber,
		CreatedAt:     rec.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(recs []PayrollRecord) []PayrollRecordResponse {
	resp := make([]PayrollRecordResponse, len(recs))
	for i, rec := range recs {
		resp[i] = mapToResponse(rec)
	}
	return resp
}
