package payrollerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidRecordID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll record id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid period format, expected YYYY-MM or YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeConflict,
		"payroll already processed for this employee and period",
		http.StatusConflict,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll record not found",
		http.StatusNotFound,
	)
	ErrPayslipArtifactMissing = apperror.New(
		apperror.CodeNotFound,
		"payslip artifact is missing from storage",
		http.StatusNotFound,
	)
)

// WrapPayslipGeneration tags an artifact-generation failure so handlers and
// the bulk runner can report it without exposing the underlying cause.
func WrapPayslipGeneration(err error) *apperror.AppError {
	return apperror.Wrap(
		err,
		apperror.CodeServiceUnavailable,
		"payslip generation failed",
		http.StatusBadGateway,
	)
}
