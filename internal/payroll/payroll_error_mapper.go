package payroll

import (
	"errors"
	"strings"

	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniquePeriodConstraint = "uq_payroll_employee_period"

// mapRepositoryError translates persistence failures into the payroll
// taxonomy. A unique violation on (employee_id, period_key) is the
// authoritative duplicate signal, so it maps to AlreadyProcessed rather
// than surfacing as a database error.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == uniquePeriodConstraint {
			return payrollerrors.ErrAlreadyProcessed
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uniquePeriodConstraint) {
		return payrollerrors.ErrAlreadyProcessed
	}

	return err
}
