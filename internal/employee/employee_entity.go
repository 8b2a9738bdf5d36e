package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Employee mirrors the directory-owned employees table. This service only
// reads it; create/update flows live in the HR directory service.
type Employee struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID   uuid.UUID       `gorm:"type:uuid;index"`
	FullName    string          `gorm:"column:full_name"`
	Email       string          `gorm:"uniqueIndex"`
	GrossSalary decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
