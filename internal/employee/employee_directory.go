package employee

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	rosterKeyPrefix = "employees:roster:"
	rosterCacheTTL  = 5 * time.Minute
)

func RosterCacheKey(companyID string) string {
	return rosterKeyPrefix + companyID
}

// Directory is the read-side view of the employee service that payroll
// consumes: one employee by id, or the whole roster of a company.
//
//go:generate mockgen -source=employee_directory.go -destination=mock/employee_directory_mock.go -package=mock
type Directory interface {
	GetEmployee(ctx context.Context, companyID, employeeID string) (*Employee, error)
	ListEmployees(ctx context.Context, companyID string) ([]Employee, error)
}

type directory struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

// NewDirectory returns a Directory backed by the employees table. When rdb
// is non-nil the company roster is cached with a short TTL; singleflight
// collapses concurrent cache misses into a single query.
func NewDirectory(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Directory {
	l := zap.L().Named("employee.directory")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.directory")
	}
	return &directory{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (d *directory) GetEmployee(ctx context.Context, companyID, employeeID string) (*Employee, error) {
	return d.repo.FindByIDAndCompany(ctx, companyID, employeeID)
}

func (d *directory) ListEmployees(ctx context.Context, companyID string) ([]Employee, error) {
	if d.rdb == nil {
		return d.repo.FindAllByCompany(ctx, companyID)
	}

	cacheKey := RosterCacheKey(companyID)
	if cached, err := d.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var emps []Employee
		if err := json.Unmarshal(cached, &emps); err == nil {
			return emps, nil
		}
		d.logger.Warn("roster cache decode failed, falling through", zap.String("company_id", companyID))
	}

	v, err, _ := d.sf.Do(cacheKey, func() (any, error) {
		emps, err := d.repo.FindAllByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}

		if payload, err := json.Marshal(emps); err == nil {
			if err := d.rdb.Set(ctx, cacheKey, payload, rosterCacheTTL).Err(); err != nil {
				d.logger.Warn("roster cache set failed", zap.String("company_id", companyID), zap.Error(err))
			}
		}

		return emps, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]Employee), nil
}
