package employee_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/employee"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeEmployeeRepository struct {
	findByIDAndCompanyFn func(ctx context.Context, companyID string, id string) (*employee.Employee, error)
	findAllByCompanyFn   func(ctx context.Context, companyID string) ([]employee.Employee, error)
	listCalls            int
}

func (f *fakeEmployeeRepository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*employee.Employee, error) {
	return f.findByIDAndCompanyFn(ctx, companyID, id)
}

func (f *fakeEmployeeRepository) FindAllByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	f.listCalls++
	return f.findAllByCompanyFn(ctx, companyID)
}

func testRoster(companyID uuid.UUID) []employee.Employee {
	return []employee.Employee{
		{ID: uuid.New(), CompanyID: companyID, FullName: "Achieng Otieno", GrossSalary: decimal.RequireFromString("35000")},
		{ID: uuid.New(), CompanyID: companyID, FullName: "Njeri Mwangi", GrossSalary: decimal.RequireFromString("50000")},
	}
}

func TestDirectory_GetEmployeeDelegatesToRepo(t *testing.T) {
	companyID := uuid.New()
	want := employee.Employee{ID: uuid.New(), CompanyID: companyID, FullName: "Wanjiku Kamau"}

	repo := &fakeEmployeeRepository{
		findByIDAndCompanyFn: func(ctx context.Context, gotCompanyID string, id string) (*employee.Employee, error) {
			assert.Equal(t, companyID.String(), gotCompanyID)
			assert.Equal(t, want.ID.String(), id)
			return &want, nil
		},
	}

	dir := employee.NewDirectory(repo, nil)
	got, err := dir.GetEmployee(context.Background(), companyID.String(), want.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, &want, got)
}

func TestDirectory_ListWithoutRedisGoesStraightToRepo(t *testing.T) {
	companyID := uuid.New()
	roster := testRoster(companyID)

	repo := &fakeEmployeeRepository{
		findAllByCompanyFn: func(ctx context.Context, gotCompanyID string) ([]employee.Employee, error) {
			return roster, nil
		},
	}

	dir := employee.NewDirectory(repo, nil)
	got, err := dir.ListEmployees(context.Background(), companyID.String())
	assert.NoError(t, err)
	assert.Equal(t, roster, got)
}

func TestDirectory_ListCacheMissPopulatesRoster(t *testing.T) {
	companyID := uuid.New()
	roster := testRoster(companyID)
	payload, err := json.Marshal(roster)
	assert.NoError(t, err)

	rdb, mock := redismock.NewClientMock()
	cacheKey := employee.RosterCacheKey(companyID.String())
	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSet(cacheKey, payload, 5*time.Minute).SetVal("OK")

	repo := &fakeEmployeeRepository{
		findAllByCompanyFn: func(ctx context.Context, gotCompanyID string) ([]employee.Employee, error) {
			return roster, nil
		},
	}

	dir := employee.NewDirectory(repo, rdb)
	got, err := dir.ListEmployees(context.Background(), companyID.String())
	assert.NoError(t, err)
	assert.Equal(t, roster, got)
	assert.Equal(t, 1, repo.listCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectory_ListCacheHitSkipsRepo(t *testing.T) {
	companyID := uuid.New()
	roster := testRoster(companyID)
	payload, err := json.Marshal(roster)
	assert.NoError(t, err)

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(employee.RosterCacheKey(companyID.String())).SetVal(string(payload))

	repo := &fakeEmployeeRepository{
		findAllByCompanyFn: func(ctx context.Context, gotCompanyID string) ([]employee.Employee, error) {
			t.Fatal("repo should not be hit on a cache hit")
			return nil, nil
		},
	}

	dir := employee.NewDirectory(repo, rdb)
	got, err := dir.ListEmployees(context.Background(), companyID.String())
	assert.NoError(t, err)
	assert.Len(t, got, len(roster))
	assert.Equal(t, roster[0].ID, got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectory_ListRepoFailurePropagates(t *testing.T) {
	companyID := uuid.New()

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(employee.RosterCacheKey(companyID.String())).RedisNil()

	repo := &fakeEmployeeRepository{
		findAllByCompanyFn: func(ctx context.Context, gotCompanyID string) ([]employee.Employee, error) {
			return nil, errors.New("employees table unavailable")
		},
	}

	dir := employee.NewDirectory(repo, rdb)
	_, err := dir.ListEmployees(context.Background(), companyID.String())
	assert.EqualError(t, err, "employees table unavailable")
}
