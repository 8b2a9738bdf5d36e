package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"sync"
	"time"

	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/payslip"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// defaultBulkWorkers bounds the fan-out of a bulk run. Per-employee
// isolation does not depend on this value; any order of completion yields
// the same aggregate.
const defaultBulkWorkers = 4

// PayslipDownload streams a stored artifact back to the caller. The caller
// owns closing the reader.
type PayslipDownload struct {
	Reader   io.ReadCloser
	Filename string
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	ProcessEmployee(ctx context.Context, companyID, actorID, employeeID, period string) (PayrollRecordResponse, error)
	ProcessBulk(ctx context.Context, companyID, actorID, period string) (BulkRunResponse, error)
	GetHistory(ctx context.Context, companyID, employeeID string, page, limit int) ([]PayrollRecordResponse, int64, error)
	GetRecord(ctx context.Context, companyID, id string) (PayrollRecordResponse, error)
	DownloadPayslip(ctx context.Context, companyID, recordID string) (PayslipDownload, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	directory   employee.Directory
	calc        deduction.Calculator
	payslips    payslip.Generator
	outbox      kafka.OutboxRepository
	logger      *zap.Logger
	bulkWorkers int
}

func NewService(
	db *sql.DB,
	repo Repository,
	directory employee.Directory,
	calc deduction.Calculator,
	payslips payslip.Generator,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, directory, calc, payslips, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	directory employee.Directory,
	calc deduction.Calculator,
	payslips payslip.Generator,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		directory:   directory,
		calc:        calc,
		payslips:    payslips,
		outbox:      outboxRepo,
		logger:      l,
		bulkWorkers: defaultBulkWorkers,
	}
}

func (s *service) ProcessEmployee(
	ctx context.Context,
	companyID, actorID, employeeID, period string,
) (PayrollRecordResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return PayrollRecordResponse{}, payrollerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return PayrollRecordResponse{}, payrollerrors.ErrInvalidEmployeeID
	}

	periodKey, err := ParsePeriod(period)
	if err != nil {
		return PayrollRecordResponse{}, err
	}

	emp, err := s.directory.GetEmployee(ctx, companyID, employeeID)
	if err != nil {
		return PayrollRecordResponse{}, err
	}

	rec, err := s.processOne(ctx, *emp, periodKey, actorID)
	if err != nil {
		return PayrollRecordResponse{}, err
	}

	return mapToResponse(*rec), nil
}

// processOne runs the full pipeline for one employee: idempotency check,
// computation, artifact generation, then the record insert (with outbox
// event) in one transaction. The prior existence check is an optimization;
// the unique index is what actually enforces exactly-once, so an insert
// conflict is reinterpreted as AlreadyProcessed rather than an error.
func (s *service) processOne(
	ctx context.Context,
	emp employee.Employee,
	periodKey time.Time,
	actorID string,
) (*PayrollRecord, error) {
	rid := contextutil.GetRequestID(ctx)

	existing, err := s.repo.FindByEmployeeAndPeriod(ctx, emp.CompanyID.String(), emp.ID.String(), periodKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, payrollerrors.ErrAlreadyProcessed
	}

	breakdown, err := s.calc.Compute(emp.GrossSalary)
	if err != nil {
		return nil, err
	}

	artifact, err := s.payslips.Generate(ctx, emp, breakdown, periodKey)
	if err != nil {
		s.logger.Error("payslip generation failed",
			zap.String("request_id", rid),
			zap.String("employee_id", emp.ID.String()),
			zap.Error(err),
		)
		return nil, payrollerrors.WrapPayslipGeneration(err)
	}

	rec := &PayrollRecord{
		ID:               uuid.New(),
		CompanyID:        emp.CompanyID,
		EmployeeID:       emp.ID,
		PeriodKey:        periodKey,
		GrossSalary:      breakdown.GrossSalary,
		NSSFTier1:        breakdown.NSSF.Tier1,
		NSSFTier2:        breakdown.NSSF.Tier2,
		NSSFAmount:       breakdown.NSSF.Amount,
		NSSFTiersApplied: joinTiers(breakdown.NSSF.TiersApplied),
		SHIFAmount:       breakdown.SHIF,
		HousingLevy:      breakdown.HousingLevy,
		TaxableIncome:    breakdown.TaxableIncome,
		PAYEAmount:       breakdown.PAYE,
		PersonalRelief:   breakdown.PersonalRelief,
		TotalDeductions:  breakdown.TotalDeductions,
		NetSalary:        breakdown.NetSalary,
		PayslipNumber:    artifact.Number,
		PayslipRef:       artifact.Ref,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.persistRecord(ctx, rec, actorID); err != nil {
		// The record never existed, so the stored artifact is an orphan.
		// Cleanup is best-effort; a leftover blob is harmless.
		if delErr := s.payslips.Delete(ctx, artifact.Ref); delErr != nil {
			s.logger.Warn("orphan payslip cleanup failed",
				zap.String("request_id", rid),
				zap.String("ref", artifact.Ref),
				zap.Error(delErr),
			)
		}
		return nil, err
	}

	s.logger.Info("payroll processed",
		zap.String("request_id", rid),
		zap.String("employee_id", emp.ID.String()),
		zap.String("period", FormatPeriod(periodKey)),
		zap.String("payslip_number", artifact.Number),
	)

	return rec, nil
}

func (s *service) persistRecord(ctx context.Context, rec *PayrollRecord, actorID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, rec); err != nil {
		return mapRepositoryError(err)
	}

	if s.outbox != nil {
		if err := s.writeProcessedEvent(ctx, tx, rec, actorID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return mapRepositoryError(err)
	}
	return nil
}

func (s *service) writeProcessedEvent(ctx context.Context, tx *sql.Tx, rec *PayrollRecord, actorID string) error {
	event := events.PayrollProcessedEvent{
		EventType:     events.PayrollProcessedEventType,
		RecordID:      rec.ID.String(),
		CompanyID:     rec.CompanyID.String(),
		EmployeeID:    rec.EmployeeID.String(),
		Period:        FormatPeriod(rec.PeriodKey),
		NetSalary:     rec.NetSalary.StringFixed(2),
		PayslipNumber: rec.PayslipNumber,
		ProcessedBy:   actorID,
		OccurredAt:    rec.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll_record",
		AggregateID:   rec.ID.String(),
		EventType:     events.PayrollProcessedEventType,
		Topic:         events.PayrollProcessedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// ProcessBulk runs every employee of the company for one period. The
// period is validated once up front and aborts the whole call; every other
// failure stays scoped to its employee and lands in the errors bucket.
func (s *service) ProcessBulk(
	ctx context.Context,
	companyID, actorID, period string,
) (BulkRunResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return BulkRunResponse{}, payrollerrors.ErrInvalidCompanyID
	}

	periodKey, err := ParsePeriod(period)
	if err != nil {
		return BulkRunResponse{}, err
	}

	employees, err := s.directory.ListEmployees(ctx, companyID)
	if err != nil {
		return BulkRunResponse{}, err
	}

	var (
		mu      sync.Mutex
		records []PayrollRecordResponse
		failed  []BulkRunErrorEntry
	)

	g := new(errgroup.Group)
	g.SetLimit(s.bulkWorkers)

	for _, emp := range employees {
		emp := emp
		g.Go(func() error {
			rec, err := s.processOne(ctx, emp, periodKey, actorID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, BulkRunErrorEntry{
					EmployeeID: emp.ID.String(),
					Message:    err.Error(),
				})
				return nil
			}
			records = append(records, mapToResponse(*rec))
			return nil
		})
	}

	// Workers never return errors; outcomes are routed into the buckets.
	_ = g.Wait()

	if records == nil {
		records = []PayrollRecordResponse{}
	}
	if failed == nil {
		failed = []BulkRunErrorEntry{}
	}

	s.logger.Info("bulk payroll run finished",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("company_id", companyID),
		zap.String("period", FormatPeriod(periodKey)),
		zap.Int("processed", len(records)),
		zap.Int("failed", len(failed)),
	)

	return BulkRunResponse{
		Period:         FormatPeriod(periodKey),
		ProcessedCount: len(records),
		FailedCount:    len(failed),
		Records:        records,
		Errors:         failed,
	}, nil
}

func (s *service) GetHistory(
	ctx context.Context,
	companyID, employeeID string,
	page, limit int,
) ([]PayrollRecordResponse, int64, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, 0, payrollerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, 0, payrollerrors.ErrInvalidEmployeeID
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	total, err := s.repo.CountByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, 0, err
	}

	recs, err := s.repo.FindPageByEmployee(ctx, companyID, employeeID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	return mapToListResponse(recs), total, nil
}

func (s *service) GetRecord(ctx context.Context, companyID, id string) (PayrollRecordResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return PayrollRecordResponse{}, payrollerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(id); err != nil {
		return PayrollRecordResponse{}, payrollerrors.ErrInvalidRecordID
	}

	rec, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollRecordResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*rec), nil
}

func (s *service) DownloadPayslip(ctx context.Context, companyID, recordID string) (PayslipDownload, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return PayslipDownload{}, payrollerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(recordID); err != nil {
		return PayslipDownload{}, payrollerrors.ErrInvalidRecordID
	}

	rec, err := s.repo.FindByIDAndCompany(ctx, companyID, recordID)
	if err != nil {
		return PayslipDownload{}, mapRepositoryError(err)
	}

	reader, err := s.payslips.Open(ctx, rec.PayslipRef)
	if err != nil {
		if err == payslip.ErrArtifactNotFound {
			return PayslipDownload{}, payrollerrors.ErrPayslipArtifactMissing
		}
		return PayslipDownload{}, err
	}

	return PayslipDownload{
		Reader:   reader,
		Filename: rec.PayslipNumber + ".pdf",
	}, nil
}
