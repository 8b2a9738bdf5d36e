package consumer

import (
	"context"
	"encoding/json"

	"go-payroll/internal/events"
	"go-payroll/internal/payroll"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePayrollRunRequested executes bulk payroll runs requested over
// kafka, e.g. by a month-end scheduler. The bulk service is idempotent per
// (employee, period), so redelivered messages only produce AlreadyProcessed
// entries in the aggregate and the message can always be committed after a
// completed run.
func ConsumePayrollRunRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	payrollService payroll.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_run")
	log.Info("payroll run consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll run consumer stopped")
				return
			}
			log.Error("fetch payroll run message failed", zap.Error(err))
			continue
		}

		var event events.PayrollRunRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll run event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		result, err := payrollService.ProcessBulk(ctx, event.CompanyID, event.RequestedBy, event.Period)
		if err != nil {
			// Company- or period-level rejection; retrying the same message
			// cannot succeed, so commit and drop it.
			log.Error("bulk payroll run rejected",
				zap.String("company_id", event.CompanyID),
				zap.String("period", event.Period),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll run message failed", zap.Error(err))
			continue
		}

		log.Info("bulk payroll run completed",
			zap.String("company_id", event.CompanyID),
			zap.String("period", result.Period),
			zap.Int("processed", result.ProcessedCount),
			zap.Int("failed", result.FailedCount),
		)
	}
}
