package events

import "time"

const (
	PayrollRunRequestedTopic     = "hr.payroll.run.requested.v1"
	PayrollRunRequestedEventType = "payroll.run.requested"
)

// PayrollRunRequestedEvent asks the consumer to execute a bulk payroll run
// for one organisation and period, e.g. from a scheduler at month end.
type PayrollRunRequestedEvent struct {
	EventType   string    `json:"event_type"`
	CompanyID   string    `json:"company_id"`
	Period      string    `json:"period"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
