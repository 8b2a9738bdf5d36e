package events

import "time"

const (
	PayrollProcessedTopic     = "hr.payroll.processed.v1"
	PayrollProcessedEventType = "payroll.processed"
)

type PayrollProcessedEvent struct {
	EventType     string    `json:"event_type"`
	RecordID      string    `json:"record_id"`
	CompanyID     string    `json:"company_id"`
	EmployeeID    string    `json:"employee_id"`
	Period        string    `json:"period"`
	NetSalary     string    `json:"net_salary"`
	PayslipNumber string    `json:"payslip_number"`
	ProcessedBy   string    `json:"processed_by,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
