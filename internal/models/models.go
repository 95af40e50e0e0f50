package models

import (
	"time"
)

// Leave request statuses.
const (
	LeaveStatusPending  = "PENDING"
	LeaveStatusApproved = "APPROVED"
	LeaveStatusRejected = "REJECTED"
)

// Employee is the identity record. EmployeeCode is the stable
// device-side identifier that punches are keyed by; ID is the
// internal key used by leave and ledger rows.
type Employee struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	EmployeeCode string    `gorm:"uniqueIndex;not null" json:"employeeCode"`
	Name         string    `gorm:"not null" json:"name"`
}

// PunchRecord is one canonical punch event ingested from a terminal.
// Append-only: the poller creates rows, nothing updates or deletes
// them. The composite unique index is the dedup key.
type PunchRecord struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	EmployeeCode string    `gorm:"not null;uniqueIndex:idx_punch_code_time" json:"employeeCode"`
	PunchTime    time.Time `gorm:"not null;uniqueIndex:idx_punch_code_time" json:"punchTime"`
	RawPayload   string    `json:"rawPayload"`
}

// LeaveRequest is an authoritative leave record. Rows are owned by
// the external approval workflow; this engine reads them and reacts
// to status transitions it is notified about.
type LeaveRequest struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	EmployeeID uint      `gorm:"not null;index" json:"employeeId"`
	LeaveType  string    `gorm:"not null" json:"leaveType"`
	StartTime  time.Time `gorm:"not null" json:"startTime"`
	EndTime    time.Time `gorm:"not null" json:"endTime"`
	LeaveDay   float64   `gorm:"not null" json:"leaveDay"` // user-declared fractional days, e.g. 0.5
	Status     string    `gorm:"not null;default:PENDING;index" json:"status"`
	Reason     string    `json:"reason"`
}

// LeaveBalance is the derived ledger row for one employee and year.
// Invariant: Used equals the sum of LeaveDay over APPROVED requests
// for that employee/year whenever no transition is in flight.
type LeaveBalance struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	EmployeeID  uint      `gorm:"not null;uniqueIndex:idx_balance_employee_year" json:"employeeId"`
	Year        int       `gorm:"not null;uniqueIndex:idx_balance_employee_year" json:"year"`
	Entitlement float64   `gorm:"not null" json:"entitlement"`
	Used        float64   `gorm:"not null" json:"used"`
}

// DayOffSchedule declares a recurring non-working weekday for an
// employee. Consulted for classification only, never mutated here.
type DayOffSchedule struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	EmployeeID uint   `gorm:"not null;index" json:"employeeId"`
	DayOfWeek  string `gorm:"not null" json:"dayOfWeek"` // weekday name, e.g. "Monday"
}

// AuditLog tracks significant events in the system.
type AuditLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Actor     string    `gorm:"not null" json:"actor"`  // "operator" or "workflow"
	Action    string    `gorm:"not null" json:"action"` // e.g. "RAN_RECONCILIATION"
	Details   string    `json:"details"`
	RequestIP string    `json:"requestIp"`
}
