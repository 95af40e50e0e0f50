package services

import (
	"log"
	"time"

	"attendance-engine/internal/database"
	"attendance-engine/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultEntitlement is the yearly leave entitlement granted when a
// ledger row is first created. A single global policy constant; there
// is no per-employee override.
const DefaultEntitlement = 12.0

// Balance is the read-model returned to callers.
type Balance struct {
	EmployeeID  uint    `json:"employeeId"`
	Year        int     `json:"year"`
	Entitlement float64 `json:"entitlement"`
	Used        float64 `json:"used"`
	Remaining   float64 `json:"remaining"`
}

// OnLeaveStatusChange keeps the ledger consistent with a leave
// request's status transition, which the approval workflow has
// already persisted. Only transitions into or out of APPROVED have a
// ledger effect. The year is the UTC calendar year of the leave's
// start; a leave spanning a year boundary is attributed entirely to
// the start year.
func OnLeaveStatusChange(leave models.LeaveRequest, previousStatus string) error {
	year := leave.StartTime.UTC().Year()
	approvedNow := leave.Status == models.LeaveStatusApproved
	approvedBefore := previousStatus == models.LeaveStatusApproved

	switch {
	case !approvedBefore && approvedNow:
		return creditUsed(leave.EmployeeID, year, leave.LeaveDay)
	case approvedBefore && !approvedNow:
		return debitUsed(leave.EmployeeID, year, leave.LeaveDay)
	default:
		return nil
	}
}

// creditUsed adds days to the ledger row, creating it if absent. The
// create carries the delta so the insert-or-increment pair stays
// correct when two notifications race on a missing row: exactly one
// insert wins and the loser falls through to the atomic increment.
func creditUsed(employeeID uint, year int, days float64) error {
	row := models.LeaveBalance{
		EmployeeID:  employeeID,
		Year:        year,
		Entitlement: DefaultEntitlement,
		Used:        days,
	}
	result := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "year"}},
		DoNothing: true,
	}).Create(&row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	return database.DB.Model(&models.LeaveBalance{}).
		Where("employee_id = ? AND year = ?", employeeID, year).
		UpdateColumn("used", gorm.Expr("used + ?", days)).Error
}

// debitUsed subtracts days from the ledger row. A missing row is a
// no-op: the decrement has nothing to undo.
func debitUsed(employeeID uint, year int, days float64) error {
	result := database.DB.Model(&models.LeaveBalance{}).
		Where("employee_id = ? AND year = ?", employeeID, year).
		UpdateColumn("used", gorm.Expr("used - ?", days))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		log.Printf("[Ledger Service] No balance row for employee %d year %d on decrement; skipping.", employeeID, year)
	}
	return nil
}

// GetBalance returns the persisted ledger row for the employee and
// year, or a computed fallback (not persisted) when no row exists.
func GetBalance(employeeID uint, year int) (Balance, error) {
	var row models.LeaveBalance
	err := database.DB.Where("employee_id = ? AND year = ?", employeeID, year).First(&row).Error
	if err == nil {
		return Balance{
			EmployeeID:  employeeID,
			Year:        year,
			Entitlement: row.Entitlement,
			Used:        row.Used,
			Remaining:   row.Entitlement - row.Used,
		}, nil
	}
	if err != gorm.ErrRecordNotFound {
		return Balance{}, err
	}

	used, err := ApprovedLeaveDays(employeeID, year)
	if err != nil {
		return Balance{}, err
	}
	return Balance{
		EmployeeID:  employeeID,
		Year:        year,
		Entitlement: DefaultEntitlement,
		Used:        used,
		Remaining:   DefaultEntitlement - used,
	}, nil
}

// ApprovedLeaveDays sums leave_day over APPROVED requests overlapping
// the given year, inclusive on both ends. This is the authoritative
// aggregate the fallback balance and the reconciliation job share.
func ApprovedLeaveDays(employeeID uint, year int) (float64, error) {
	yearStart, yearEnd := yearBounds(year)

	var used float64
	err := database.DB.Model(&models.LeaveRequest{}).
		Where("employee_id = ? AND status = ? AND start_time <= ? AND end_time >= ?",
			employeeID, models.LeaveStatusApproved, yearEnd, yearStart).
		Select("COALESCE(SUM(leave_day), 0)").
		Scan(&used).Error
	if err != nil {
		return 0, err
	}
	return used, nil
}

// UpsertBalance writes a ledger row unconditionally. This is the
// repair primitive shared by the backfill routine and manual operator
// correction; normal request traffic never calls it.
func UpsertBalance(employeeID uint, year int, entitlement, used float64) error {
	row := models.LeaveBalance{
		EmployeeID:  employeeID,
		Year:        year,
		Entitlement: entitlement,
		Used:        used,
	}
	return database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{"entitlement", "used", "updated_at"}),
	}).Create(&row).Error
}

// yearBounds returns the inclusive UTC instant range of a calendar
// year, used by the overlap aggregate.
func yearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	return start, end
}
