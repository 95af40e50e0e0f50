package services

import (
	"time"

	"attendance-engine/internal/database"
	"attendance-engine/internal/models"
	"attendance-engine/internal/store"
)

// Attendance statuses, in precedence order: an approved leave beats a
// coincidental punch, and a day-off is only reached with no leave.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusLeave   = "Leave"
	StatusDayOff  = "Day Off"
)

// AttendanceRow is the derived classification of one employee for one
// day. It is computed on demand and never persisted.
type AttendanceRow struct {
	EmployeeID uint       `json:"employeeId"`
	EmpCode    string     `json:"empCode"`
	Name       string     `json:"name"`
	ClockIn    *time.Time `json:"clockIn"`
	ClockOut   *time.Time `json:"clockOut"`
	Status     string     `json:"status"`
}

// ClassifyDay classifies a page of employees for the given calendar
// day (UTC). skip/take page the employee list; take <= 0 means all.
func ClassifyDay(date time.Time, skip, take int) ([]AttendanceRow, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	// SQLite refuses OFFSET without LIMIT, so paging with skip alone
	// still needs an explicit bound.
	if skip > 0 && take <= 0 {
		take = 1 << 30
	}
	q := database.DB.Order("id asc")
	if skip > 0 {
		q = q.Offset(skip)
	}
	if take > 0 {
		q = q.Limit(take)
	}
	var employees []models.Employee
	if err := q.Find(&employees).Error; err != nil {
		return nil, err
	}

	punches, err := store.PunchesBetween(dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	punchesByCode := make(map[string][]time.Time)
	for _, p := range punches {
		punchesByCode[p.EmployeeCode] = append(punchesByCode[p.EmployeeCode], p.PunchTime)
	}

	// Approved leaves whose interval overlaps the day, inclusive on
	// both ends.
	var leaves []models.LeaveRequest
	err = database.DB.
		Where("status = ? AND start_time <= ? AND end_time >= ?", models.LeaveStatusApproved, dayEnd, dayStart).
		Find(&leaves).Error
	if err != nil {
		return nil, err
	}
	onLeave := make(map[uint]bool)
	for _, l := range leaves {
		onLeave[l.EmployeeID] = true
	}

	var dayOffs []models.DayOffSchedule
	if err := database.DB.Where("day_of_week = ?", dayStart.Weekday().String()).Find(&dayOffs).Error; err != nil {
		return nil, err
	}
	dayOff := make(map[uint]bool)
	for _, d := range dayOffs {
		dayOff[d.EmployeeID] = true
	}

	rows := make([]AttendanceRow, 0, len(employees))
	for _, emp := range employees {
		row := AttendanceRow{
			EmployeeID: emp.ID,
			EmpCode:    emp.EmployeeCode,
			Name:       emp.Name,
		}

		if times := punchesByCode[emp.EmployeeCode]; len(times) > 0 {
			// PunchesBetween returns times ascending.
			first, last := times[0], times[len(times)-1]
			row.ClockIn = &first
			row.ClockOut = &last
		}

		switch {
		case onLeave[emp.ID]:
			row.Status = StatusLeave
		case dayOff[emp.ID]:
			row.Status = StatusDayOff
		case row.ClockIn != nil:
			row.Status = StatusPresent
		default:
			row.Status = StatusAbsent
		}
		rows = append(rows, row)
	}
	return rows, nil
}
