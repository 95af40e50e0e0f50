package services

import (
	"testing"
	"time"

	"attendance-engine/internal/models"
	"attendance-engine/internal/store"
)

func seedEmployee(code, name string) models.Employee {
	emp := models.Employee{EmployeeCode: code, Name: name}
	testDB.Create(&emp)
	return emp
}

func TestClassifyDay(t *testing.T) {
	day := time.Date(2025, 8, 23, 0, 0, 0, 0, time.UTC) // a Saturday

	t.Run("punches produce Present with clock in and out", func(t *testing.T) {
		cleanDB()
		seedEmployee("7", "Punchy")
		store.PersistPunches([]models.PunchRecord{
			{EmployeeCode: "7", PunchTime: day.Add(1 * time.Hour)},
			{EmployeeCode: "7", PunchTime: day.Add(9 * time.Hour)},
		})

		rows, err := ClassifyDay(day, 0, 0)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("Expected 1 row, got %d", len(rows))
		}
		row := rows[0]
		if row.Status != StatusPresent {
			t.Errorf("Expected status Present, got %s", row.Status)
		}
		if row.ClockIn == nil || !row.ClockIn.Equal(day.Add(1*time.Hour)) {
			t.Errorf("Expected clock-in at 01:00Z, got %v", row.ClockIn)
		}
		if row.ClockOut == nil || !row.ClockOut.Equal(day.Add(9*time.Hour)) {
			t.Errorf("Expected clock-out at 09:00Z, got %v", row.ClockOut)
		}
	})

	t.Run("no punches and no schedule is Absent", func(t *testing.T) {
		cleanDB()
		seedEmployee("7", "Ghost")

		rows, err := ClassifyDay(day, 0, 0)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rows[0].Status != StatusAbsent {
			t.Errorf("Expected status Absent, got %s", rows[0].Status)
		}
		if rows[0].ClockIn != nil || rows[0].ClockOut != nil {
			t.Error("Expected nil clock times for an absent employee")
		}
	})

	t.Run("approved leave beats a coincidental punch", func(t *testing.T) {
		cleanDB()
		emp := seedEmployee("7", "Off Duty")
		testDB.Create(&models.LeaveRequest{
			EmployeeID: emp.ID,
			LeaveType:  "ANNUAL",
			StartTime:  day,
			EndTime:    day.Add(23 * time.Hour),
			LeaveDay:   1.0,
			Status:     models.LeaveStatusApproved,
		})
		store.PersistPunches([]models.PunchRecord{
			{EmployeeCode: "7", PunchTime: day.Add(8 * time.Hour)},
		})

		rows, err := ClassifyDay(day, 0, 0)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rows[0].Status != StatusLeave {
			t.Errorf("Expected status Leave despite the punch, got %s", rows[0].Status)
		}
		// The punch itself is still reported.
		if rows[0].ClockIn == nil {
			t.Error("Expected the punch time to still be visible")
		}
	})

	t.Run("pending leave does not classify as Leave", func(t *testing.T) {
		cleanDB()
		emp := seedEmployee("7", "Still Waiting")
		testDB.Create(&models.LeaveRequest{
			EmployeeID: emp.ID,
			LeaveType:  "ANNUAL",
			StartTime:  day,
			EndTime:    day,
			LeaveDay:   1.0,
			Status:     models.LeaveStatusPending,
		})

		rows, err := ClassifyDay(day, 0, 0)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rows[0].Status != StatusAbsent {
			t.Errorf("Expected status Absent for pending leave, got %s", rows[0].Status)
		}
	})

	t.Run("day off without leave or punch wins over Absent", func(t *testing.T) {
		cleanDB()
		emp := seedEmployee("7", "Weekender")
		testDB.Create(&models.DayOffSchedule{EmployeeID: emp.ID, DayOfWeek: "Saturday"})

		rows, err := ClassifyDay(day, 0, 0)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rows[0].Status != StatusDayOff {
			t.Errorf("Expected status Day Off, got %s", rows[0].Status)
		}
	})

	t.Run("leave wins over day off", func(t *testing.T) {
		cleanDB()
		emp := seedEmployee("7", "Double Booked")
		testDB.Create(&models.DayOffSchedule{EmployeeID: emp.ID, DayOfWeek: "Saturday"})
		testDB.Create(&models.LeaveRequest{
			EmployeeID: emp.ID,
			LeaveType:  "SICK",
			StartTime:  day.AddDate(0, 0, -1), // spans into the day
			EndTime:    day.Add(12 * time.Hour),
			LeaveDay:   1.5,
			Status:     models.LeaveStatusApproved,
		})

		rows, err := ClassifyDay(day, 0, 0)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rows[0].Status != StatusLeave {
			t.Errorf("Expected status Leave over Day Off, got %s", rows[0].Status)
		}
	})

	t.Run("leave interval overlap is inclusive on both ends", func(t *testing.T) {
		cleanDB()
		emp := seedEmployee("7", "Edge Case")
		// Leave ends exactly at day start.
		testDB.Create(&models.LeaveRequest{
			EmployeeID: emp.ID,
			LeaveType:  "ANNUAL",
			StartTime:  day.AddDate(0, 0, -2),
			EndTime:    day,
			LeaveDay:   2.0,
			Status:     models.LeaveStatusApproved,
		})

		rows, err := ClassifyDay(day, 0, 0)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rows[0].Status != StatusLeave {
			t.Errorf("Expected inclusive boundary to classify as Leave, got %s", rows[0].Status)
		}
	})

	t.Run("pages employees with skip and take", func(t *testing.T) {
		cleanDB()
		for _, code := range []string{"1", "2", "3", "4"} {
			seedEmployee(code, "Employee "+code)
		}

		rows, err := ClassifyDay(day, 1, 2)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("Expected page of 2 rows, got %d", len(rows))
		}
		if rows[0].EmpCode != "2" || rows[1].EmpCode != "3" {
			t.Errorf("Expected employees 2 and 3, got %s and %s", rows[0].EmpCode, rows[1].EmpCode)
		}
	})
}
