package handlers

import (
	"fmt"
	"net/http"
	"time"

	"attendance-engine/internal/database"
	"attendance-engine/internal/models"

	"github.com/gin-gonic/gin"
)

// SeedDatabase creates sample employees, day-off schedules, and leave
// requests for development. Safe to call repeatedly.
func SeedDatabase(c *gin.Context) {
	for i := 0; i < 20; i++ {
		code := fmt.Sprintf("%d", 100+i)
		var employee models.Employee
		err := database.DB.FirstOrInit(&employee, models.Employee{EmployeeCode: code}).Error
		if err == nil && employee.ID == 0 { // Only create if it doesn't exist
			employee.Name = fmt.Sprintf("Employee %d", i+1)
			database.DB.Create(&employee)

			// Every fifth employee gets a recurring Sunday off.
			if i%5 == 0 {
				database.DB.Create(&models.DayOffSchedule{
					EmployeeID: employee.ID,
					DayOfWeek:  time.Sunday.String(),
				})
			}
		}
	}

	var employee models.Employee
	if err := database.DB.First(&employee).Error; err == nil {
		var existing models.LeaveRequest
		err := database.DB.FirstOrInit(&existing, models.LeaveRequest{EmployeeID: employee.ID, LeaveType: "ANNUAL"}).Error
		if err == nil && existing.ID == 0 {
			existing.StartTime = time.Date(time.Now().Year(), time.July, 1, 0, 0, 0, 0, time.UTC)
			existing.EndTime = time.Date(time.Now().Year(), time.July, 2, 23, 59, 59, 0, time.UTC)
			existing.LeaveDay = 2.0
			existing.Status = models.LeaveStatusPending
			existing.Reason = "Sample leave"
			database.DB.Create(&existing)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Database seeded with sample employees, schedules, and leave requests."})
}
