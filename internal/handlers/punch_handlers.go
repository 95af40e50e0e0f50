package handlers

import (
	"net/http"
	"strconv"
	"time"

	"attendance-engine/internal/services"
	"attendance-engine/internal/store"

	"github.com/gin-gonic/gin"
)

// ListPunches returns stored punches, newest first, with optional
// employee_code / since filters and limit/offset pagination.
func ListPunches(c *gin.Context) {
	filter := store.PunchFilter{
		EmployeeCode: c.Query("employee_code"),
	}

	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid since parameter. Please use RFC3339."})
			return
		}
		filter.Since = &since
	}

	filter.Limit = intQuery(c, "limit", 50)
	filter.Offset = intQuery(c, "offset", 0)

	items, total, err := store.QueryPunches(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch punches"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
	})
}

// GetDailyAttendance classifies a page of employees for one calendar day.
func GetDailyAttendance(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing date query parameter"})
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Please use YYYY-MM-DD."})
		return
	}

	skip := intQuery(c, "skip", 0)
	take := intQuery(c, "take", 0)

	rows, err := services.ClassifyDay(date, skip, take)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not classify attendance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"items": rows,
	})
}

// GetLeaveBalance returns the ledger row for an employee/year, or the
// computed fallback when no row exists.
func GetLeaveBalance(c *gin.Context) {
	employeeIDStr := c.Query("employee_id")
	yearStr := c.Query("year")
	if employeeIDStr == "" || yearStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing employee_id or year query parameter"})
		return
	}

	employeeID, err1 := strconv.Atoi(employeeIDStr)
	year, err2 := strconv.Atoi(yearStr)
	if err1 != nil || err2 != nil || employeeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employee_id or year"})
		return
	}

	balance, err := services.GetBalance(uint(employeeID), year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch leave balance"})
		return
	}
	c.JSON(http.StatusOK, balance)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
