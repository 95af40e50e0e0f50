package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"attendance-engine/internal/database"
	"attendance-engine/internal/models"
	"attendance-engine/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NotifyLeaveStatusChanged is called by the leave-approval workflow
// after it persists a status transition. The engine reacts by keeping
// the balance ledger consistent.
func NotifyLeaveStatusChanged(c *gin.Context) {
	var input struct {
		LeaveID        uint   `json:"leaveId" binding:"required"`
		PreviousStatus string `json:"previousStatus" binding:"required"`
		NewStatus      string `json:"newStatus" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validStatus(input.PreviousStatus) || !validStatus(input.NewStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown leave status."})
		return
	}

	var leave models.LeaveRequest
	err := database.DB.First(&leave, input.LeaveID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Leave request not found."})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leave request."})
		return
	}

	// The workflow persists the status before notifying; trust its
	// declared new status over a possibly stale row.
	leave.Status = input.NewStatus

	if err := services.OnLeaveStatusChange(leave, input.PreviousStatus); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update leave balance."})
		return
	}

	details := fmt.Sprintf("Leave %d for employee %d: %s -> %s.", leave.ID, leave.EmployeeID, input.PreviousStatus, input.NewStatus)
	go services.CreateAuditLog("workflow", "LEAVE_STATUS_CHANGED", details, c.GetString("request_ip"))

	c.JSON(http.StatusOK, gin.H{"message": "Leave balance updated."})
}

// GetAuditLogs retrieves a list of all audit log entries.
func GetAuditLogs(c *gin.Context) {
	var logs []models.AuditLog
	// Order by most recent
	if err := database.DB.Order("created_at desc").Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not retrieve audit logs"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

func validStatus(status string) bool {
	switch status {
	case models.LeaveStatusPending, models.LeaveStatusApproved, models.LeaveStatusRejected:
		return true
	}
	return false
}
