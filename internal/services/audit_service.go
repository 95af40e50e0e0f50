package services

import (
	"attendance-engine/internal/database"
	"attendance-engine/internal/models"
)

// CreateAuditLog creates a new entry in the audit log table.
func CreateAuditLog(actor, action, details, requestIP string) {
	logEntry := models.AuditLog{
		Actor:     actor,
		Action:    action,
		Details:   details,
		RequestIP: requestIP,
	}
	// This can be run in a goroutine so it doesn't block the main request flow.
	database.DB.Create(&logEntry)
}
