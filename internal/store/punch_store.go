// Package store persists canonical punch records. The table is
// append-only and deduplicated on the natural key
// (employee_code, punch_time).
package store

import (
	"log"
	"time"

	"attendance-engine/internal/database"
	"attendance-engine/internal/models"

	"gorm.io/gorm/clause"
)

// PunchFilter narrows a punch listing.
type PunchFilter struct {
	EmployeeCode string
	Since        *time.Time
	Limit        int
	Offset       int
}

// PersistPunches inserts records one at a time with insert-or-ignore
// semantics: a record whose (employee_code, punch_time) pair already
// exists is a silent no-op and does not count as inserted. The
// uniqueness check rides on the table's composite unique index, so
// concurrent callers racing on the same key still produce exactly one
// row. A failure on one record does not roll back earlier ones.
//
// The second return value lists the records the table now holds, both
// fresh inserts and pre-existing duplicates. Records lost to an insert
// error are excluded, so a caller tracking progress can avoid moving
// past punches that were never stored.
func PersistPunches(records []models.PunchRecord) (int, []models.PunchRecord) {
	inserted := 0
	retained := make([]models.PunchRecord, 0, len(records))
	for i := range records {
		rec := records[i]
		result := database.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_code"}, {Name: "punch_time"}},
			DoNothing: true,
		}).Create(&rec)

		if result.Error != nil {
			log.Printf("[Punch Store] Failed to insert punch for %s at %s: %v",
				rec.EmployeeCode, rec.PunchTime.Format(time.RFC3339), result.Error)
			continue
		}
		inserted += int(result.RowsAffected)
		retained = append(retained, rec)
	}
	return inserted, retained
}

// QueryPunches lists punches newest-first, with the total count of
// rows matching the filter regardless of pagination.
func QueryPunches(filter PunchFilter) ([]models.PunchRecord, int64, error) {
	q := database.DB.Model(&models.PunchRecord{})
	if filter.EmployeeCode != "" {
		q = q.Where("employee_code = ?", filter.EmployeeCode)
	}
	if filter.Since != nil {
		q = q.Where("punch_time >= ?", *filter.Since)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var items []models.PunchRecord
	if err := q.Order("punch_time desc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// PunchesBetween returns all punches in [from, to], oldest first.
// Used by the attendance aggregator for a single day's window.
func PunchesBetween(from, to time.Time) ([]models.PunchRecord, error) {
	var items []models.PunchRecord
	err := database.DB.
		Where("punch_time >= ? AND punch_time <= ?", from, to).
		Order("punch_time asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
