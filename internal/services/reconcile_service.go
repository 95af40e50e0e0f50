package services

import (
	"fmt"
	"log"
	"math"

	"attendance-engine/internal/database"
	"attendance-engine/internal/models"
)

// ReconcileEpsilon is the tolerance when comparing persisted against
// computed usage; fractional leave days make exact float equality
// meaningless.
const ReconcileEpsilon = 0.01

// DefaultReconcilePageSize bounds how many ledger rows are loaded per
// page during a reconciliation run.
const DefaultReconcilePageSize = 200

// Mismatch is one ledger row whose persisted usage drifted from the
// value recomputed out of the leave-request history.
type Mismatch struct {
	EmployeeID uint    `json:"employeeId"`
	Year       int     `json:"year"`
	Persisted  float64 `json:"persisted"`
	Computed   float64 `json:"computed"`
	Diff       float64 `json:"diff"`
}

// RunReconciliation verifies the ledger for the given years and
// returns the drifted rows. It reports only; correcting a row is a
// separate operator action through the backfill/upsert path.
func RunReconciliation(years []int, pageSize int) ([]Mismatch, error) {
	if pageSize <= 0 {
		pageSize = DefaultReconcilePageSize
	}

	var mismatches []Mismatch
	checked := 0

	for _, year := range years {
		for offset := 0; ; offset += pageSize {
			var rows []models.LeaveBalance
			err := database.DB.
				Where("year = ?", year).
				Order("employee_id asc").
				Limit(pageSize).
				Offset(offset).
				Find(&rows).Error
			if err != nil {
				return nil, err
			}
			if len(rows) == 0 {
				break
			}

			for _, row := range rows {
				computed, err := ApprovedLeaveDays(row.EmployeeID, row.Year)
				if err != nil {
					return nil, err
				}
				checked++

				diff := row.Used - computed
				if math.Abs(diff) > ReconcileEpsilon {
					mismatches = append(mismatches, Mismatch{
						EmployeeID: row.EmployeeID,
						Year:       row.Year,
						Persisted:  row.Used,
						Computed:   computed,
						Diff:       diff,
					})
				}
			}

			if len(rows) < pageSize {
				break
			}
		}
	}

	log.Printf("[Reconcile Service] Checked %d ledger row(s) across %d year(s); %d mismatch(es).",
		checked, len(years), len(mismatches))
	CreateAuditLog("operator", "RAN_RECONCILIATION",
		fmt.Sprintf("Checked %d row(s) for years %v; found %d mismatch(es).", checked, years, len(mismatches)), "")
	return mismatches, nil
}

// RunBackfill recomputes and unconditionally upserts the ledger for
// every employee with APPROVED leave in the given years. This is the
// explicit repair path; it must never run as part of normal
// operation.
func RunBackfill(years []int, entitlement float64) (int, error) {
	if entitlement <= 0 {
		entitlement = DefaultEntitlement
	}

	written := 0
	for _, year := range years {
		employeeIDs, err := backfillTargets(year)
		if err != nil {
			return written, err
		}

		for _, employeeID := range employeeIDs {
			used, err := ApprovedLeaveDays(employeeID, year)
			if err != nil {
				return written, err
			}
			if err := UpsertBalance(employeeID, year, entitlement, used); err != nil {
				return written, err
			}
			written++
		}
	}

	log.Printf("[Reconcile Service] Backfilled %d ledger row(s) for years %v.", written, years)
	CreateAuditLog("operator", "RAN_BACKFILL",
		fmt.Sprintf("Backfilled %d row(s) for years %v with entitlement %.2f.", written, years, entitlement), "")
	return written, nil
}

// employeesWithApprovedLeave lists distinct employees holding at
// least one APPROVED request overlapping the year.
func employeesWithApprovedLeave(year int) ([]uint, error) {
	yearStart, yearEnd := yearBounds(year)

	var ids []uint
	err := database.DB.Model(&models.LeaveRequest{}).
		Where("status = ? AND start_time <= ? AND end_time >= ?", models.LeaveStatusApproved, yearEnd, yearStart).
		Distinct("employee_id").
		Order("employee_id asc").
		Pluck("employee_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// backfillTargets lists every employee whose ledger row for the year
// must be recomputed: holders of APPROVED requests plus holders of an
// existing ledger row. Including the latter lets backfill repair a
// drifted row whose requests were all deleted or rejected, writing
// used back down to zero.
func backfillTargets(year int) ([]uint, error) {
	leaveIDs, err := employeesWithApprovedLeave(year)
	if err != nil {
		return nil, err
	}

	var ledgerIDs []uint
	err = database.DB.Model(&models.LeaveBalance{}).
		Where("year = ?", year).
		Order("employee_id asc").
		Pluck("employee_id", &ledgerIDs).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool, len(leaveIDs)+len(ledgerIDs))
	ids := make([]uint, 0, len(leaveIDs)+len(ledgerIDs))
	for _, id := range append(leaveIDs, ledgerIDs...) {
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
