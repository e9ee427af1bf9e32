package versioning

import "gorm.io/gorm"

// Query scopes for versioned tables, the workflow-state counterparts of the
// usual status filters.

// Live keeps published rows only.
func Live(db *gorm.DB) *gorm.DB {
	return db.Where("is_live = ?", true)
}

// Draft keeps draft rows only.
func Draft(db *gorm.DB) *gorm.DB {
	return db.Where("is_live = ?", false)
}

// PendingDeletion keeps live rows with an open deletion request.
func PendingDeletion(db *gorm.DB) *gorm.DB {
	return db.Where("is_live = ? AND deletion_requested = ?", true, true)
}

// PendingChanges keeps rows with unpublished edits: drafts, and live rows
// that have a draft linked to them. The table name is needed for the
// subquery against the entity's own live links.
func PendingChanges(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"is_live = ? OR id IN (SELECT live_id FROM "+table+" WHERE live_id IS NOT NULL)",
			false,
		)
	}
}
