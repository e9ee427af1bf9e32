package versioning

import "gorm.io/gorm"

// RewriteReferences repoints every registered reference from one entity onto
// another of the same kind with one bulk UPDATE per relation, and returns the
// total number of rows changed. It runs on the caller's transaction so that a
// failed transition leaves no row pointing at a deleted or stale record.
//
// Known limitation: if the live and the draft version are referenced at the
// same time by distinct rows under a unique index (two folders using them as
// covers, say), the bulk update violates that index. The violation is
// surfaced to the caller and rolls the transition back; the rewrite is never
// merged or silently skipped.
func RewriteReferences(tx *gorm.DB, reg *Registry, from, to Entity) (int64, error) {
	if from.Kind() != to.Kind() {
		return 0, ErrKindMismatch
	}

	var count int64
	for _, rel := range reg.Related(from.Kind()) {
		res := tx.Table(rel.Table).
			Where(rel.Column+" = ?", from.PrimaryID()).
			Update(rel.Column, to.PrimaryID())
		if res.Error != nil {
			return count, res.Error
		}
		count += res.RowsAffected
	}
	return count, nil
}
