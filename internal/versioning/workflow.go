package versioning

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Workflow executes draft/live transitions for one entity kind family. Every
// transition runs inside a single transaction; concurrency control is left to
// the storage layer (transaction atomicity plus the unique index on the
// draft→live link). Calling a transition twice without a state change in
// between fails the second time, it is never a silent no-op.
type Workflow struct {
	db  *gorm.DB
	reg *Registry
}

// NewWorkflow creates a Workflow on the given connection and relation
// registry.
func NewWorkflow(gdb *gorm.DB, reg *Registry) *Workflow {
	return &Workflow{db: gdb, reg: reg}
}

// Live returns the live counterpart of the entity: the entity itself when it
// is live, the linked live row for a draft, or nil for an orphan draft. A
// missing counterpart is an expected case, not an error.
func (w *Workflow) Live(e Entity) (Entity, error) {
	return w.liveTx(w.db, e)
}

func (w *Workflow) liveTx(tx *gorm.DB, e Entity) (Entity, error) {
	st := e.state()
	if st.IsLive {
		return e, nil
	}
	if st.LiveID == nil {
		return nil, nil
	}
	live := e.NewBlank()
	if err := tx.First(live, *st.LiveID).Error; err != nil {
		return nil, err
	}
	return live, nil
}

// Draft returns the draft belonging to the entity: the entity itself when it
// is a draft, the row linking to it when it is live, or nil when no draft
// exists.
func (w *Workflow) Draft(e Entity) (Entity, error) {
	return w.draftTx(w.db, e)
}

func (w *Workflow) draftTx(tx *gorm.DB, e Entity) (Entity, error) {
	if e.state().IsDraft() {
		return e, nil
	}
	draft := e.NewBlank()
	err := tx.Where("live_id = ?", e.PrimaryID()).First(draft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// HasPendingChanges reports whether the entity is itself a draft or, when
// live, has a draft linked to it. Always a fresh query, never cached on the
// instance.
func (w *Workflow) HasPendingChanges(e Entity) (bool, error) {
	if e.state().IsDraft() {
		return true, nil
	}
	var n int64
	err := w.db.Model(e.NewBlank()).Where("live_id = ?", e.PrimaryID()).Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateDraft copies a live entity into a new editable draft linked to it.
// A pending deletion request is discarded first; the two are mutually
// exclusive. If a draft already exists the unique index on the live link
// rejects the insert, so callers should check HasPendingChanges beforehand.
func (w *Workflow) CreateDraft(e Entity) (Entity, error) {
	st := e.state()
	if !st.IsLive {
		return nil, ErrNotLive
	}

	var draft Entity
	err := w.db.Transaction(func(tx *gorm.DB) error {
		if st.HasPendingDeletionRequest() {
			if err := tx.Model(e).Update("deletion_requested", false).Error; err != nil {
				return err
			}
			st.DeletionRequested = false
		}

		d := e.NewBlank()
		if err := d.CopyFieldsFrom(e); err != nil {
			return err
		}
		ds := d.state()
		liveID := e.PrimaryID()
		ds.IsLive = false
		ds.LiveID = &liveID
		ds.PublishedAt = nil
		ds.DeletionRequested = false

		if err := tx.Create(d).Error; err != nil {
			return err
		}
		if err := d.CopyRelations(tx, e); err != nil {
			return err
		}
		draft = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// DiscardDraft deletes a draft. Anything that started referencing the draft
// while it existed is first repointed at the live counterpart, so no
// reference is left dangling. An orphan draft has nothing to rewire and is
// simply deleted.
func (w *Workflow) DiscardDraft(e Entity) error {
	st := e.state()
	if st.IsLive {
		return ErrNotDraft
	}

	return w.db.Transaction(func(tx *gorm.DB) error {
		if st.LiveID != nil {
			live := e.NewBlank()
			if err := tx.First(live, *st.LiveID).Error; err != nil {
				return err
			}
			if _, err := RewriteReferences(tx, w.reg, e, live); err != nil {
				return err
			}
		}
		return deleteEntity(tx, e)
	})
}

// Publish makes a draft's data authoritative. An orphan draft is promoted in
// place, keeping its id, so existing references need no rewiring. A draft of
// an existing live row is copied onto it field for field, references to the
// draft are rewired onto the live row, and the draft is deleted. Returns the
// authoritative live entity.
//
// With validate set, the CanPublish hook runs first; its error is wrapped in
// ErrNotPublishable and nothing is changed.
func (w *Workflow) Publish(e Entity, validate bool) (Entity, error) {
	st := e.state()
	if st.IsLive {
		return nil, ErrNotDraft
	}
	if validate {
		if err := e.CanPublish(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotPublishable, err)
		}
	}

	now := time.Now()

	if st.LiveID == nil {
		err := w.db.Transaction(func(tx *gorm.DB) error {
			st.IsLive = true
			st.PublishedAt = &now
			return tx.Save(e).Error
		})
		if err != nil {
			return nil, err
		}
		return e, nil
	}

	var live Entity
	err := w.db.Transaction(func(tx *gorm.DB) error {
		l := e.NewBlank()
		if err := tx.First(l, *st.LiveID).Error; err != nil {
			return err
		}
		if err := l.CopyFieldsFrom(e); err != nil {
			return err
		}
		l.state().PublishedAt = &now
		if err := tx.Save(l).Error; err != nil {
			return err
		}
		if err := l.CopyRelations(tx, e); err != nil {
			return err
		}
		if _, err := RewriteReferences(tx, w.reg, e, l); err != nil {
			return err
		}
		if err := deleteEntity(tx, e); err != nil {
			return err
		}
		live = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return live, nil
}

// RequestDeletion opens the two-phase deletion protocol on the live entity.
// Invoked on a draft it delegates to the live counterpart. A pending draft is
// deleted; a deletion request and a draft cannot coexist. Returns the live
// entity.
func (w *Workflow) RequestDeletion(e Entity) (Entity, error) {
	st := e.state()
	if !st.IsLive {
		if st.LiveID == nil {
			return nil, ErrNotPublished
		}
		live, err := w.Live(e)
		if err != nil {
			return nil, err
		}
		return w.RequestDeletion(live)
	}

	err := w.db.Transaction(func(tx *gorm.DB) error {
		draft, err := w.draftTx(tx, e)
		if err != nil {
			return err
		}
		if err := tx.Model(e).Update("deletion_requested", true).Error; err != nil {
			return err
		}
		st.DeletionRequested = true
		if draft != nil {
			return deleteEntity(tx, draft)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// DiscardRequestedDeletion cancels a pending deletion request.
func (w *Workflow) DiscardRequestedDeletion(e Entity) error {
	st := e.state()
	if !st.IsLive {
		return ErrNotLive
	}
	return w.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(e).Update("deletion_requested", false).Error; err != nil {
			return err
		}
		st.DeletionRequested = false
		return nil
	})
}

// PublishDeletion confirms a pending deletion request and removes the live
// entity permanently. The in-memory id is zeroed afterwards as a marker that
// the value no longer represents a persisted row.
func (w *Workflow) PublishDeletion(e Entity) error {
	if !e.state().HasPendingDeletionRequest() {
		return ErrNoDeletionRequest
	}
	err := w.db.Transaction(func(tx *gorm.DB) error {
		return deleteEntity(tx, e)
	})
	if err != nil {
		return err
	}
	e.SetPrimaryID(0)
	return nil
}

// deleteEntity removes the row for good, along with its owned association
// rows. Soft deletion would keep the unique live link occupied and block any
// future draft.
func deleteEntity(tx *gorm.DB, e Entity) error {
	return tx.Select(clause.Associations).Unscoped().Delete(e).Error
}
