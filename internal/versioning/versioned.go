// Package versioning implements the draft/live workflow for content records.
// A versioned entity exists either as the published "live" row or as an
// editable draft row linked to the live row it will replace on publish.
package versioning

import (
	"time"

	"gorm.io/gorm"
)

// Versioned 为可版本化模型提供嵌入字段：发布状态、草稿到 live 的链接、
// 发布时间与删除申请标记。
type Versioned struct {
	IsLive            bool       `gorm:"not null;default:false;index"`
	LiveID            *uint      `gorm:"uniqueIndex;default:null"`
	PublishedAt       *time.Time `gorm:"default:null"`
	DeletionRequested bool       `gorm:"not null;default:false"`
}

// state satisfies Entity through struct embedding.
func (v *Versioned) state() *Versioned { return v }

// IsDraft reports whether this row is an editable draft.
func (v *Versioned) IsDraft() bool { return !v.IsLive }

// IsPublished reports whether a live version of this entity exists: either the
// row itself is live, or it is a draft linked to a live row.
func (v *Versioned) IsPublished() bool {
	if v.IsLive {
		return true
	}
	return v.LiveID != nil
}

// HasPendingDeletionRequest reports whether this row is live and flagged for
// the two-phase deletion protocol.
func (v *Versioned) HasPendingDeletionRequest() bool {
	return v.IsLive && v.DeletionRequested
}

// Validate enforces the structural invariants of the draft/live link. Models
// are expected to call it from their BeforeSave hook so that no transition can
// persist an invalid combination.
func (v *Versioned) Validate() error {
	if v.IsLive && v.LiveID != nil {
		return ErrLiveWithLink
	}
	if !v.IsLive && v.DeletionRequested {
		return ErrDraftWithDeletionRequest
	}
	return nil
}

// Actor is the authorization subject for workflow actions. Publishing-class
// actions are gated on CanPublishContent; the predicate is pluggable rather
// than tied to a fixed superuser rule.
type Actor interface {
	CanPublishContent() bool
}

// Entity is implemented by concrete versioned models. The state method is
// provided by embedding Versioned; everything else is model-specific.
//
// CopyFieldsFrom must copy domain data only, never identity or versioning
// fields. CopyRelations, CanPublish and UserCanPublish are the extension
// hooks: CopyRelations duplicates owned related data after a field copy,
// CanPublish may reject a draft with a validation error, and UserCanPublish
// adds per-entity publish permissions on top of the actor predicate.
type Entity interface {
	state() *Versioned

	// Kind identifies the entity type in the relation registry.
	Kind() string
	PrimaryID() uint
	SetPrimaryID(id uint)
	// NewBlank returns a fresh zero value of the same concrete type.
	NewBlank() Entity

	CopyFieldsFrom(old Entity) error
	CopyRelations(tx *gorm.DB, old Entity) error
	CanPublish() error
	UserCanPublish(actor Actor) bool
}
