package versioning

import (
	"errors"
	"fmt"
)

// ErrStateConflict is the class of every precondition violation: a transition
// was invoked on an entity that is not in the required state. These are caller
// bugs, never silently corrected; handlers can match the whole class with
// errors.Is.
var ErrStateConflict = errors.New("versioning: state conflict")

var (
	ErrNotLive           = fmt.Errorf("%w: entity is not live", ErrStateConflict)
	ErrNotDraft          = fmt.Errorf("%w: entity is not a draft", ErrStateConflict)
	ErrNotPublished      = fmt.Errorf("%w: entity has never been published", ErrStateConflict)
	ErrNoDeletionRequest = fmt.Errorf("%w: no deletion request pending", ErrStateConflict)
)

// ErrNotPublishable wraps the validation error returned by the CanPublish
// hook. Recoverable: the caller presents the message and the draft stays
// untouched.
var ErrNotPublishable = errors.New("versioning: entity cannot be published")

// ErrKindMismatch is returned when an operation receives entities of two
// different concrete types.
var ErrKindMismatch = errors.New("versioning: entities are of different kinds")

var (
	ErrLiveWithLink             = errors.New("versioning: a live record must not carry a live link")
	ErrDraftWithDeletionRequest = errors.New("versioning: a draft must not carry a deletion request")
)
