package versioning

// Action names form the contract with the workflow surface; they double as
// endpoint suffixes in the admin API.
const (
	ActionCreateDraft              = "create_draft"
	ActionDiscardDraft             = "discard_draft"
	ActionPublish                  = "publish"
	ActionRequestDeletion          = "request_deletion"
	ActionDiscardRequestedDeletion = "discard_requested_deletion"
	ActionPublishDeletion          = "publish_deletion"
)

// Action carries per-action metadata for rendering workflow controls.
type Action struct {
	Authorized bool `json:"authorized"`
}

// AvailableActions derives the workflow actions currently offered for the
// entity, with authorization computed for the given actor. Pure read: no
// mutation, one pending-changes query.
//
// Publishing-class actions (publish, publish_deletion) are authorized only
// for an actor passing both the elevated-privilege predicate and the entity's
// own UserCanPublish hook. The rest only require a known actor. An orphan
// draft is never offered discard_draft; discarding it would be an outright
// delete, which belongs to ordinary deletion, not this workflow. While a
// deletion request is open, create_draft is withheld until the request is
// discarded, even though the transition itself would cancel the request.
func (w *Workflow) AvailableActions(e Entity, actor Actor) (map[string]Action, error) {
	pending, err := w.HasPendingChanges(e)
	if err != nil {
		return nil, err
	}

	st := e.state()
	canPublish := actor != nil && actor.CanPublishContent() && e.UserCanPublish(actor)

	actions := make(map[string]Action)
	if st.DeletionRequested {
		actions[ActionDiscardRequestedDeletion] = Action{Authorized: actor != nil}
		actions[ActionPublishDeletion] = Action{Authorized: canPublish}
	}
	if st.IsDraft() && pending {
		actions[ActionPublish] = Action{Authorized: canPublish}
	}
	if st.IsDraft() && pending && st.IsPublished() {
		actions[ActionDiscardDraft] = Action{Authorized: actor != nil}
	}
	if st.IsLive && !pending && !st.DeletionRequested {
		actions[ActionCreateDraft] = Action{Authorized: actor != nil}
	}
	if st.IsLive && !st.DeletionRequested {
		actions[ActionRequestDeletion] = Action{Authorized: actor != nil}
	}
	return actions, nil
}
