// Package audit contains the write-only audit trail entry.
//
// Every state-changing operation records one entry with the actor and entity
// identifiers, success or failure. Entries are consumed by an external audit
// viewer and never read back by this system.
package audit

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrEntryIsNotConstructed is returned when an Entry was not created through
// the NewEntry factory function.
var ErrEntryIsNotConstructed = errors.New("audit Entry must be created via NewEntry constructor")

// Entry is one write-only audit record of a state-changing action.
type Entry struct {
	id kernel.UUID

	// actorID is the acting user, nil for system-driven actions
	actorID *kernel.UUID

	// action names the operation, e.g. "order.status.PAID"
	action string

	// entityType and entityID identify the touched entity
	entityType string
	entityID   string

	// payload carries action-specific context for forensic replay
	payload map[string]string

	createdAt time.Time

	isConstructed bool
}

// NewEntry creates an audit record for an action on an entity.
func NewEntry(actorID *kernel.UUID, action, entityType, entityID string, payload map[string]string) (*Entry, error) {
	if action == "" {
		return nil, errs.NewValueIsRequiredError("audit action")
	}
	if entityType == "" || entityID == "" {
		return nil, errs.NewValueIsRequiredError("audit entity reference")
	}
	if actorID != nil {
		if err := actorID.Validate(); err != nil {
			return nil, err
		}
	}

	return &Entry{
		id:            kernel.NewUUID(),
		actorID:       actorID,
		action:        action,
		entityType:    entityType,
		entityID:      entityID,
		payload:       payload,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// Validate ensures the entry was created through NewEntry.
func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

// ID returns the entry's unique identifier.
func (e *Entry) ID() kernel.UUID {
	return e.id
}

// ActorID returns the acting user, or nil for system actions.
func (e *Entry) ActorID() *kernel.UUID {
	return e.actorID
}

// Action returns the operation name.
func (e *Entry) Action() string {
	return e.action
}

// EntityType returns the touched entity's type name.
func (e *Entry) EntityType() string {
	return e.entityType
}

// EntityID returns the touched entity's identifier.
func (e *Entry) EntityID() string {
	return e.entityID
}

// Payload returns the action-specific context, possibly nil.
func (e *Entry) Payload() map[string]string {
	return e.payload
}

// CreatedAt returns when the action was recorded.
func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}
