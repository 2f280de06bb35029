package order

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// ErrTimelineEventIsNotConstructed is returned when a TimelineEvent was not
// created through a factory function.
var ErrTimelineEventIsNotConstructed = errors.New("TimelineEvent must be created via NewTimelineEvent constructor")

// TimelineEvent is one append-only entry of an order's status history.
// One event is recorded per applied transition, including the initial Pending
// entry. Events are never updated or deleted.
type TimelineEvent struct {
	id        kernel.UUID
	orderID   kernel.UUID
	status    Status
	note      string
	actorID   *kernel.UUID
	createdAt time.Time

	isConstructed bool
}

// NewTimelineEvent creates a timeline entry for orderID entering status.
// An empty note falls back to the default note for the status, if any.
// actorID is nil for system-driven transitions (e.g. provider webhooks).
func NewTimelineEvent(orderID kernel.UUID, status Status, note string, actorID *kernel.UUID) (*TimelineEvent, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if actorID != nil {
		if err := actorID.Validate(); err != nil {
			return nil, err
		}
	}
	if note == "" {
		note = DefaultTimelineNote(status)
	}

	return &TimelineEvent{
		id:            kernel.NewUUID(),
		orderID:       orderID,
		status:        status,
		note:          note,
		actorID:       actorID,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreTimelineEvent reconstructs a timeline entry from persistence.
func RestoreTimelineEvent(
	id kernel.UUID,
	orderID kernel.UUID,
	status Status,
	note string,
	actorID *kernel.UUID,
	createdAt time.Time,
) (*TimelineEvent, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &TimelineEvent{
		id:            id,
		orderID:       orderID,
		status:        status,
		note:          note,
		actorID:       actorID,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// DefaultTimelineNote returns the canonical note for statuses that have one.
func DefaultTimelineNote(status Status) string {
	switch status {
	case Pending:
		return "Order created"
	case Completed:
		return "Escrow released to seller"
	case Cancelled, Refunded:
		return "Escrow refunded to buyer"
	default:
		return ""
	}
}

// Validate ensures the event was created through a factory function.
func (e *TimelineEvent) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrTimelineEventIsNotConstructed
	}
	return nil
}

// ID returns the event's unique identifier.
func (e *TimelineEvent) ID() kernel.UUID {
	return e.id
}

// OrderID returns the order the event belongs to.
func (e *TimelineEvent) OrderID() kernel.UUID {
	return e.orderID
}

// Status returns the status the order entered.
func (e *TimelineEvent) Status() Status {
	return e.status
}

// Note returns the human-readable note attached to the transition.
func (e *TimelineEvent) Note() string {
	return e.note
}

// ActorID returns the acting user, or nil for system transitions.
func (e *TimelineEvent) ActorID() *kernel.UUID {
	return e.actorID
}

// CreatedAt returns when the transition was recorded.
func (e *TimelineEvent) CreatedAt() time.Time {
	return e.createdAt
}
