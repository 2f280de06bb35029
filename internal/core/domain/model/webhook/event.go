// Package webhook contains the durable record of inbound provider events.
//
// Providers deliver events at least once, possibly duplicated and out of
// order. Every inbound event is recorded here, keyed by the provider's event
// id, BEFORE any side effect is applied; replays of an already processed id
// become no-ops, and failures keep the payload around for internal
// redelivery.
package webhook

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/pkg/errs"
)

// ErrEventIsNotConstructed is returned when an Event was not created through
// a factory function.
var ErrEventIsNotConstructed = errors.New("webhook Event must be created via NewEvent constructor")

// EventStatus tracks the processing state of an inbound provider event.
type EventStatus int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown EventStatus = iota

	// StatusPending means the event is recorded but not yet applied.
	StatusPending

	// StatusProcessed means the event was applied (or acknowledged as a no-op).
	StatusProcessed

	// StatusFailed means applying the event errored; eligible for replay.
	StatusFailed
)

func getStatusStrings() map[EventStatus]string {
	return map[EventStatus]string{
		StatusUnknown:   "UNKNOWN",
		StatusPending:   "PENDING",
		StatusProcessed: "PROCESSED",
		StatusFailed:    "FAILED",
	}
}

// StatusFromString parses the API representation of a status (e.g. "FAILED").
// Returns an error for unknown values.
func StatusFromString(s string) (EventStatus, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("webhook event status",
		fmt.Errorf("%q is not a valid webhook event status", s))
}

// Validate checks if the status is a defined, non-Unknown value.
func (s EventStatus) Validate() error {
	if s != StatusPending && s != StatusProcessed && s != StatusFailed {
		return errs.NewValueIsInvalidErrorWithCause("webhook event status",
			fmt.Errorf("%d is not a valid webhook event status", s))
	}
	return nil
}

// String returns the API name of the status, e.g. "PROCESSED".
func (s EventStatus) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Event is the durable, deduplicated record of one inbound provider event.
// The id is the provider's event id, which is what makes replay detection
// possible across redeliveries.
type Event struct {
	// id is the provider-assigned event id, e.g. "evt_1N…"
	id string

	// eventName is the provider event type, e.g. "payment_intent.succeeded"
	eventName string

	status EventStatus

	// payload is the raw event envelope as delivered
	payload string

	// lastError holds the most recent processing failure, if any
	lastError string

	receivedAt time.Time

	isConstructed bool
}

// NewEvent records a freshly received provider event in Pending state.
func NewEvent(id, eventName, payload string) (*Event, error) {
	if id == "" {
		return nil, errs.NewValueIsRequiredError("webhook event id")
	}
	if eventName == "" {
		return nil, errs.NewValueIsRequiredError("webhook event name")
	}

	return &Event{
		id:            id,
		eventName:     eventName,
		status:        StatusPending,
		payload:       payload,
		receivedAt:    time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreEvent reconstructs a webhook event from persistence.
func RestoreEvent(
	id string,
	eventName string,
	status EventStatus,
	payload string,
	lastError string,
	receivedAt time.Time,
) (*Event, error) {
	if id == "" {
		return nil, errs.NewValueIsRequiredError("webhook event id")
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &Event{
		id:            id,
		eventName:     eventName,
		status:        status,
		payload:       payload,
		lastError:     lastError,
		receivedAt:    receivedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the event was created through a factory function.
func (e *Event) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEventIsNotConstructed
	}
	return nil
}

// ID returns the provider-assigned event id.
func (e *Event) ID() string {
	return e.id
}

// EventName returns the provider event type.
func (e *Event) EventName() string {
	return e.eventName
}

// Status returns the processing status.
func (e *Event) Status() EventStatus {
	return e.status
}

// Payload returns the raw event envelope.
func (e *Event) Payload() string {
	return e.payload
}

// LastError returns the most recent processing failure message, if any.
func (e *Event) LastError() string {
	return e.lastError
}

// ReceivedAt returns when the event was first recorded.
func (e *Event) ReceivedAt() time.Time {
	return e.receivedAt
}

// IsProcessed reports whether the event was already applied.
func (e *Event) IsProcessed() bool {
	return e.status == StatusProcessed
}

// MarkProcessed records successful application and clears any prior error.
func (e *Event) MarkProcessed() {
	e.status = StatusProcessed
	e.lastError = ""
}

// MarkFailed records a processing failure for later replay.
func (e *Event) MarkFailed(err error) {
	e.status = StatusFailed
	if err != nil {
		e.lastError = err.Error()
	}
}
