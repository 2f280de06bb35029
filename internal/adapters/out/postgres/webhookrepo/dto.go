// Package webhookrepo provides data transfer objects and mapping functions for
// the durable webhook event record. The provider's event id is the primary key,
// which is what makes replay detection possible across redeliveries.
package webhookrepo

import (
	"time"

	"marketplace/internal/core/domain/model/webhook"
)

// EventDTO represents the database structure for persisting inbound provider events.
type EventDTO struct {
	ID         string `gorm:"primaryKey"`
	EventName  string
	Status     string `gorm:"index"`
	Payload    string `gorm:"type:text"`
	LastError  string
	ReceivedAt time.Time
}

// TableName specifies the database table name for webhook events.
func (EventDTO) TableName() string {
	return "webhook_events"
}

// fromDomain converts a webhook event to its database representation.
func fromDomain(event *webhook.Event) EventDTO {
	return EventDTO{
		ID:         event.ID(),
		EventName:  event.EventName(),
		Status:     event.Status().String(),
		Payload:    event.Payload(),
		LastError:  event.LastError(),
		ReceivedAt: event.ReceivedAt(),
	}
}

// toDomain converts a database DTO to a webhook event.
func toDomain(dto EventDTO) (*webhook.Event, error) {
	status, err := webhook.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return webhook.RestoreEvent(dto.ID, dto.EventName, status, dto.Payload, dto.LastError, dto.ReceivedAt)
}
