// Package auditrepo provides data transfer objects and mapping functions for
// the write-only audit trail. Entries are appended and never read back.
package auditrepo

import (
	"encoding/json"
	"time"

	"marketplace/internal/core/domain/model/audit"

	"github.com/google/uuid"
)

// EntryDTO represents the database structure for persisting audit entries.
type EntryDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ActorID    *uuid.UUID `gorm:"type:uuid"`
	Action     string     `gorm:"index"`
	EntityType string
	EntityID   string     `gorm:"index"`
	Payload    string     `gorm:"type:text"`
	CreatedAt  time.Time
}

// TableName specifies the database table name for audit entries.
func (EntryDTO) TableName() string {
	return "audit_entries"
}

// fromDomain converts an audit entry to its database representation.
// The payload is stored as a JSON document; an empty map collapses to an
// empty string.
func fromDomain(entry *audit.Entry) (EntryDTO, error) {
	payload := ""
	if len(entry.Payload()) > 0 {
		encoded, err := json.Marshal(entry.Payload())
		if err != nil {
			return EntryDTO{}, err
		}
		payload = string(encoded)
	}

	var actorID *uuid.UUID
	if id := entry.ActorID(); id != nil {
		raw := id.Bytes()
		actorID = &raw
	}

	return EntryDTO{
		ID:         entry.ID().Bytes(),
		ActorID:    actorID,
		Action:     entry.Action(),
		EntityType: entry.EntityType(),
		EntityID:   entry.EntityID(),
		Payload:    payload,
		CreatedAt:  entry.CreatedAt(),
	}, nil
}
