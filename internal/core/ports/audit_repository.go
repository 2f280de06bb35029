package ports

import (
	"context"

	"marketplace/internal/core/domain/model/audit"
)

// AuditRepository defines the write-only persistence contract for the audit
// trail. Entries are consumed by an external audit viewer; this system never
// reads them back.
type AuditRepository interface {
	// Add appends one audit entry.
	Add(ctx context.Context, entry *audit.Entry) error
}
