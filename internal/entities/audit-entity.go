package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// AuditEntry - строка журнала действий в back-office.
type AuditEntry struct {
	ID        int64
	ActorID   null.String
	ActorName null.String
	ActorRole null.String
	Resource  string
	Action    string
	RecordID  null.String
	Summary   null.String
	CreatedAt time.Time
}
