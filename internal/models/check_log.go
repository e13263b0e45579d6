package models

import (
	"time"

	"github.com/uptrace/bun"
)

// QrCheckLog is append-only. The most recent row per (ticket, status code)
// is the source of truth for the ticket's current check state.
type QrCheckLog struct {
	bun.BaseModel `bun:"table:qr_check_logs"`

	ID         int64             `bun:"id,pk,autoincrement" json:"id"`
	TicketID   int64             `bun:"ticket_id,notnull" json:"ticket_id"`
	StatusCode QrCheckStatusCode `bun:"status_code,notnull" json:"status_code"`
	ActionCode QrActionCode      `bun:"action_code,notnull" json:"action_code"`
	AdminID    string            `bun:"admin_id,nullzero" json:"admin_id,omitempty"`
	CreatedAt  time.Time         `bun:"created_at,notnull" json:"created_at"`
}
