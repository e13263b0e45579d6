package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ShareTicket caps how many GUEST attendees a purchaser may register
// against one reservation. Expiry is independent of check-in state.
type ShareTicket struct {
	bun.BaseModel `bun:"table:share_tickets"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	ReservationID  int64     `bun:"reservation_id,notnull" json:"reservation_id"`
	SubmittedCount int       `bun:"submitted_count" json:"submitted_count"`
	TotalAllowed   int       `bun:"total_allowed,notnull" json:"total_allowed"`
	ExpiredAt      time.Time `bun:"expired_at,notnull" json:"expired_at"`
	CreatedAt      time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
