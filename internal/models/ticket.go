package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	TicketNo      string    `bun:"ticket_no,unique,notnull" json:"ticket_no"`
	ReservationID int64     `bun:"reservation_id,notnull" json:"reservation_id"`
	AttendeeID    int64     `bun:"attendee_id,notnull" json:"attendee_id"`
	EventID       int64     `bun:"event_id,notnull" json:"event_id"`
	ManualCode    string    `bun:"manual_code,nullzero" json:"manual_code,omitempty"`
	IssuedAt      time.Time `bun:"issued_at,nullzero" json:"issued_at"`
}
