package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Attendee struct {
	bun.BaseModel `bun:"table:attendees"`

	ID            int64        `bun:"id,pk,autoincrement" json:"id"`
	ReservationID int64        `bun:"reservation_id,notnull" json:"reservation_id"`
	AttendeeType  AttendeeType `bun:"attendee_type,notnull" json:"attendee_type"`
	Name          string       `bun:"name,notnull" json:"name"`
	Email         string       `bun:"email,notnull" json:"email"`
	Phone         string       `bun:"phone,nullzero" json:"phone,omitempty"`
	CheckedIn     bool         `bun:"checked_in" json:"checked_in"`
	TicketSent    bool         `bun:"ticket_sent" json:"ticket_sent"`
	CreatedAt     time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
