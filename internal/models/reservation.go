package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Reservation struct {
	bun.BaseModel `bun:"table:reservations"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	EventID    int64     `bun:"event_id,notnull" json:"event_id"`
	ScheduleID int64     `bun:"schedule_id,notnull" json:"schedule_id"`
	UserID     string    `bun:"user_id,notnull" json:"user_id"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
