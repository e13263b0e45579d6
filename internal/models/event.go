package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	Name           string    `bun:"name,notnull" json:"name"`
	ReentryAllowed bool      `bun:"reentry_allowed" json:"reentry_allowed"`
	CreatedAt      time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

type EventSchedule struct {
	bun.BaseModel `bun:"table:event_schedules"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	EventID      int64     `bun:"event_id,notnull" json:"event_id"`
	ScheduleDate time.Time `bun:"schedule_date,notnull" json:"schedule_date"`
	StartTime    string    `bun:"start_time,notnull" json:"start_time"` // "HH:MM"
	EndTime      string    `bun:"end_time,notnull" json:"end_time"`
}
