package models

import "time"

// TicketIdentity is the 4-tuple encoded into a QR link token.
// Zero means "not present"; an all-zero identity is never valid.
type TicketIdentity struct {
	ReservationID int64 `json:"reservation_id"`
	AttendeeID    int64 `json:"attendee_id"`
	EventID       int64 `json:"event_id"`
	TicketID      int64 `json:"ticket_id"`
}

// IsZero reports whether every component carries the null sentinel.
func (t TicketIdentity) IsZero() bool {
	return t.ReservationID == 0 && t.AttendeeID == 0 && t.EventID == 0 && t.TicketID == 0
}

// ScanEvent is published to Kafka and the live SSE feed after every
// successful check action.
type ScanEvent struct {
	TicketID   int64             `json:"ticket_id"`
	AttendeeID int64             `json:"attendee_id"`
	EventID    int64             `json:"event_id"`
	StatusCode QrCheckStatusCode `json:"status_code"`
	ActionCode QrActionCode      `json:"action_code"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// IssuableTicket is one row of the batch issuance catalog query:
// reservation → attendee → ticket → schedule → event, for events
// inside the trigger window whose attendee has not been notified yet.
type IssuableTicket struct {
	ReservationID  int64     `json:"reservation_id"`
	AttendeeID     int64     `json:"attendee_id"`
	EventID        int64     `json:"event_id"`
	TicketID       int64     `json:"ticket_id"`
	AttendeeName   string    `json:"attendee_name"`
	AttendeeEmail  string    `json:"attendee_email"`
	EventName      string    `json:"event_name"`
	ReentryAllowed bool      `json:"reentry_allowed"`
	ScheduleDate   time.Time `json:"schedule_date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
}
