package db

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"ms-checkin/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// FindIssuable selects one row per attendee whose event schedule falls
// inside [from, to) and who has not been notified yet, joining
// reservation → schedule → event so the issuer never goes back to the
// database per row.
func (d *DB) FindIssuable(ctx context.Context, from, to time.Time) ([]models.IssuableTicket, error) {
	var rows []models.IssuableTicket
	err := d.Bun.NewSelect().
		TableExpr("attendees AS a").
		ColumnExpr("r.id AS reservation_id").
		ColumnExpr("a.id AS attendee_id").
		ColumnExpr("e.id AS event_id").
		ColumnExpr("t.id AS ticket_id").
		ColumnExpr("a.name AS attendee_name").
		ColumnExpr("a.email AS attendee_email").
		ColumnExpr("e.name AS event_name").
		ColumnExpr("e.reentry_allowed AS reentry_allowed").
		ColumnExpr("s.schedule_date AS schedule_date").
		ColumnExpr("s.start_time AS start_time").
		ColumnExpr("s.end_time AS end_time").
		Join("JOIN reservations AS r ON r.id = a.reservation_id").
		Join("JOIN event_schedules AS s ON s.id = r.schedule_id").
		Join("JOIN events AS e ON e.id = r.event_id").
		Join("JOIN tickets AS t ON t.attendee_id = a.id").
		Where("a.ticket_sent = ?", false).
		Where("s.schedule_date >= ?", from).
		Where("s.schedule_date < ?", to).
		OrderExpr("a.id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkTicketSent flips the idempotence flag; the attendee drops out of
// FindIssuable on the next run.
func (d *DB) MarkTicketSent(ctx context.Context, attendeeID int64) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Attendee)(nil)).
		Set("ticket_sent = ?", true).
		Where("id = ?", attendeeID).
		Exec(ctx)
	return err
}
