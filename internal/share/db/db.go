package db

import (
	"context"

	"github.com/uptrace/bun"

	"ms-checkin/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) GetShareTicketByID(ctx context.Context, id int64) (*models.ShareTicket, error) {
	var share models.ShareTicket
	err := d.Bun.NewSelect().
		Model(&share).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &share, nil
}

func (d *DB) IncrementSubmitted(ctx context.Context, id int64) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.ShareTicket)(nil)).
		Set("submitted_count = submitted_count + 1").
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (d *DB) CreateAttendee(ctx context.Context, attendee *models.Attendee) error {
	_, err := d.Bun.NewInsert().Model(attendee).Exec(ctx)
	return err
}

func (d *DB) ListGuests(ctx context.Context, reservationID int64) ([]models.Attendee, error) {
	var guests []models.Attendee
	err := d.Bun.NewSelect().
		Model(&guests).
		Where("reservation_id = ?", reservationID).
		Where("attendee_type = ?", models.AttendeeGuest).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return guests, nil
}
