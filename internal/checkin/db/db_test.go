package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"ms-checkin/internal/checkin/db"
	"ms-checkin/internal/models"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	// Connect to an in-memory SQLite DB for testing
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	// Create required tables
	for _, model := range []interface{}{
		(*models.Event)(nil),
		(*models.Attendee)(nil),
		(*models.Ticket)(nil),
		(*models.QrCheckLog)(nil),
	} {
		_, err = bunDB.NewCreateTable().Model(model).Exec(context.Background())
		if err != nil {
			t.Fatalf("Failed to create table for %T: %v", model, err)
		}
	}

	return &db.DB{Bun: bunDB}, bunDB
}

func seedTicket(t *testing.T, bunDB *bun.DB) models.Ticket {
	attendee := models.Attendee{
		ID:            1,
		ReservationID: 10,
		AttendeeType:  models.AttendeePrimary,
		Name:          "홍길동",
		Email:         "hong@example.com",
	}
	_, err := bunDB.NewInsert().Model(&attendee).Exec(context.Background())
	assert.NoError(t, err)

	ticket := models.Ticket{
		ID:            1,
		TicketNo:      "TK-0001",
		ReservationID: 10,
		AttendeeID:    1,
		EventID:       5,
		ManualCode:    "A2B3-C4D5",
		IssuedAt:      time.Now(),
	}
	_, err = bunDB.NewInsert().Model(&ticket).Exec(context.Background())
	assert.NoError(t, err)
	return ticket
}

func TestTicketLookups(t *testing.T) {
	checkDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	seeded := seedTicket(t, bunDB)

	// By ID
	ticket, err := checkDB.GetTicketByID(context.Background(), seeded.ID)
	assert.NoError(t, err)
	assert.Equal(t, "TK-0001", ticket.TicketNo)

	// By ticket number
	ticket, err = checkDB.GetTicketByNo(context.Background(), "TK-0001")
	assert.NoError(t, err)
	assert.Equal(t, seeded.ID, ticket.ID)

	// By attendee
	ticket, err = checkDB.GetTicketByAttendee(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, seeded.ID, ticket.ID)

	// By manual code (exact match only)
	ticket, err = checkDB.GetTicketByManualCode(context.Background(), "A2B3-C4D5")
	assert.NoError(t, err)
	assert.Equal(t, seeded.ID, ticket.ID)

	_, err = checkDB.GetTicketByManualCode(context.Background(), "ZZZZ-2222")
	assert.Error(t, err)

	// Non-existent ticket
	_, err = checkDB.GetTicketByID(context.Background(), 999)
	assert.Error(t, err)
}

func TestFindLatestLogOrdering(t *testing.T) {
	checkDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	ticket := seedTicket(t, bunDB)

	base := time.Now().Add(-3 * time.Hour).Truncate(time.Second)
	logs := []models.QrCheckLog{
		{TicketID: ticket.ID, StatusCode: models.StatusEntry, ActionCode: models.ActionCheckedIn, CreatedAt: base},
		{TicketID: ticket.ID, StatusCode: models.StatusExit, ActionCode: models.ActionCheckedOut, CreatedAt: base.Add(time.Hour)},
		{TicketID: ticket.ID, StatusCode: models.StatusEntry, ActionCode: models.ActionCheckedIn, CreatedAt: base.Add(2 * time.Hour)},
	}
	for i := range logs {
		err := checkDB.AppendCheckLog(context.Background(), &logs[i])
		assert.NoError(t, err)
	}

	// Latest ENTRY must be the most recent one, not the first
	entry, err := checkDB.FindLatestLog(context.Background(), ticket.ID, models.StatusEntry)
	assert.NoError(t, err)
	assert.NotNil(t, entry)
	assert.Equal(t, base.Add(2*time.Hour).Unix(), entry.CreatedAt.Unix())

	exit, err := checkDB.FindLatestLog(context.Background(), ticket.ID, models.StatusExit)
	assert.NoError(t, err)
	assert.NotNil(t, exit)
	assert.True(t, exit.CreatedAt.Before(entry.CreatedAt))
}

func TestFindLatestLogEmpty(t *testing.T) {
	checkDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	ticket := seedTicket(t, bunDB)

	// No logs yet: nil result, no error
	entry, err := checkDB.FindLatestLog(context.Background(), ticket.ID, models.StatusEntry)
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

func TestSetAttendeeCheckedIn(t *testing.T) {
	checkDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	seedTicket(t, bunDB)

	err := checkDB.SetAttendeeCheckedIn(context.Background(), 1, true)
	assert.NoError(t, err)

	attendee, err := checkDB.GetAttendeeByID(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, attendee.CheckedIn)

	err = checkDB.SetAttendeeCheckedIn(context.Background(), 1, false)
	assert.NoError(t, err)

	attendee, err = checkDB.GetAttendeeByID(context.Background(), 1)
	assert.NoError(t, err)
	assert.False(t, attendee.CheckedIn)
}
