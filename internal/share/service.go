package share

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ms-checkin/internal/logger"
	"ms-checkin/internal/models"
)

var (
	ErrShareTicketNotFound = errors.New("공유 티켓을 찾을 수 없습니다")
	ErrShareTicketExpired  = errors.New("공유 티켓이 만료되었습니다")
	ErrGuestLimitReached   = errors.New("게스트 등록 가능 인원을 초과했습니다")
)

type ShareDBLayer interface {
	GetShareTicketByID(ctx context.Context, id int64) (*models.ShareTicket, error)
	IncrementSubmitted(ctx context.Context, id int64) error
	CreateAttendee(ctx context.Context, attendee *models.Attendee) error
	ListGuests(ctx context.Context, reservationID int64) ([]models.Attendee, error)
}

type GuestForm struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Service registers GUEST attendees against a share ticket. The
// PRIMARY attendee is created with the reservation itself; this flow
// only handles invited guests, capped by the share ticket.
type Service struct {
	DB     ShareDBLayer
	Logger *logger.Logger
}

func NewService(db ShareDBLayer, log *logger.Logger) *Service {
	return &Service{DB: db, Logger: log}
}

func (s *Service) RegisterGuest(ctx context.Context, shareTicketID int64, form GuestForm) (*models.Attendee, error) {
	share, err := s.DB.GetShareTicketByID(ctx, shareTicketID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShareTicketNotFound, err)
	}
	if time.Now().After(share.ExpiredAt) {
		return nil, ErrShareTicketExpired
	}
	if share.SubmittedCount >= share.TotalAllowed {
		return nil, ErrGuestLimitReached
	}

	attendee := &models.Attendee{
		ReservationID: share.ReservationID,
		AttendeeType:  models.AttendeeGuest,
		Name:          form.Name,
		Email:         form.Email,
		Phone:         form.Phone,
		CreatedAt:     time.Now(),
	}
	if err := s.DB.CreateAttendee(ctx, attendee); err != nil {
		return nil, fmt.Errorf("create guest attendee: %w", err)
	}
	if err := s.DB.IncrementSubmitted(ctx, share.ID); err != nil {
		return nil, fmt.Errorf("increment submitted count: %w", err)
	}

	if s.Logger != nil {
		s.Logger.Info("SHARE", fmt.Sprintf("guest registered for reservation %d (%d/%d)",
			share.ReservationID, share.SubmittedCount+1, share.TotalAllowed))
	}
	return attendee, nil
}

func (s *Service) ListGuests(ctx context.Context, shareTicketID int64) ([]models.Attendee, error) {
	share, err := s.DB.GetShareTicketByID(ctx, shareTicketID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShareTicketNotFound, err)
	}
	return s.DB.ListGuests(ctx, share.ReservationID)
}
