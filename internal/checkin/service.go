package checkin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ms-checkin/internal/logger"
	"ms-checkin/internal/models"
	"ms-checkin/internal/qr"
)

type CheckDBLayer interface {
	GetTicketByID(ctx context.Context, id int64) (*models.Ticket, error)
	GetTicketByNo(ctx context.Context, ticketNo string) (*models.Ticket, error)
	GetTicketByAttendee(ctx context.Context, attendeeID int64) (*models.Ticket, error)
	GetTicketByManualCode(ctx context.Context, code string) (*models.Ticket, error)
	GetAttendeeByID(ctx context.Context, id int64) (*models.Attendee, error)
	GetEventByID(ctx context.Context, id int64) (*models.Event, error)
	AppendCheckLog(ctx context.Context, entry *models.QrCheckLog) error
	FindLatestLog(ctx context.Context, ticketID int64, status models.QrCheckStatusCode) (*models.QrCheckLog, error)
	SetAttendeeCheckedIn(ctx context.Context, attendeeID int64, checkedIn bool) error
}

// ScanLock serializes the read-check-append sequence per ticket. Two
// concurrent scans of the same ticket would otherwise both observe
// "no prior ENTRY" and both append one.
type ScanLock interface {
	LockTicket(ctx context.Context, ticketID int64) (bool, error)
	UnlockTicket(ctx context.Context, ticketID int64) error
}

type ScanPublisher interface {
	PublishScan(event models.ScanEvent) error
}

type ScanFeed interface {
	Publish(event models.ScanEvent)
}

type CheckInRequest struct {
	AttendeeID int64               `json:"attendee_id"`
	CodeValue  string              `json:"code_value"`
	CodeType   models.CodeType     `json:"code_type"`
	ActionCode models.QrActionCode `json:"qr_action_code"`
}

type CheckInResult struct {
	Message     string    `json:"message"`
	CheckInTime time.Time `json:"check_in_time"`
}

type CheckOutRequest struct {
	CodeValue        string          `json:"code_value"`
	CodeType         models.CodeType `json:"code_type"`
	RequireUserMatch bool            `json:"require_user_match"`
	CallerAttendeeID int64           `json:"caller_attendee_id"`
}

type CheckOutResult struct {
	Message      string    `json:"message"`
	CheckOutTime time.Time `json:"check_out_time"`
}

type AdminForceCheckRequest struct {
	TicketNo   string                   `json:"ticket_no"`
	StatusCode models.QrCheckStatusCode `json:"qr_check_status_code"`
	AdminID    string                   `json:"admin_id"`
}

// ScanContext is what a link resolution returns to the scanner UI.
type ScanContext struct {
	Identity  models.TicketIdentity `json:"identity"`
	Ticket    *models.Ticket        `json:"ticket"`
	Attendee  *models.Attendee      `json:"attendee"`
	CheckedIn bool                  `json:"checked_in"`
}

type Service struct {
	DB        CheckDBLayer
	Validator *qr.Validator
	Lock      ScanLock
	Kafka     ScanPublisher
	Feed      ScanFeed
	Logger    *logger.Logger
}

func NewService(db CheckDBLayer, validator *qr.Validator, lock ScanLock, kafka ScanPublisher, feed ScanFeed, log *logger.Logger) *Service {
	return &Service{DB: db, Validator: validator, Lock: lock, Kafka: kafka, Feed: feed, Logger: log}
}

// CheckIn runs the normal entry flow: validate the code, resolve the
// ticket, verify ownership and the re-entry policy, then append an
// ENTRY log and flip the attendee's checked-in flag.
func (s *Service) CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResult, error) {
	attendee, err := s.DB.GetAttendeeByID(ctx, req.AttendeeID)
	if err != nil {
		return nil, attendeeNotFound(err)
	}

	ticket, err := s.resolveTicket(ctx, req.CodeValue, req.CodeType)
	if err != nil {
		return nil, err
	}
	if ticket.ReservationID != attendee.ReservationID {
		return nil, qr.NewBadRequest(qr.KindIdentityMismatch, "티켓과 예약 정보가 일치하지 않습니다.", nil)
	}

	event, err := s.DB.GetEventByID(ctx, ticket.EventID)
	if err != nil {
		return nil, qr.NewBadRequest(qr.KindTicketNotFound, "행사 정보를 찾을 수 없습니다.", err)
	}

	if err := s.withTicketLock(ctx, ticket.ID, func() error {
		inside, hasEntry, err := s.checkState(ctx, ticket.ID)
		if err != nil {
			return err
		}
		if inside {
			return qr.NewBadRequest(qr.KindDuplicateCheckIn, "이미 입장 처리된 티켓입니다.", nil)
		}
		if hasEntry && !event.ReentryAllowed {
			return qr.NewBadRequest(qr.KindDuplicateCheckIn, "재입장이 허용되지 않는 행사입니다.", nil)
		}

		entry := &models.QrCheckLog{
			TicketID:   ticket.ID,
			StatusCode: models.StatusEntry,
			ActionCode: req.ActionCode,
			CreatedAt:  time.Now(),
		}
		if err := s.DB.AppendCheckLog(ctx, entry); err != nil {
			return fmt.Errorf("append entry log: %w", err)
		}
		return s.DB.SetAttendeeCheckedIn(ctx, attendee.ID, true)
	}); err != nil {
		return nil, err
	}

	now := time.Now()
	s.publish(models.ScanEvent{
		TicketID:   ticket.ID,
		AttendeeID: attendee.ID,
		EventID:    ticket.EventID,
		StatusCode: models.StatusEntry,
		ActionCode: req.ActionCode,
		OccurredAt: now,
	})
	s.logScan("CHECK_IN", ticket.TicketNo, "입장 처리 완료")

	return &CheckInResult{Message: "입장 처리가 완료되었습니다.", CheckInTime: now}, nil
}

// CheckOut appends an EXIT log. You cannot check out before checking
// in; self-service check-out additionally requires the caller to own
// the ticket.
func (s *Service) CheckOut(ctx context.Context, req CheckOutRequest) (*CheckOutResult, error) {
	ticket, err := s.resolveTicket(ctx, req.CodeValue, req.CodeType)
	if err != nil {
		return nil, err
	}
	if req.RequireUserMatch && ticket.AttendeeID != req.CallerAttendeeID {
		return nil, qr.NewBadRequest(qr.KindIdentityMismatch, "본인의 티켓만 퇴장 처리할 수 있습니다.", nil)
	}

	if err := s.withTicketLock(ctx, ticket.ID, func() error {
		inside, _, err := s.checkState(ctx, ticket.ID)
		if err != nil {
			return err
		}
		if !inside {
			return qr.NewBadRequest(qr.KindCheckOutBeforeCheckIn, "입장 기록이 없어 퇴장 처리할 수 없습니다.", nil)
		}

		exit := &models.QrCheckLog{
			TicketID:   ticket.ID,
			StatusCode: models.StatusExit,
			ActionCode: models.ActionCheckedOut,
			CreatedAt:  time.Now(),
		}
		if err := s.DB.AppendCheckLog(ctx, exit); err != nil {
			return fmt.Errorf("append exit log: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	now := time.Now()
	s.publish(models.ScanEvent{
		TicketID:   ticket.ID,
		AttendeeID: ticket.AttendeeID,
		EventID:    ticket.EventID,
		StatusCode: models.StatusExit,
		ActionCode: models.ActionCheckedOut,
		OccurredAt: now,
	})
	s.logScan("CHECK_OUT", ticket.TicketNo, "퇴장 처리 완료")

	return &CheckOutResult{Message: "퇴장 처리가 완료되었습니다.", CheckOutTime: now}, nil
}

// AdminForceCheck is the staff escape hatch (lost phone, broken code):
// the ticket is looked up by number and the requested status is logged
// with no duplicate or ordering checks. The acting admin's identity is
// stamped on the log row.
func (s *Service) AdminForceCheck(ctx context.Context, req AdminForceCheckRequest) error {
	ticket, err := s.DB.GetTicketByNo(ctx, req.TicketNo)
	if err != nil {
		return ticketNotFound(err)
	}

	action := models.ActionForceCheckedIn
	if req.StatusCode == models.StatusExit {
		action = models.ActionForceCheckedOut
	}

	entry := &models.QrCheckLog{
		TicketID:   ticket.ID,
		StatusCode: req.StatusCode,
		ActionCode: action,
		AdminID:    req.AdminID,
		CreatedAt:  time.Now(),
	}
	if err := s.DB.AppendCheckLog(ctx, entry); err != nil {
		return fmt.Errorf("append force-check log: %w", err)
	}
	if err := s.DB.SetAttendeeCheckedIn(ctx, ticket.AttendeeID, req.StatusCode == models.StatusEntry); err != nil {
		return err
	}

	s.publish(models.ScanEvent{
		TicketID:   ticket.ID,
		AttendeeID: ticket.AttendeeID,
		EventID:    ticket.EventID,
		StatusCode: req.StatusCode,
		ActionCode: action,
		OccurredAt: entry.CreatedAt,
	})
	s.logScan("FORCE_CHECK", ticket.TicketNo, fmt.Sprintf("관리자(%s) 강제 %s 처리", req.AdminID, req.StatusCode))
	return nil
}

// Resolve decodes a link token (and optionally validates a typed
// manual code) into the full scan context for the scanner UI.
func (s *Service) Resolve(ctx context.Context, linkToken, manualCode string) (*ScanContext, error) {
	identity, err := s.Validator.DecodeToIdentity(linkToken)
	if err != nil {
		return nil, err
	}
	if manualCode != "" {
		if err := s.Validator.ValidateManualCode(manualCode); err != nil {
			return nil, err
		}
	}

	ticket, err := s.ticketFromIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}
	attendee, err := s.DB.GetAttendeeByID(ctx, ticket.AttendeeID)
	if err != nil {
		return nil, attendeeNotFound(err)
	}
	inside, _, err := s.checkState(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}

	return &ScanContext{Identity: identity, Ticket: ticket, Attendee: attendee, CheckedIn: inside}, nil
}

func (s *Service) resolveTicket(ctx context.Context, codeValue string, codeType models.CodeType) (*models.Ticket, error) {
	switch codeType {
	case models.CodeTypeManual:
		if err := s.Validator.ValidateManualCode(codeValue); err != nil {
			return nil, err
		}
		ticket, err := s.DB.GetTicketByManualCode(ctx, codeValue)
		if err != nil {
			return nil, ticketNotFound(err)
		}
		return ticket, nil
	default:
		identity, err := s.Validator.DecodeToIdentity(codeValue)
		if err != nil {
			return nil, err
		}
		return s.ticketFromIdentity(ctx, identity)
	}
}

func (s *Service) ticketFromIdentity(ctx context.Context, identity models.TicketIdentity) (*models.Ticket, error) {
	if identity.TicketID != 0 {
		ticket, err := s.DB.GetTicketByID(ctx, identity.TicketID)
		if err != nil {
			return nil, ticketNotFound(err)
		}
		return ticket, nil
	}
	ticket, err := s.DB.GetTicketByAttendee(ctx, identity.AttendeeID)
	if err != nil {
		return nil, ticketNotFound(err)
	}
	return ticket, nil
}

// checkState derives the ticket's current state from the log tail:
// inside when the latest ENTRY is strictly newer than the latest EXIT.
// Force-check rows participate like normal ones.
func (s *Service) checkState(ctx context.Context, ticketID int64) (inside bool, hasEntry bool, err error) {
	entry, err := s.DB.FindLatestLog(ctx, ticketID, models.StatusEntry)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, false, fmt.Errorf("find latest entry log: %w", err)
	}
	if entry == nil {
		return false, false, nil
	}
	exit, err := s.DB.FindLatestLog(ctx, ticketID, models.StatusExit)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, true, fmt.Errorf("find latest exit log: %w", err)
	}
	if exit == nil || exit.CreatedAt.Before(entry.CreatedAt) {
		return true, true, nil
	}
	return false, true, nil
}

func (s *Service) withTicketLock(ctx context.Context, ticketID int64, fn func() error) error {
	ok, err := s.Lock.LockTicket(ctx, ticketID)
	if err != nil {
		return fmt.Errorf("ticket lock: %w", err)
	}
	if !ok {
		return qr.NewBadRequest(qr.KindDuplicateCheckIn, "동일 티켓에 대한 처리가 진행 중입니다. 잠시 후 다시 시도해 주세요.", nil)
	}
	defer func() {
		_ = s.Lock.UnlockTicket(ctx, ticketID)
	}()
	return fn()
}

func (s *Service) publish(event models.ScanEvent) {
	if s.Kafka != nil {
		if err := s.Kafka.PublishScan(event); err != nil {
			s.logError("KAFKA", fmt.Sprintf("scan event publish failed: %v", err))
		}
	}
	if s.Feed != nil {
		s.Feed.Publish(event)
	}
}

func (s *Service) logScan(action, ticketNo, message string) {
	if s.Logger != nil {
		s.Logger.LogScan(action, ticketNo, message)
	}
}

func (s *Service) logError(category, message string) {
	if s.Logger != nil {
		s.Logger.Error(category, message)
	}
}

func ticketNotFound(cause error) error {
	return qr.NewBadRequest(qr.KindTicketNotFound, "티켓 정보를 찾을 수 없습니다.", cause)
}

func attendeeNotFound(cause error) error {
	return qr.NewBadRequest(qr.KindAttendeeNotFound, "참석자 정보를 찾을 수 없습니다.", cause)
}
