package batch

import (
	"context"
	"fmt"
	"time"

	"ms-checkin/internal/config"
	"ms-checkin/internal/logger"
	"ms-checkin/internal/models"
	"ms-checkin/internal/notify"
	"ms-checkin/internal/qr"
)

const jobName = "ticket-issue"

type CatalogStore interface {
	FindIssuable(ctx context.Context, from, to time.Time) ([]models.IssuableTicket, error)
	MarkTicketSent(ctx context.Context, attendeeID int64) error
}

type NoticeSender interface {
	Send(ctx context.Context, channel notify.ChannelType, notice notify.TicketNotice) error
}

// Issuer runs the daily ticket issuance: encode a link token per
// attendee of every event inside the trigger window, dispatch it, and
// mark the attendee notified. A failed row never aborts the batch.
type Issuer struct {
	Catalog  CatalogStore
	Codec    *qr.Codec
	Sender   NoticeSender
	Logger   *logger.Logger
	QRConfig config.QRConfig
	LeadTime time.Duration
}

func NewIssuer(catalog CatalogStore, codec *qr.Codec, sender NoticeSender, log *logger.Logger, qrCfg config.QRConfig, leadTime time.Duration) *Issuer {
	return &Issuer{
		Catalog:  catalog,
		Codec:    codec,
		Sender:   sender,
		Logger:   log,
		QRConfig: qrCfg,
		LeadTime: leadTime,
	}
}

// Run executes one batch pass. The window is [today 00:00, today 00:00
// + lead time); the ticket_sent flag makes a same-day re-run a no-op
// for attendees already notified.
func (i *Issuer) Run(ctx context.Context) error {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.Add(i.LeadTime)

	rows, err := i.Catalog.FindIssuable(ctx, from, to)
	if err != nil {
		return fmt.Errorf("query issuable attendees: %w", err)
	}
	i.logBatch(fmt.Sprintf("발송 대상 %d건 조회 완료", len(rows)))

	var sent, failed int
	for _, row := range rows {
		if err := i.issueOne(ctx, row); err != nil {
			failed++
			i.logError(fmt.Sprintf("[%s] attendee %d: %v", jobName, row.AttendeeID, err))
			continue
		}
		sent++
	}

	i.logBatch(fmt.Sprintf("발송 완료 %d건 / 실패 %d건", sent, failed))
	return nil
}

func (i *Issuer) issueOne(ctx context.Context, row models.IssuableTicket) error {
	token, err := i.Codec.Encode(models.TicketIdentity{
		ReservationID: row.ReservationID,
		AttendeeID:    row.AttendeeID,
		EventID:       row.EventID,
		TicketID:      row.TicketID,
	})
	if err != nil {
		return fmt.Errorf("encode link token: %w", err)
	}

	notice := notify.TicketNotice{
		Recipient:    row.AttendeeEmail,
		AttendeeName: row.AttendeeName,
		EventName:    row.EventName,
		LinkToken:    token,
		TicketLink:   fmt.Sprintf("%s/%s", i.QRConfig.LinkBaseURL, token),
		ScheduleDate: row.ScheduleDate.Format("2006-01-02"),
		StartTime:    row.StartTime,
		EndTime:      row.EndTime,
	}
	if err := i.Sender.Send(ctx, notify.ChannelEmail, notice); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}

	// Flag only after a successful dispatch so a failed row is retried
	// on the next run.
	if err := i.Catalog.MarkTicketSent(ctx, row.AttendeeID); err != nil {
		return fmt.Errorf("mark ticket sent: %w", err)
	}

	i.logDispatch(row.AttendeeEmail)
	return nil
}

func (i *Issuer) logBatch(message string) {
	if i.Logger != nil {
		i.Logger.LogBatch(jobName, message)
	}
}

func (i *Issuer) logError(message string) {
	if i.Logger != nil {
		i.Logger.Error("BATCH", message)
	}
}

func (i *Issuer) logDispatch(recipient string) {
	if i.Logger != nil {
		i.Logger.LogDispatch(string(notify.ChannelEmail), recipient, "티켓 발송 완료")
	}
}
