package notify

import (
	"context"
	"fmt"
	"io"

	qrcode "github.com/skip2/go-qrcode"
	gomail "gopkg.in/gomail.v2"

	"ms-checkin/internal/config"
)

// EmailDispatcher renders the ticket link as a QR PNG and mails it to
// the attendee.
type EmailDispatcher struct {
	cfg    config.EmailConfig
	dialer *gomail.Dialer
}

func NewEmailDispatcher(cfg config.EmailConfig) *EmailDispatcher {
	return &EmailDispatcher{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

func (d *EmailDispatcher) Send(ctx context.Context, notice TicketNotice) error {
	png, err := qrcode.Encode(notice.TicketLink, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("render qr image: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.cfg.FromAddress)
	m.SetHeader("To", notice.Recipient)
	m.SetHeader("Subject", fmt.Sprintf("[%s] 입장 QR 티켓 안내", notice.EventName))
	m.SetBody("text/html", d.body(notice))
	m.Embed("ticket-qr.png", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(png)
		return err
	}))

	if err := d.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send ticket email to %s: %w", notice.Recipient, err)
	}
	return nil
}

func (d *EmailDispatcher) body(notice TicketNotice) string {
	return fmt.Sprintf(`
		<p>%s님, 안녕하세요.</p>
		<p><b>%s</b> 행사의 입장 QR 티켓을 보내드립니다.</p>
		<p>일시: %s %s ~ %s</p>
		<p><img src="cid:ticket-qr.png" alt="QR ticket"/></p>
		<p>QR 인식이 어려운 경우 아래 링크로 입장 코드를 확인해 주세요.<br/>
		<a href="%s">%s</a></p>`,
		notice.AttendeeName, notice.EventName,
		notice.ScheduleDate, notice.StartTime, notice.EndTime,
		notice.TicketLink, notice.TicketLink,
	)
}
