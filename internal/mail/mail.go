// Package mail delivers the "you won" notification. Delivery is strictly
// fire-and-forget from the caller's point of view: a failed send is logged
// and must never surface into the selection result.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/luckydrawhq/luckydraw/internal/config"
	"github.com/luckydrawhq/luckydraw/internal/util"
	log "github.com/sirupsen/logrus"
)

// Notifier informs a winner out-of-band.
type Notifier interface {
	// NotifyWinner attempts to deliver a congratulation message. The error
	// return exists only so callers can log it.
	NotifyWinner(email, name, drawTitle string, drawDate time.Time) error
}

// SMTPNotifier sends winner mail through an SMTP relay with STARTTLS.
type SMTPNotifier struct {
	cfg config.SMTPConfig
}

// NewNotifier builds a Notifier from config. When no SMTP password is set,
// a disabled notifier is returned that logs a warning per send instead of
// failing, matching the behavior of running without mail credentials.
func NewNotifier(cfg config.SMTPConfig) Notifier {
	if strings.TrimSpace(cfg.Password) == "" {
		return disabledNotifier{}
	}
	return &SMTPNotifier{cfg: cfg}
}

// NotifyWinner sends the congratulation email.
func (n *SMTPNotifier) NotifyWinner(email, name, drawTitle string, drawDate time.Time) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.Server, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Sender, n.cfg.Password, n.cfg.Server)
	msg := buildWinnerMessage(n.cfg.Sender, email, name, drawTitle, drawDate)

	if errSend := smtp.SendMail(addr, auth, n.cfg.Sender, []string{email}, msg); errSend != nil {
		return fmt.Errorf("mail: send winner notification: %w", errSend)
	}
	log.Infof("winner email sent to %s", util.MaskEmail(email))
	return nil
}

// buildWinnerMessage assembles the MIME message bytes.
func buildWinnerMessage(from, to, name, drawTitle string, drawDate time.Time) []byte {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", to))
	b.WriteString(fmt.Sprintf("Subject: Congratulations! You Won: %s\r\n", drawTitle))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString("<html><body>")
	b.WriteString(fmt.Sprintf("<h2>Congratulations, %s!</h2>", name))
	b.WriteString("<p>You have been selected as the <b>winner</b> of:</p>")
	b.WriteString(fmt.Sprintf("<p><b>%s</b></p>", drawTitle))
	b.WriteString(fmt.Sprintf("<p>Date: %s</p>", drawDate.Format("2006-01-02")))
	b.WriteString("<hr><p>Thank you for participating.</p>")
	b.WriteString("</body></html>")
	return []byte(b.String())
}

// disabledNotifier is used when mail credentials are not configured.
type disabledNotifier struct{}

func (disabledNotifier) NotifyWinner(email, _, _ string, _ time.Time) error {
	log.Warnf("smtp password not set, skipping winner email to %s", util.MaskEmail(email))
	return nil
}
