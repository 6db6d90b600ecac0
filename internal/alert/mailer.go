package alert

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const sendTimeout = 10 * time.Second

type SMTPConfig struct {
	Server       string
	Port         string
	User         string
	Password     string
	From         string
	To           string
	AuthDisabled bool
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer e-mails staff. Every send waits for the SMTP server or the context;
// Close waits for sends abandoned on timeout.
type Mailer struct {
	cfg      SMTPConfig
	logger   *zap.Logger
	sendMail sendMailFunc
	wg       sync.WaitGroup
}

func NewMailer(cfg SMTPConfig, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger, sendMail: smtp.SendMail}
}

func (m *Mailer) Notify(ctx context.Context, a LowStockAlert) error {
	subject := fmt.Sprintf("⚠️ LOW STOCK: %s (%s)", a.Name, a.ProductID)
	body := fmt.Sprintf("%s\nThreshold: %d\nTime: %s", a.Message(), a.Threshold, a.Time.Format(time.RFC3339))

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + m.cfg.To,
		"Subject: " + headerValue(subject),
		"",
		body,
	}, "\r\n")
	return m.send(ctx, []byte(msg), "low stock alert")
}

// SendSummary mails an HTML report.
func (m *Mailer) SendSummary(ctx context.Context, subject, html string) error {
	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + m.cfg.To,
		"Subject: " + headerValue(subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		html,
	}, "\r\n")
	return m.send(ctx, []byte(msg), "daily low stock summary")
}

// Close blocks until no send is in flight.
func (m *Mailer) Close() error {
	m.wg.Wait()
	return nil
}

func (m *Mailer) send(ctx context.Context, msg []byte, what string) error {
	addr := fmt.Sprintf("%s:%s", m.cfg.Server, m.cfg.Port)

	var auth smtp.Auth
	if !m.cfg.AuthDisabled {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Server)
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	done := make(chan error, 1)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		done <- m.sendMail(addr, auth, m.cfg.From, []string{m.cfg.To}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			m.logger.Error("failed to send e-mail", zap.String("kind", what), zap.Error(err))
			return fmt.Errorf("failed to send %s: %w", what, err)
		}
		m.logger.Info("e-mail sent", zap.String("kind", what))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send %s: %w", what, ctx.Err())
	}
}

// headerValue keeps user supplied text on one header line.
func headerValue(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
	return mime.QEncoding.Encode("utf-8", s)
}
