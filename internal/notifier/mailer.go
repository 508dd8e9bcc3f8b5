package notifier

import (
	"context"
	"crypto/tls"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"
)

type SMTPConfig struct {
	Addr       string
	From       string
	To         string
	User       string
	Password   string
	UseTLS     bool
	Timeout    time.Duration
	SubjPrefix string
}

// Configured reports whether the config is complete enough to send mail.
func (c SMTPConfig) Configured() bool {
	return c.Addr != "" && c.From != "" && c.To != ""
}

// Mailer sends alerts to the single configured recipient over SMTP.
type Mailer struct {
	addr       string
	auth       smtp.Auth
	useTLS     bool
	timeout    time.Duration
	from       string
	to         string
	subjPrefix string

	log *zap.Logger
}

func NewMailer(cfg SMTPConfig, log *zap.Logger) *Mailer {
	var auth smtp.Auth
	if cfg.User != "" || cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, host(cfg.Addr))
	}
	return &Mailer{
		addr:       cfg.Addr,
		auth:       auth,
		useTLS:     cfg.UseTLS,
		timeout:    cfg.Timeout,
		from:       cfg.From,
		to:         cfg.To,
		subjPrefix: cfg.SubjPrefix,
		log:        log.With(zap.String("component", "mailer")),
	}
}

func (m *Mailer) Name() string { return "email" }

func (m *Mailer) Send(ctx context.Context, a Alert) error {
	return m.SendMail(ctx, a.Subject(), a.Body())
}

// SendMail delivers one message to the configured recipient. Also used by
// the diagnostic test-email endpoint.
func (m *Mailer) SendMail(ctx context.Context, subject, body string) error {
	subj := strings.TrimSpace(m.subjPrefix + " " + subject)
	msg := []byte(
		"From: " + m.from + "\r\n" +
			"To: " + m.to + "\r\n" +
			"Subject: " + subj + "\r\n" +
			"Content-Type: text/plain; charset=utf-8\r\n" +
			"\r\n" + body + "\r\n")

	start := time.Now()
	log := m.log.With(
		zap.String("smtp_addr", m.addr),
		zap.Bool("tls", m.useTLS),
		zap.String("to", m.to),
		zap.String("subject", subj),
	)

	if m.useTLS {
		if err := m.sendTLS(msg); err != nil {
			log.Error("email send failed", zap.Error(err))
			return err
		}
	} else {
		if err := smtp.SendMail(m.addr, m.auth, m.from, []string{m.to}, msg); err != nil {
			log.Error("email send failed", zap.Error(err))
			return err
		}
	}
	log.Info("email sent", zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (m *Mailer) sendTLS(msg []byte) error {
	dialer := net.Dialer{Timeout: m.timeout}
	conn, err := tls.DialWithDialer(&dialer, "tcp", m.addr, &tls.Config{ServerName: host(m.addr)})
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, host(m.addr))
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	if m.auth != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(m.auth); err != nil {
				return err
			}
		}
	}
	if err := c.Mail(m.from); err != nil {
		return err
	}
	if err := c.Rcpt(m.to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func host(addr string) string {
	if h, _, err := net.SplitHostPort(addr); err == nil {
		return h
	}
	return addr
}
