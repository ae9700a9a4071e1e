package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/config"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
)

// Sender delivers a templated email to a single recipient. Implementations
// must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, to string, template enums.MailTemplate, vars map[string]string, lang enums.Language) error
}

// NewSender returns an SMTP-backed sender when mail is configured, and a
// log-only sender otherwise so local development works without a relay.
func NewSender(cfg config.MailConfig) Sender {
	if cfg.Enabled() {
		return &smtpSender{cfg: cfg}
	}
	return &logSender{}
}

type smtpSender struct {
	cfg config.MailConfig
}

func (s *smtpSender) Send(ctx context.Context, to string, template enums.MailTemplate, vars map[string]string, lang enums.Language) error {
	if to == "" {
		return fmt.Errorf("recipient address is required")
	}
	if !template.IsValid() {
		return fmt.Errorf("unknown mail template %q", template)
	}

	subject := subjectFor(template, vars, lang)
	body := renderBody(template, vars, lang)

	msg := buildMessage(s.cfg.From, to, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("sending %s mail: %w", template, err)
		}
		return nil
	}
}

type logSender struct{}

func (l *logSender) Send(ctx context.Context, to string, template enums.MailTemplate, vars map[string]string, lang enums.Language) error {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	zerolog.Ctx(ctx).Info().
		Str("to", to).
		Str("template", template.String()).
		Str("language", lang.String()).
		Strs("vars", keys).
		Msg("mail delivery skipped, smtp not configured")
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
