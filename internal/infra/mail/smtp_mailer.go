// Package mail delivers transactional mail over SMTP.
package mail

import (
	"context"
	"log/slog"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	gomail "github.com/wneessen/go-mail"
)

// smtpMailer implements service.Mailer on top of go-mail.
type smtpMailer struct {
	client *gomail.Client
	from   string
	logger *slog.Logger
}

// NewSMTPMailer is the constructor for smtpMailer.
func NewSMTPMailer(cfg *config.Config, logger *slog.Logger) (service.Mailer, error) {
	if cfg.SMTP == nil {
		return nil, errors.New("smtp config is required")
	}

	client, err := gomail.NewClient(cfg.SMTP.Host,
		gomail.WithPort(cfg.SMTP.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.SMTP.Username),
		gomail.WithPassword(cfg.SMTP.Password),
		gomail.WithTimeout(cfg.SMTP.Timeout),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create smtp client")
	}

	return &smtpMailer{
		client: client,
		from:   cfg.SMTP.From,
		logger: logger,
	}, nil
}

func (m *smtpMailer) Send(ctx context.Context, mail service.Mail) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return errors.Wrap(err, "set mail sender")
	}
	if err := msg.To(mail.To); err != nil {
		return errors.Wrap(err, "set mail recipient")
	}
	msg.Subject(mail.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, mail.HTML)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		m.logger.ErrorContext(ctx, "mail delivery failed",
			slog.String("to", mail.To),
			slog.String("subject", mail.Subject),
			slog.Any("error", err))

		return domainerrors.ErrMailDeliveryFailed
	}

	return nil
}
