// Package notify delivers invitation e-mails.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/i18n"
	"github.com/aussiebroadwan/invitedesk/pkg/slogx"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"golang.org/x/text/language"
)

var ErrDelivery = errors.New("notify: delivery failed")

// Sender is the part of the SendGrid client used to deliver mail.
type Sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type SendGridConfig struct {
	APIKey   string
	FromName string
	FromAddr string
	Lang     language.Tag
}

// SendGridNotifier e-mails the registration link to the invitee.
type SendGridNotifier struct {
	client Sender
	from   *mail.Email
	lang   language.Tag
	now    func() time.Time
}

func NewSendGrid(cfg SendGridConfig) *SendGridNotifier {
	return NewSendGridWithSender(sendgrid.NewSendClient(cfg.APIKey), cfg)
}

// NewSendGridWithSender is NewSendGrid with an explicit client.
func NewSendGridWithSender(client Sender, cfg SendGridConfig) *SendGridNotifier {
	lang := cfg.Lang
	if lang == language.Und {
		lang = i18n.Default()
	}
	return &SendGridNotifier{
		client: client,
		from:   mail.NewEmail(cfg.FromName, cfg.FromAddr),
		lang:   lang,
		now:    time.Now,
	}
}

func (n *SendGridNotifier) NotifyInvitation(ctx context.Context, inv domain.Invitation, link string) error {
	subject, body := i18n.InvitationEmail(i18n.Printer(n.lang), inv, link, n.now())
	to := mail.NewEmail("", inv.Email)
	msg := mail.NewSingleEmail(n.from, subject, to, body, "")

	resp, err := n.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: sendgrid status %d", ErrDelivery, resp.StatusCode)
	}

	slogx.FromContext(ctx).Debug("invitation e-mail sent",
		slog.String("invitation_id", inv.ID),
		slog.Int("status", resp.StatusCode),
	)
	return nil
}

// LogNotifier logs the link instead of sending mail. Used when no mail
// provider is configured. The code in the link accepts the invitation, so
// the full link is only written at debug level.
type LogNotifier struct{}

func (LogNotifier) NotifyInvitation(ctx context.Context, inv domain.Invitation, link string) error {
	log := slogx.FromContext(ctx)
	log.Info("invitation link",
		slog.String("invitation_id", inv.ID),
		slog.String("role", inv.Role.String()),
		slog.String("link", redactCode(link, inv.Code)),
	)
	log.Debug("invitation link unredacted",
		slog.String("invitation_id", inv.ID),
		slog.String("link", link),
	)
	return nil
}

func redactCode(link, code string) string {
	if code == "" {
		return link
	}
	return strings.ReplaceAll(link, code, "REDACTED")
}
