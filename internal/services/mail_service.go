// internal/services/mail_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/nnminh-sam/watch-store-backend/internal/config"
	"github.com/nnminh-sam/watch-store-backend/internal/utils"
)

// ---------------------------------------------------------------------
// MailService interface
// ---------------------------------------------------------------------

// MailService dispatches transactional email. All sends are
// fire-and-forget from the caller's perspective: failures are logged,
// never propagated to the request that triggered them.
type MailService interface {
	SendWelcomeEmail(ctx context.Context, toEmail, firstName string)
	SendNewPasswordEmail(ctx context.Context, toEmail, newPassword string)
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type mailService struct {
	client *sendgrid.Client
	cfg    *config.Config
}

func NewMailService(cfg *config.Config) MailService {
	return &mailService{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		cfg:    cfg,
	}
}

func (s *mailService) SendWelcomeEmail(ctx context.Context, toEmail, firstName string) {
	subject := fmt.Sprintf("Welcome to %s", s.cfg.OrganizationName)
	plain := fmt.Sprintf("Welcome, %s! Your account has been created.", firstName)
	html := fmt.Sprintf(welcomeEmailHTML, firstName, time.Now().Year(), s.cfg.OrganizationName)
	s.send(toEmail, subject, plain, html)
}

func (s *mailService) SendNewPasswordEmail(ctx context.Context, toEmail, newPassword string) {
	subject := fmt.Sprintf("%s - Your New Password", s.cfg.OrganizationName)
	plain := fmt.Sprintf("Your temporary password is %s. Please change it after signing in.", newPassword)
	html := fmt.Sprintf(newPasswordEmailHTML, newPassword, time.Now().Year(), s.cfg.OrganizationName)
	s.send(toEmail, subject, plain, html)
}

func (s *mailService) send(toEmail, subject, plain, html string) {
	from := mail.NewEmail(s.cfg.OrganizationName, s.cfg.SendGridFromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plain, html)

	if s.cfg.SendGridSandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		message.MailSettings = ms
	}

	if _, err := s.client.Send(message); err != nil {
		utils.Logger.WithError(err).Errorf("Failed to send %q email to %s via SendGrid", subject, toEmail)
	}
}
