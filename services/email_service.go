package services

import (
	"dallasdresses_server/structs"
	"dallasdresses_server/structs/tables"
	"fmt"
	"html"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *resend.Client
}

// NewEmailService builds the Resend-backed mailer. Without an API key the
// service stays disabled and only logs what it would have sent.
func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	es := &EmailService{logger: logger, cfg: cfg}
	if cfg.Email != nil && cfg.Email.ApiKey != "" {
		es.client = resend.NewClient(cfg.Email.ApiKey)
	}
	return es
}

func (es *EmailService) Enabled() bool {
	return es != nil && es.client != nil
}

func (es *EmailService) SendEmail(to []string, subject string, body string) error {
	if !es.Enabled() {
		es.logger.Debug("Email sending disabled, skipping", gecho.Field("to", to), gecho.Field("subject", subject))
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    es.cfg.Email.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}

	sent, err := es.client.Emails.Send(params)
	if err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}

	es.logger.Debug("Email sent", gecho.Field("id", sent.Id), gecho.Field("to", to))
	return nil
}

// SendWelcomeEmail greets a newly registered user
func (es *EmailService) SendWelcomeEmail(user *tables.User) error {
	if !es.Enabled() {
		es.logger.Debug("Email sending disabled, skipping welcome email", gecho.Field("user_id", user.ID))
		return nil
	}

	appName, siteURL := "Dallas Dresses", ""
	if es.cfg.Server != nil && es.cfg.Server.AppName != "" {
		appName = es.cfg.Server.AppName
	}
	if es.cfg.Email != nil {
		siteURL = es.cfg.Email.SiteURL
	}

	name := strings.TrimSpace(user.FirstName)
	if name == "" {
		name = user.Email
	}

	body := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.header { background-color: #7a1f3d; color: white; padding: 20px; text-align: center; }
				.content { padding: 20px; background-color: #f9f9f9; }
				.button { display: inline-block; padding: 15px 30px; background-color: #7a1f3d; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
				.footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
			</style>
		</head>
		<body>
			<div class="container">
				<div class="header">
					<h1>Welcome to %s</h1>
				</div>
				<div class="content">
					<p>Hi %s,</p>
					<p>Your account is ready. Browse the latest dresses and save your favourites.</p>
					<p style="text-align: center;">
						<a href="%s" class="button">Start shopping</a>
					</p>
				</div>
				<div class="footer">
					<p>You receive this email because an account was created with this address.</p>
				</div>
			</div>
		</body>
		</html>
	`, html.EscapeString(appName), html.EscapeString(name), html.EscapeString(siteURL))

	return es.SendEmail([]string{user.Email}, "Welcome to "+appName, body)
}
