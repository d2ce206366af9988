package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
// The context bounds the outbound call.
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RegistrationEmailData holds data for the registration confirmation email.
type RegistrationEmailData struct {
	CompanyName  string
	CompanyEmail string
	ContactName  string
	PackageLabel string
	Tickets      int
}

// EmailService defines the contract for sending domain-level emails.
// Sends happen after the registration commit and are best-effort.
type EmailService interface {
	SendRegistrationConfirmation(ctx context.Context, data *RegistrationEmailData) error
}
