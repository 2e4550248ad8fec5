package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ShiftConfirmationEmailData holds data for the shift confirmation email.
type ShiftConfirmationEmailData struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Day       string `json:"day"`
	ShiftTime string `json:"shiftTime"`
	Role      string `json:"role"`
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendShiftConfirmation(ctx context.Context, data *ShiftConfirmationEmailData) error
}
