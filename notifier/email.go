package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"HelpBot/model"
	"HelpBot/repo"
)

const subjectHelpLimit = 60

// Mailer sends one message; repo.SMTPMailer is the production implementation.
type Mailer interface {
	Send(ctx context.Context, mail repo.Mail) error
}

// Email renders a record as a plain-text report and mails it to one fixed
// recipient.
type Email struct {
	mailer Mailer
	from   string
	to     string
}

func NewEmail(mailer Mailer, from, to string) *Email {
	return &Email{mailer: mailer, from: from, to: to}
}

func (e *Email) Notify(ctx context.Context, record model.IntakeRecord) error {
	mail := repo.Mail{
		Subject: Subject(record),
		From:    e.from,
		To:      e.to,
		Body:    Report(record),
	}
	if err := e.mailer.Send(ctx, mail); err != nil {
		return fmt.Errorf("error emailing request #%s: %w", record.Reference(), err)
	}
	return nil
}

// Subject is "Help request #<ref>: <help needed, shortened>".
func Subject(record model.IntakeRecord) string {
	help := strings.Join(strings.Fields(record.HelpNeeded), " ")
	if utf8.RuneCountInString(help) > subjectHelpLimit {
		help = string([]rune(help)[:subjectHelpLimit]) + "…"
	}
	return fmt.Sprintf("Help request #%s: %s", record.Reference(), help)
}

// Report renders the body of the support desk e-mail.
func Report(record model.IntakeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New help request #%s\n\n", record.Reference())
	fmt.Fprintf(&b, "Name: %s\n", orDash(record.DisplayName))
	if record.Username != "" {
		fmt.Fprintf(&b, "Username: @%s\n", record.Username)
	} else {
		b.WriteString("Username: -\n")
	}
	fmt.Fprintf(&b, "Help needed: %s\n", record.HelpNeeded)
	fmt.Fprintf(&b, "Location: %s\n", formatLocation(record.Location))
	fmt.Fprintf(&b, "Contacts: %s\n", record.Contacts)
	fmt.Fprintf(&b, "Additional contacts: %s\n", orDash(record.AdditionalContacts))
	if !record.StartedAt.IsZero() {
		fmt.Fprintf(&b, "Started at: %s\n", record.StartedAt.UTC().Format(time.RFC3339))
	}
	return b.String()
}

func formatLocation(l *model.Location) string {
	if l == nil || l.Unknown {
		return model.UnknownLocation
	}
	return fmt.Sprintf("%f, %f (https://maps.google.com/?q=%f,%f)", l.Latitude, l.Longitude, l.Latitude, l.Longitude)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
