package notifier

import (
	"context"
	"fmt"
	"unicode/utf8"

	"HelpBot/model"
)

const smsLimit = 160

// SMSSender is implemented by repo.TwilioSMS.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// SMS sends a one-line heads-up to an on-call phone. The full report still
// goes by e-mail.
type SMS struct {
	sender SMSSender
	to     string
}

func NewSMS(sender SMSSender, to string) *SMS {
	return &SMS{sender: sender, to: to}
}

func (s *SMS) Notify(ctx context.Context, record model.IntakeRecord) error {
	if err := s.sender.SendSMS(ctx, s.to, Alert(record)); err != nil {
		return fmt.Errorf("error sending sms alert for request #%s: %w", record.Reference(), err)
	}
	return nil
}

// Alert is the SMS text, cut to a single segment.
func Alert(record model.IntakeRecord) string {
	text := fmt.Sprintf("New help request #%s: %s", record.Reference(), record.HelpNeeded)
	if utf8.RuneCountInString(text) > smsLimit {
		text = string([]rune(text)[:smsLimit-1]) + "…"
	}
	return text
}
