package repo

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioConfig holds the credentials of the account alerts are sent from.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

// messageCreator is the part of the Twilio REST API we use.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSMS sends short text alerts through the Twilio Messages API.
type TwilioSMS struct {
	api  messageCreator
	from string
}

func NewTwilioSMS(config TwilioConfig) (*TwilioSMS, error) {
	if config.AccountSID == "" || config.AuthToken == "" {
		return nil, fmt.Errorf("account SID and auth token must be provided")
	}
	if config.From == "" {
		return nil, fmt.Errorf("from number must be provided")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: config.AccountSID,
		Password: config.AuthToken,
	})
	return &TwilioSMS{api: client.Api, from: config.From}, nil
}

// SendSMS sends body to the given E.164 number. The Twilio client does not
// take a context, so ctx is only checked before the call.
func (t *TwilioSMS) SendSMS(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	if _, err := t.api.CreateMessage(params); err != nil {
		return fmt.Errorf("error sending sms to %s: %w", to, err)
	}
	return nil
}
