package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"ontrack/pkg/config"
)

type twilioSMSSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSMSSender(cfg *config.Config) SMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &twilioSMSSender{
		client: client,
		from:   cfg.TwilioFromNumber,
	}
}

func (s *twilioSMSSender) SendSMS(ctx context.Context, to string, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	if resp.Sid == nil {
		return fmt.Errorf("SMS accepted without a message SID")
	}
	return nil
}
