package dispatch

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/voicebridge/sahaya/internal/script"
	"github.com/voicebridge/sahaya/internal/state"
)

// TwilioProvider places real calls through the Twilio REST API. The answer
// webhook it hands to Twilio encodes the fresh conversation state, so the
// call lands on the Intro stage with the subject's name and language.
type TwilioProvider struct {
	client  *twilio.RestClient
	from    string
	baseURL string

	accountSID string
	authToken  string
}

// NewTwilioProvider creates the Twilio adapter. Missing credentials are
// tolerated here and reported per dispatch, matching the rule that dispatch
// faults are results, not errors.
func NewTwilioProvider(accountSID, authToken, from, baseURL string) *TwilioProvider {
	p := &TwilioProvider{
		from:       from,
		baseURL:    baseURL,
		accountSID: accountSID,
		authToken:  authToken,
	}
	if accountSID != "" && authToken != "" {
		p.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		})
	}
	return p
}

// Name implements Provider.
func (p *TwilioProvider) Name() string { return "twilio" }

// Place creates the outbound call.
func (p *TwilioProvider) Place(_ context.Context, req Request) Result {
	if p.client == nil || p.from == "" {
		return Result{
			Provider: p.Name(),
			Error:    "missing Twilio credentials",
			Message:  "set TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_PHONE_NUMBER",
		}
	}

	st := state.New(req.SubjectName, req.Language)
	st.SchemeIDs = req.SchemeIDs

	params := &twilioapi.CreateCallParams{}
	params.SetTo(req.Phone)
	params.SetFrom(p.from)
	params.SetUrl(script.ActionURL(p.baseURL, st))
	params.SetMethod("POST")
	params.SetStatusCallback(p.baseURL + script.StatusPath)
	params.SetStatusCallbackMethod("POST")

	call, err := p.client.Api.CreateCall(params)
	if err != nil {
		return Result{
			Provider: p.Name(),
			Error:    err.Error(),
			Message:  "Twilio call failed, check credentials and webhook URL",
		}
	}

	callID := ""
	if call.Sid != nil {
		callID = *call.Sid
	}
	return Result{
		Success:  true,
		Provider: p.Name(),
		CallID:   callID,
		Message:  fmt.Sprintf("Sahaya is calling %s", req.SubjectName),
	}
}
