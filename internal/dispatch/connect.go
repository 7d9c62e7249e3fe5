package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/connect"

	"github.com/voicebridge/sahaya/internal/state"
)

// ConnectAPI is the subset of the Amazon Connect client the adapter uses.
type ConnectAPI interface {
	StartOutboundVoiceContact(ctx context.Context, params *connect.StartOutboundVoiceContactInput, optFns ...func(*connect.Options)) (*connect.StartOutboundVoiceContactOutput, error)
}

// ConnectProvider places calls through an Amazon Connect contact flow. The
// conversation inputs travel as contact attributes; the flow pulls them into
// the same webhook engine.
type ConnectProvider struct {
	client        ConnectAPI
	instanceID    string
	contactFlowID string
	queueID       string
}

// NewConnectProvider creates the Amazon Connect adapter.
func NewConnectProvider(client ConnectAPI, instanceID, contactFlowID, queueARN string) *ConnectProvider {
	return &ConnectProvider{
		client:        client,
		instanceID:    instanceID,
		contactFlowID: contactFlowID,
		queueID:       queueIDFromARN(queueARN),
	}
}

// Name implements Provider.
func (p *ConnectProvider) Name() string { return "connect" }

// Place starts the outbound voice contact.
func (p *ConnectProvider) Place(ctx context.Context, req Request) Result {
	if p.client == nil || p.instanceID == "" {
		return Result{
			Provider: p.Name(),
			Error:    "Amazon Connect not configured",
			Message:  "set CONNECT_INSTANCE_ID and CONNECT_CONTACT_FLOW_ID",
		}
	}

	input := &connect.StartOutboundVoiceContactInput{
		DestinationPhoneNumber: aws.String(req.Phone),
		ContactFlowId:          aws.String(p.contactFlowID),
		InstanceId:             aws.String(p.instanceID),
		Attributes: map[string]string{
			"subjectName": req.SubjectName,
			"schemeIds":   strings.Join(req.SchemeIDs, ","),
			"language":    state.NormalizeLanguage(req.Language),
		},
	}
	if p.queueID != "" {
		input.QueueId = aws.String(p.queueID)
	}

	out, err := p.client.StartOutboundVoiceContact(ctx, input)
	if err != nil {
		return Result{
			Provider: p.Name(),
			Error:    err.Error(),
		}
	}

	callID := ""
	if out.ContactId != nil {
		callID = *out.ContactId
	}
	return Result{
		Success:  true,
		Provider: p.Name(),
		CallID:   callID,
		Message:  fmt.Sprintf("Sahaya is calling %s via Amazon Connect", req.SubjectName),
	}
}

// queueIDFromARN extracts the queue id from a full queue ARN.
func queueIDFromARN(arn string) string {
	if arn == "" {
		return ""
	}
	if idx := strings.LastIndex(arn, "/queue/"); idx >= 0 {
		return arn[idx+len("/queue/"):]
	}
	return arn
}
