package dispatch

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	xlog "github.com/voicebridge/sahaya/internal/log"
)

// MockProvider simulates a carrier. It is the default provider and the
// fallback target for unrecognised selections: a misconfigured selection
// must degrade to simulated calls, never to a crash.
type MockProvider struct {
	logger zerolog.Logger
}

// NewMockProvider creates the simulated carrier.
func NewMockProvider() *MockProvider {
	return &MockProvider{logger: xlog.WithComponent("dispatch.mock")}
}

// Name implements Provider.
func (p *MockProvider) Name() string { return "mock" }

// Place simulates a call and always succeeds with a synthetic call id.
func (p *MockProvider) Place(_ context.Context, req Request) Result {
	callID := "mock_" + ulid.Make().String()
	p.logger.Info().
		Str(xlog.FieldCallSID, callID).
		Str(xlog.FieldPhone, xlog.MaskPhone(req.Phone)).
		Str(xlog.FieldSubject, req.SubjectName).
		Strs(xlog.FieldSchemes, req.SchemeIDs).
		Msg("simulated outbound call")
	return Result{
		Success:  true,
		Provider: p.Name(),
		CallID:   callID,
		Message:  fmt.Sprintf("simulated call to %s covering %d schemes", req.SubjectName, len(req.SchemeIDs)),
	}
}
