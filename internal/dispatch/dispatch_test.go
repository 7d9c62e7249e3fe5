package dispatch

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// staticSelection is a Selection whose value the test mutates between calls.
type staticSelection struct {
	name string
}

func (s *staticSelection) Provider() string { return s.name }

// stubProvider records its invocations and returns a canned result.
type stubProvider struct {
	name   string
	result Result
	calls  int
	panics bool
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Place(_ context.Context, _ Request) Result {
	p.calls++
	if p.panics {
		panic("carrier adapter blew up")
	}
	return p.result
}

func TestDispatchReadsSelectionFresh(t *testing.T) {
	twilio := &stubProvider{name: "twilio", result: Result{Success: true, Provider: "twilio", CallID: "CA1"}}
	mock := &stubProvider{name: "mock", result: Result{Success: true, Provider: "mock", CallID: "mock_1"}}
	sel := &staticSelection{name: "twilio"}

	r := NewRouter(sel, 1000, mock, twilio)
	req := Request{Phone: "+919876543210", SubjectName: "Ramesh"}

	res := r.Dispatch(context.Background(), req)
	assert.Equal(t, "twilio", res.Provider)

	// Flip the selection with no router rebuild; the very next dispatch must
	// land on the other adapter.
	sel.name = "mock"
	res = r.Dispatch(context.Background(), req)
	assert.Equal(t, "mock", res.Provider)

	assert.Equal(t, 1, twilio.calls)
	assert.Equal(t, 1, mock.calls)
}

func TestDispatchUnknownSelectionFallsBackToMock(t *testing.T) {
	twilio := &stubProvider{name: "twilio", result: Result{Success: true, Provider: "twilio"}}
	mock := &stubProvider{name: "mock", result: Result{Success: true, Provider: "mock", CallID: "mock_2"}}

	r := NewRouter(&staticSelection{name: "carrier_pigeon"}, 1000, twilio, mock)
	res := r.Dispatch(context.Background(), Request{Phone: "+919876543210"})

	require.True(t, res.Success)
	assert.Equal(t, "mock", res.Provider)
	assert.Equal(t, 0, twilio.calls)
	assert.Equal(t, 1, mock.calls)
}

func TestDispatchNormalizesPanic(t *testing.T) {
	p := &stubProvider{name: "twilio", panics: true}

	r := NewRouter(&staticSelection{name: "twilio"}, 1000, p)
	res := r.Dispatch(context.Background(), Request{Phone: "+919876543210"})

	assert.False(t, res.Success)
	assert.Equal(t, "twilio", res.Provider)
	assert.Contains(t, res.Error, "carrier adapter blew up")
}

func TestDispatchNoProviders(t *testing.T) {
	r := NewRouter(&staticSelection{name: "twilio"}, 1000)
	res := r.Dispatch(context.Background(), Request{Phone: "+919876543210"})

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "no call providers")
}

func TestDispatchFillsProviderField(t *testing.T) {
	p := &stubProvider{name: "twilio", result: Result{Success: true}}

	r := NewRouter(&staticSelection{name: "twilio"}, 1000, p)
	res := r.Dispatch(context.Background(), Request{Phone: "+919876543210"})

	assert.Equal(t, "twilio", res.Provider)
}

func TestDispatchCancelledContext(t *testing.T) {
	p := &stubProvider{name: "twilio", result: Result{Success: true, Provider: "twilio"}}
	r := NewRouter(&staticSelection{name: "twilio"}, 0.001, p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := r.Dispatch(ctx, Request{Phone: "+919876543210"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "rate limit")
	assert.Equal(t, 0, p.calls)
}

func TestMockProviderAlwaysSucceeds(t *testing.T) {
	p := NewMockProvider()
	res := p.Place(context.Background(), Request{
		Phone:       "+919876543210",
		SubjectName: "Ramesh",
		SchemeIDs:   []string{"PM_KISAN", "PMFBY"},
	})

	assert.True(t, res.Success)
	assert.Equal(t, "mock", res.Provider)
	assert.True(t, strings.HasPrefix(res.CallID, "mock_"))
	assert.Contains(t, res.Message, "Ramesh")
}

func TestTwilioProviderWithoutCredentials(t *testing.T) {
	p := NewTwilioProvider("", "", "", "https://sahaya.example.com")
	res := p.Place(context.Background(), Request{Phone: "+919876543210"})

	assert.False(t, res.Success)
	assert.Equal(t, "twilio", res.Provider)
	assert.Contains(t, res.Error, "credentials")
}
