// Package dispatch places outbound calls through interchangeable carrier
// providers.
//
// The active provider is read fresh from the runtime settings on every
// dispatch so an operator can switch carriers between two consecutive calls
// without a restart. Adapter failures of any kind, panics included, are
// normalized into a failed Result; nothing crosses the router boundary as an
// error.
package dispatch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	xlog "github.com/voicebridge/sahaya/internal/log"
	"github.com/voicebridge/sahaya/internal/metrics"
)

// Request describes one outbound call to place.
type Request struct {
	Phone       string   `json:"phone"`
	SubjectName string   `json:"subject_name"`
	Language    string   `json:"language,omitempty"`
	SchemeIDs   []string `json:"scheme_ids,omitempty"`
}

// Result is the normalized outcome of one dispatch attempt. It is returned
// to the caller and logged; the engine never retries on its own.
type Result struct {
	Success  bool   `json:"success"`
	Provider string `json:"provider"`
	CallID   string `json:"call_id,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Provider is a call-carrier adapter. Implementations map carrier-specific
// failures into the Result themselves and never panic by contract; the
// router still guards against it.
type Provider interface {
	Name() string
	Place(ctx context.Context, req Request) Result
}

// Selection names the active provider. Reads must be fresh on every call.
type Selection interface {
	Provider() string
}

// Router forwards dispatch requests to the currently selected provider.
type Router struct {
	providers map[string]Provider
	fallback  Provider
	selection Selection
	limiter   *rate.Limiter
	logger    zerolog.Logger
}

// NewRouter builds a router over the given adapters. The first mock-named
// adapter (or the first adapter at all) becomes the fallback for
// unrecognised selections. dispatchRPS bounds outbound carrier traffic.
func NewRouter(selection Selection, dispatchRPS float64, providers ...Provider) *Router {
	r := &Router{
		providers: make(map[string]Provider, len(providers)),
		selection: selection,
		limiter:   rate.NewLimiter(rate.Limit(dispatchRPS), 1),
		logger:    xlog.WithComponent("dispatch"),
	}
	for _, p := range providers {
		r.providers[p.Name()] = p
		if r.fallback == nil || p.Name() == "mock" {
			r.fallback = p
		}
	}
	return r
}

// Dispatch places one outbound call via the currently selected provider.
func (r *Router) Dispatch(ctx context.Context, req Request) (result Result) {
	name := r.selection.Provider()

	provider, ok := r.providers[name]
	if !ok {
		r.logger.Warn().
			Str(xlog.FieldProvider, name).
			Msg("unknown call provider selected, using fallback")
		provider = r.fallback
	}
	if provider == nil {
		return Result{Provider: name, Error: "no call providers registered"}
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = Result{
				Provider: provider.Name(),
				Error:    fmt.Sprintf("provider panic: %v", rec),
			}
		}
		metrics.IncCallInitiated(result.Provider, result.Success)
		evt := r.logger.Info()
		if !result.Success {
			evt = r.logger.Warn()
		}
		evt.
			Str(xlog.FieldProvider, result.Provider).
			Str(xlog.FieldCallSID, result.CallID).
			Str(xlog.FieldPhone, xlog.MaskPhone(req.Phone)).
			Bool("success", result.Success).
			Str("error", result.Error).
			Msg("outbound call dispatched")
	}()

	if err := r.limiter.Wait(ctx); err != nil {
		return Result{
			Provider: provider.Name(),
			Error:    fmt.Sprintf("dispatch rate limit: %v", err),
		}
	}

	result = provider.Place(ctx, req)
	if result.Provider == "" {
		result.Provider = provider.Name()
	}
	return result
}
