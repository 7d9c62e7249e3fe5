package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	xlog "github.com/voicebridge/sahaya/internal/log"
	"github.com/voicebridge/sahaya/internal/metrics"
	"github.com/voicebridge/sahaya/internal/state"
)

// Facade is the eligibility/catalog collaborator as the call flow sees it:
// every lookup is timeout-bounded and answered from the built-in catalog when
// the store fails. Callers never observe an error, only real or fallback data.
type Facade struct {
	store   Store
	timeout time.Duration
	logger  zerolog.Logger
}

// NewFacade wraps store with the given per-lookup timeout.
func NewFacade(store Store, timeout time.Duration) *Facade {
	return &Facade{
		store:   store,
		timeout: timeout,
		logger:  xlog.WithComponent("catalog"),
	}
}

// Scheme returns the record for id. Unknown ids and store failures yield the
// built-in record (baseline scheme if the id itself is unknown).
func (f *Facade) Scheme(ctx context.Context, id string) SchemeRecord {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	rec, err := f.store.Scheme(ctx, id)
	if err != nil {
		metrics.IncCollaboratorFallback("catalog")
		f.logger.Warn().
			Err(err).
			Str(xlog.FieldScheme, id).
			Bool(xlog.FieldFallback, true).
			Msg("scheme lookup failed, serving built-in record")
		return builtinScheme(id)
	}
	return rec
}

// Eligible matches schemes for the given answers and resolves their records.
// The slice is never empty and holds at most two entries, primary first.
func (f *Facade) Eligible(ctx context.Context, bracket state.LandBracket, hasCreditLine bool) []SchemeRecord {
	ids := MatchSchemes(bracket, hasCreditLine)
	records := make([]SchemeRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, f.Scheme(ctx, id))
	}
	if len(records) == 0 {
		// Unreachable with the current rules table, but an empty-handed call
		// equals a dropped call, so guard it anyway.
		metrics.IncCollaboratorFallback("eligibility")
		records = append(records, builtinScheme(BaselineScheme))
	}
	return records
}

// All lists the catalog, falling back to the built-in records.
func (f *Facade) All(ctx context.Context) []SchemeRecord {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	records, err := f.store.All(ctx)
	if err != nil || len(records) == 0 {
		if err != nil {
			metrics.IncCollaboratorFallback("catalog")
			f.logger.Warn().Err(err).Bool(xlog.FieldFallback, true).Msg("catalog scan failed, serving built-in records")
		}
		fallback, _ := NewStaticStore().All(ctx)
		return fallback
	}
	return records
}
