package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"
	twilioclient "github.com/twilio/twilio-go/client"

	xlog "github.com/voicebridge/sahaya/internal/log"
	"github.com/voicebridge/sahaya/internal/script"
	"github.com/voicebridge/sahaya/internal/state"
)

// HeaderRequestID carries the request correlation id.
const HeaderRequestID = "X-Request-ID"

// requestID adds a unique id to every request.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		w.Header().Set(HeaderRequestID, reqID)
		ctx := xlog.ContextWithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusWriter captures the response status for the access log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// requestLogger emits one structured line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		logger := xlog.WithContext(r.Context(), s.logger)
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// recoverer is the outermost safety net for operator endpoints: panics
// become a 500 JSON response instead of a dead process.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				buf := make([]byte, 8192)
				n := runtime.Stack(buf, false)

				logger := xlog.WithContext(r.Context(), s.logger)
				logger.Error().
					Str(xlog.FieldEvent, "panic.recovered").
					Str("path", r.URL.Path).
					Interface("panic_value", rec).
					Str("stack_trace", string(buf[:n])).
					Msg("panic recovered in handler")

				writeJSON(w, http.StatusInternalServerError, map[string]string{
					"error": "internal server error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// carrierRecoverer shields the webhook routes. The recovery response is
// spoken markup built from prompts alone: the subject hears an apology and
// a follow-up promise, never a carrier error tone.
func (s *Server) carrierRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger := xlog.WithContext(r.Context(), s.logger)
				logger.Error().
					Str(xlog.FieldEvent, "panic.recovered").
					Str("path", r.URL.Path).
					Interface("panic_value", rec).
					Msg("panic recovered in webhook, serving spoken fallback")

				lang := r.URL.Query().Get("lang")
				body, err := script.ErrorFallback(lang).Render()
				if err != nil {
					w.WriteHeader(http.StatusOK)
					return
				}
				w.Header().Set("Content-Type", "text/xml; charset=utf-8")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(body)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// newSignatureCheck builds the carrier signature validator. The signed URL
// is reconstructed from the public base URL because the carrier signs what
// it requested, not what a proxy rewrote.
func newSignatureCheck(authToken, baseURL string) func(r *http.Request) bool {
	validator := twilioclient.NewRequestValidator(authToken)
	return func(r *http.Request) bool {
		params := make(map[string]string, len(r.PostForm))
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				params[k] = vs[0]
			}
		}
		url := baseURL + r.URL.RequestURI()
		return validator.Validate(url, params, r.Header.Get("X-Twilio-Signature"))
	}
}

// carrierAuth rejects webhook requests whose carrier signature does not
// verify. Disabled validation passes everything through.
func (s *Server) carrierAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.validateSignature != nil {
			_ = r.ParseForm()
			if !s.validateSignature(r) {
				logger := xlog.WithContext(r.Context(), s.logger)
				logger.Warn().
					Str("path", r.URL.Path).
					Str(xlog.FieldCallSID, r.PostForm.Get(state.FormCallSID)).
					Msg("carrier signature rejected")
				http.Error(w, "signature verification failed", http.StatusForbidden)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
