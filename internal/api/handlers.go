package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/voicebridge/sahaya/internal/dispatch"
	"github.com/voicebridge/sahaya/internal/state"
	"github.com/voicebridge/sahaya/internal/twiml"
	"github.com/voicebridge/sahaya/internal/version"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// initiateRequest is the operator request to place an outbound call.
type initiateRequest struct {
	Phone       string   `json:"phone"`
	SubjectName string   `json:"subject_name"`
	Language    string   `json:"language,omitempty"`
	SchemeIDs   []string `json:"scheme_ids,omitempty"`
}

// handleInitiate places an outbound call via the currently selected provider.
func (s *Server) handleInitiate(w http.ResponseWriter, r *http.Request) {
	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Phone == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phone is required"})
		return
	}

	result := s.deps.Dispatcher.Dispatch(r.Context(), dispatch.Request{
		Phone:       req.Phone,
		SubjectName: req.SubjectName,
		Language:    req.Language,
		SchemeIDs:   req.SchemeIDs,
	})

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, result)
}

// handlePreview reports what the opening of a call will say for the given
// name and language, without placing a call. Campaign operators use it to
// proof-read scripts.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	st := state.New(r.URL.Query().Get("name"), r.URL.Query().Get("lang"))
	doc := s.builder.Intro(st)
	writeJSON(w, http.StatusOK, map[string]any{
		"subject_name": st.SubjectName,
		"language":     st.Language,
		"lines":        twiml.SpokenText(doc),
	})
}

// schemeView is the JSON shape of one catalog entry.
type schemeView struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Benefit   string   `json:"benefit"`
	Documents []string `json:"documents"`
	ApplyAt   string   `json:"apply_at"`
}

// handleSchemes lists the scheme catalog, localized per the lang query param.
func (s *Server) handleSchemes(w http.ResponseWriter, r *http.Request) {
	locale := state.NormalizeLanguage(r.URL.Query().Get("lang"))
	records := s.deps.Catalog.All(r.Context())

	views := make([]schemeView, 0, len(records))
	for _, rec := range records {
		views = append(views, schemeView{
			ID:        rec.ID,
			Name:      rec.Name(locale),
			Benefit:   rec.Benefit,
			Documents: rec.Documents,
			ApplyAt:   rec.ApplyAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"schemes": views})
}

// eligibilityRequest is the operator request to dry-run the matching rules.
type eligibilityRequest struct {
	LandBracket   string `json:"land_bracket"`
	HasCreditLine bool   `json:"has_credit_line"`
	Language      string `json:"language,omitempty"`
}

// handleEligibilityCheck runs the eligibility rules outside of a call.
func (s *Server) handleEligibilityCheck(w http.ResponseWriter, r *http.Request) {
	var req eligibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	bracket := state.ParseLandBracket(strings.ToLower(strings.TrimSpace(req.LandBracket)))
	locale := state.NormalizeLanguage(req.Language)
	records := s.deps.Catalog.Eligible(r.Context(), bracket, req.HasCreditLine)

	ids := make([]string, 0, len(records))
	views := make([]schemeView, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
		views = append(views, schemeView{
			ID:        rec.ID,
			Name:      rec.Name(locale),
			Benefit:   rec.Benefit,
			Documents: rec.Documents,
			ApplyAt:   rec.ApplyAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scheme_ids": ids,
		"schemes":    views,
	})
}

// handleServiceStatus reports operational info for dashboards.
func (s *Server) handleServiceStatus(w http.ResponseWriter, r *http.Request) {
	provider := ""
	if s.deps.Selection != nil {
		provider = s.deps.Selection.Provider()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version":       version.Version,
		"uptime_s":      int(time.Since(s.startTime).Seconds()),
		"call_provider": provider,
		"base_url":      s.cfg.BaseURL,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz reports readiness. The engine is stateless; once the process
// serves traffic it is ready, but the active provider is surfaced so a
// misconfigured selection shows up in probes.
func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	provider := ""
	if s.deps.Selection != nil {
		provider = s.deps.Selection.Provider()
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":        "ready",
		"call_provider": provider,
	})
}
