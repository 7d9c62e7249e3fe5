package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	xlog "github.com/voicebridge/sahaya/internal/log"
	"github.com/voicebridge/sahaya/internal/metrics"
	"github.com/voicebridge/sahaya/internal/script"
	"github.com/voicebridge/sahaya/internal/state"
	"github.com/voicebridge/sahaya/internal/twiml"
)

// writeMarkup renders the document onto the carrier connection. A render
// failure degrades to the spoken fallback; the carrier always gets markup.
func (s *Server) writeMarkup(w http.ResponseWriter, lang string, doc *twiml.Response) {
	body, err := doc.Render()
	if err != nil {
		s.logger.Error().Err(err).Msg("markup render failed, serving spoken fallback")
		body, err = script.ErrorFallback(lang).Render()
		if err != nil {
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	w.Header().Set("Content-Type", twiml.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// webhookLogger annotates the request logger with call correlation fields.
func (s *Server) webhookLogger(r *http.Request) zerolog.Logger {
	ctx := xlog.ContextWithCallSID(r.Context(), r.PostForm.Get(state.FormCallSID))
	return xlog.WithContext(ctx, s.logger)
}

// handleIntro serves the answer webhook: the first document of every call.
func (s *Server) handleIntro(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	st := state.Decode(r.URL.Query())
	st.Stage = state.StageIntro
	metrics.IncWebhookStage(st.Stage.Code())

	logger := s.webhookLogger(r)
	logger.Info().
		Str(xlog.FieldStage, st.Stage.Code()).
		Str(xlog.FieldSubject, st.SubjectName).
		Str(xlog.FieldLanguage, st.Language).
		Msg("call answered")

	s.writeMarkup(w, st.Language, s.builder.Intro(st))
}

// handleStage serves every webhook after the intro. Each stage consumes the
// digit answering the previous prompt, updates the state and returns the next
// document. Invalid digits re-prompt the same question; an absent digit means
// the carrier played out the in-document timeout path and this request is a
// stray, answered with the polite close.
func (s *Server) handleStage(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	st := state.Decode(r.URL.Query())
	st.Stage = state.ParseStage(chi.URLParam(r, "stage"))
	metrics.IncWebhookStage(st.Stage.Code())

	digit, ok := state.Digit(r.PostForm)
	logger := s.webhookLogger(r)
	logger.Info().
		Str(xlog.FieldStage, st.Stage.Code()).
		Str(xlog.FieldDigit, digit).
		Msg("webhook stage")

	if !ok {
		s.writeMarkup(w, st.Language, s.builder.NoInputClose(st))
		return
	}

	switch st.Stage {
	case state.StageLandSize:
		s.stageLandSize(w, r, st, digit)
	case state.StageSchemeMatch:
		s.stageSchemeMatch(w, r, st, digit)
	case state.StageDocGuidance:
		s.stageDocGuidance(w, r, st, digit)
	case state.StageClose:
		s.stageClose(w, r, st, digit)
	default:
		// Unknown stage tokens decode to Intro; restart the conversation.
		s.writeMarkup(w, st.Language, s.builder.Intro(st))
	}
}

func (s *Server) stageLandSize(w http.ResponseWriter, r *http.Request, st state.ConversationState, digit string) {
	bracket, ok := state.BracketFromDigit(digit)
	if !ok {
		metrics.IncDigitReprompt(st.Stage.Code())
		s.writeMarkup(w, st.Language, s.builder.RepromptLand(st))
		return
	}
	st.LandBracket = bracket
	s.writeMarkup(w, st.Language, s.builder.AskCreditLine(st))
}

func (s *Server) stageSchemeMatch(w http.ResponseWriter, r *http.Request, st state.ConversationState, digit string) {
	switch digit {
	case "1":
		st.CreditLine = state.AnswerYes
	case "2":
		st.CreditLine = state.AnswerNo
	default:
		metrics.IncDigitReprompt(st.Stage.Code())
		s.writeMarkup(w, st.Language, s.builder.RepromptCreditLine(st))
		return
	}

	ctx := r.Context()
	records := s.deps.Catalog.Eligible(ctx, st.EffectiveBracket(), st.CreditLine.Bool())
	st.SchemeIDs = st.SchemeIDs[:0]
	for _, rec := range records {
		st.SchemeIDs = append(st.SchemeIDs, rec.ID)
	}

	primary := records[0]
	explanation := s.deps.Explain.Explain(ctx, st.SubjectName, primary, st.EffectiveBracket(), st.CreditLine.Bool(), st.Language)
	clipURL, _ := s.deps.Clips.Locate(ctx, primary.ID, st.Language)

	// The checklist SMS goes out the moment a match exists, not when the
	// subject confirms: a dropped call must still leave them the details.
	if phone := r.PostForm.Get(state.FormTo); phone != "" {
		s.deps.Notifier.SendChecklist(phone, st.Language, records)
	}

	s.writeMarkup(w, st.Language, s.builder.SchemeMatch(st, script.SchemeMatchInputs{
		Primary:     primary,
		Explanation: explanation,
		ClipURL:     clipURL,
	}))
}

func (s *Server) stageDocGuidance(w http.ResponseWriter, r *http.Request, st state.ConversationState, digit string) {
	switch digit {
	case "1":
		id, ok := st.PrimaryScheme()
		if !ok {
			// A hand-edited URL can reach this stage without a match.
			s.writeMarkup(w, st.Language, s.builder.Intro(st))
			return
		}
		primary := s.deps.Catalog.Scheme(r.Context(), id)
		s.writeMarkup(w, st.Language, s.builder.DocGuidance(st, primary))
	case "2":
		s.writeMarkup(w, st.Language, s.builder.ReferralClose(st))
	default:
		metrics.IncDigitReprompt(st.Stage.Code())
		s.writeMarkup(w, st.Language, s.builder.RepromptDocs(st))
	}
}

func (s *Server) stageClose(w http.ResponseWriter, r *http.Request, st state.ConversationState, digit string) {
	id, hasSecond := st.SecondScheme()
	if digit != "1" || !hasSecond {
		// Anything but an explicit yes ends the call warmly; the SMS already
		// carries both schemes.
		s.writeMarkup(w, st.Language, s.builder.WarmClose(st))
		return
	}

	ctx := r.Context()
	second := s.deps.Catalog.Scheme(ctx, id)
	explanation := s.deps.Explain.Explain(ctx, st.SubjectName, second, st.EffectiveBracket(), st.CreditLine.Bool(), st.Language)
	clipURL, _ := s.deps.Clips.Locate(ctx, second.ID, st.Language)

	s.writeMarkup(w, st.Language, s.builder.SecondClose(st, script.SecondCloseInputs{
		Second:      second,
		Explanation: explanation,
		ClipURL:     clipURL,
	}))
}

// handleCallStatus ingests carrier status callbacks. They only feed metrics
// and logs; the carrier expects nothing back.
func (s *Server) handleCallStatus(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	status := r.PostForm.Get(state.FormCallStatus)
	if status != "" {
		metrics.IncCallStatus(status)
	}
	if raw := r.PostForm.Get(state.FormCallDuration); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil {
			metrics.ObserveCallDuration(seconds)
		}
	}

	ctx := xlog.ContextWithCallSID(r.Context(), r.PostForm.Get(state.FormCallSID))
	logger := xlog.WithContext(ctx, s.logger)
	logger.Info().
		Str(xlog.FieldCallStatus, status).
		Str(xlog.FieldDurationS, r.PostForm.Get(state.FormCallDuration)).
		Msg("call status")

	w.WriteHeader(http.StatusNoContent)
}
