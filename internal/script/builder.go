package script

import (
	"fmt"

	"github.com/voicebridge/sahaya/internal/catalog"
	"github.com/voicebridge/sahaya/internal/state"
	"github.com/voicebridge/sahaya/internal/twiml"
)

// gatherTimeout is the seconds of silence the carrier waits for a digit
// before posting the action URL with no input.
const gatherTimeout = 6

// Builder renders the markup document for each conversation stage. It is
// stateless; every method takes the decoded conversation state and returns a
// complete document the carrier can execute.
type Builder struct {
	baseURL string
}

// NewBuilder creates a builder whose action URLs are rooted at baseURL.
func NewBuilder(baseURL string) *Builder {
	return &Builder{baseURL: baseURL}
}

func (b *Builder) say(p promptSet, lang, text string) twiml.Say {
	return twiml.Say{Voice: p.voice, Language: lang, Text: text}
}

// gather wraps spoken verbs in a single-digit prompt whose action posts back
// to the stage recorded in next.
func (b *Builder) gather(next state.ConversationState, verbs ...twiml.Verb) twiml.Gather {
	return twiml.Gather{
		NumDigits:   1,
		Action:      ActionURL(b.baseURL, next),
		Method:      "POST",
		Timeout:     gatherTimeout,
		FinishOnKey: "",
		Verbs:       verbs,
	}
}

// Intro opens the call: greeting, anti-fraud notice, then the land question.
// The gather posts to the LandSize stage.
func (b *Builder) Intro(s state.ConversationState) *twiml.Response {
	p := promptsFor(s.Language)

	next := s
	next.Stage = state.StageLandSize

	doc := &twiml.Response{}
	doc.Append(
		b.say(p, s.Language, fmt.Sprintf(p.greeting, s.SubjectName)),
		twiml.Pause{Length: 1},
		b.say(p, s.Language, p.antiFraud),
		twiml.Pause{Length: 1},
		b.gather(next,
			b.say(p, s.Language, p.infoLead),
			b.say(p, s.Language, p.landQuestion),
		),
		// No input before any scheme matched: no SMS is due yet, promise a
		// retry call instead of looping forever.
		b.say(p, s.Language, p.noInputRetry),
		twiml.Hangup{},
	)
	return doc
}

// AskCreditLine acknowledges the land answer and asks the credit-line
// question. The gather posts to the SchemeMatch stage.
func (b *Builder) AskCreditLine(s state.ConversationState) *twiml.Response {
	p := promptsFor(s.Language)

	next := s
	next.Stage = state.StageSchemeMatch

	doc := &twiml.Response{}
	doc.Append(
		b.gather(next,
			b.say(p, s.Language, p.ackNext),
			b.say(p, s.Language, p.creditQuestion),
		),
		b.say(p, s.Language, p.noInputRetry),
		twiml.Hangup{},
	)
	return doc
}

// RepromptLand re-asks the land question after an invalid digit.
func (b *Builder) RepromptLand(s state.ConversationState) *twiml.Response {
	p := promptsFor(s.Language)

	next := s
	next.Stage = state.StageLandSize

	doc := &twiml.Response{}
	doc.Append(
		b.gather(next,
			b.say(p, s.Language, p.reprompt),
			b.say(p, s.Language, p.landQuestion),
		),
		b.say(p, s.Language, p.noInputRetry),
		twiml.Hangup{},
	)
	return doc
}

// RepromptCreditLine re-asks the credit-line question after an invalid digit.
func (b *Builder) RepromptCreditLine(s state.ConversationState) *twiml.Response {
	p := promptsFor(s.Language)

	next := s
	next.Stage = state.StageSchemeMatch

	doc := &twiml.Response{}
	doc.Append(
		b.gather(next,
			b.say(p, s.Language, p.reprompt),
			b.say(p, s.Language, p.creditQuestion),
		),
		b.say(p, s.Language, p.noInputRetry),
		twiml.Hangup{},
	)
	return doc
}

// SchemeMatchInputs carries the collaborator results for the match stage.
type SchemeMatchInputs struct {
	Primary     catalog.SchemeRecord
	Explanation string
	ClipURL     string // empty when no peer clip is available
}

// SchemeMatch announces the matched scheme, speaks the personalized
// explanation, optionally plays a peer clip, then asks the documents
// question. The gather posts to the DocGuidance stage.
func (b *Builder) SchemeMatch(s state.ConversationState, in SchemeMatchInputs) *twiml.Response {
	p := promptsFor(s.Language)

	next := s
	next.Stage = state.StageDocGuidance

	doc := &twiml.Response{}
	doc.Append(
		b.say(p, s.Language, fmt.Sprintf(p.matchFound, s.SubjectName)),
		b.say(p, s.Language, in.Explanation),
	)
	if in.ClipURL != "" {
		doc.Append(
			b.say(p, s.Language, p.peerLead),
			twiml.Play{URL: in.ClipURL},
		)
	}
	doc.Append(
		twiml.Pause{Length: 1},
		b.gather(next, b.say(p, s.Language, p.docsQuestion)),
		b.say(p, s.Language, p.noInputSMS),
		twiml.Hangup{},
	)
	return doc
}

// RepromptDocs re-asks the documents question after an invalid digit.
func (b *Builder) RepromptDocs(s state.ConversationState) *twiml.Response {
	p := promptsFor(s.Language)

	next := s
	next.Stage = state.StageDocGuidance

	doc := &twiml.Response{}
	doc.Append(
		b.gather(next,
			b.say(p, s.Language, p.reprompt),
			b.say(p, s.Language, p.docsQuestion),
		),
		b.say(p, s.Language, p.noInputSMS),
		twiml.Hangup{},
	)
	return doc
}

// DocGuidance reads out the document checklist for the primary scheme,
// confirms the SMS, and asks the second-scheme question. The gather posts to
// the Close stage.
func (b *Builder) DocGuidance(s state.ConversationState, primary catalog.SchemeRecord) *twiml.Response {
	p := promptsFor(s.Language)

	next := s
	next.Stage = state.StageClose

	doc := &twiml.Response{}
	doc.Append(b.say(p, s.Language, fmt.Sprintf(p.docsNeeded, primary.Name(s.Language), len(primary.Documents))))
	for i, d := range primary.Documents {
		doc.Append(b.say(p, s.Language, fmt.Sprintf(p.docsItem, i+1, d)))
	}
	doc.Append(
		b.say(p, s.Language, fmt.Sprintf(p.applyAt, primary.ApplyAt)),
		twiml.Pause{Length: 1},
		b.say(p, s.Language, p.smsSent),
		b.gather(next, b.say(p, s.Language, p.secondQuestion)),
		b.say(p, s.Language, fmt.Sprintf(p.warmClose, s.SubjectName)),
		twiml.Hangup{},
	)
	return doc
}

// ReferralClose ends the call when the subject defers the checklist: the SMS
// carries the details and a follow-up call is promised.
func (b *Builder) ReferralClose(s state.ConversationState) *twiml.Response {
	p := promptsFor(s.Language)

	doc := &twiml.Response{}
	doc.Append(
		b.say(p, s.Language, fmt.Sprintf(p.laterClose, s.SubjectName)),
		twiml.Hangup{},
	)
	return doc
}

// SecondCloseInputs carries the collaborator results for the optional second
// scheme.
type SecondCloseInputs struct {
	Second      catalog.SchemeRecord
	Explanation string
	ClipURL     string
}

// SecondClose explains the second matched scheme and ends the call.
func (b *Builder) SecondClose(s state.ConversationState, in SecondCloseInputs) *twiml.Response {
	p := promptsFor(s.Language)

	doc := &twiml.Response{}
	doc.Append(
		b.say(p, s.Language, fmt.Sprintf(p.secondIntro, s.SubjectName)),
		b.say(p, s.Language, in.Explanation),
	)
	if in.ClipURL != "" {
		doc.Append(
			b.say(p, s.Language, p.peerLead),
			twiml.Play{URL: in.ClipURL},
		)
	}
	doc.Append(
		b.say(p, s.Language, fmt.Sprintf(p.finalClose, s.SubjectName)),
		twiml.Hangup{},
	)
	return doc
}

// WarmClose ends the call after a declined second scheme or when no second
// scheme matched.
func (b *Builder) WarmClose(s state.ConversationState) *twiml.Response {
	p := promptsFor(s.Language)

	doc := &twiml.Response{}
	doc.Append(
		b.say(p, s.Language, fmt.Sprintf(p.warmClose, s.SubjectName)),
		twiml.Hangup{},
	)
	return doc
}

// NoInputClose ends the call when a gather timed out: silence is read as a
// polite no, the SMS still goes out.
func (b *Builder) NoInputClose(s state.ConversationState) *twiml.Response {
	p := promptsFor(s.Language)

	doc := &twiml.Response{}
	doc.Append(
		b.say(p, s.Language, p.noInputSMS),
		twiml.Hangup{},
	)
	return doc
}

// ErrorFallback is the document served when a stage handler panics. It must
// render without touching any collaborator, so it is built from prompts only.
func ErrorFallback(lang string) *twiml.Response {
	p := promptsFor(state.NormalizeLanguage(lang))

	doc := &twiml.Response{}
	doc.Append(
		twiml.Say{Voice: p.voice, Language: state.NormalizeLanguage(lang), Text: p.genericError},
		twiml.Hangup{},
	)
	return doc
}
