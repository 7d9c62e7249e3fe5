package script

import (
	"encoding/xml"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicebridge/sahaya/internal/catalog"
	"github.com/voicebridge/sahaya/internal/state"
	"github.com/voicebridge/sahaya/internal/twiml"
)

const testBase = "https://sahaya.example.com"

func renderDoc(t *testing.T, doc *twiml.Response) string {
	t.Helper()
	body, err := doc.Render()
	require.NoError(t, err)

	// Every stage document must be well-formed markup.
	dec := xml.NewDecoder(strings.NewReader(string(body)))
	for {
		_, err := dec.Token()
		if err != nil {
			break
		}
	}
	return string(body)
}

// actionState extracts and decodes the state carried by the first gather
// action in the rendered document.
func actionState(t *testing.T, body string) state.ConversationState {
	t.Helper()
	idx := strings.Index(body, `action="`)
	require.GreaterOrEqual(t, idx, 0, "document has no gather action")
	rest := body[idx+len(`action="`):]
	raw := rest[:strings.Index(rest, `"`)]

	u, err := url.Parse(strings.ReplaceAll(raw, "&amp;", "&"))
	require.NoError(t, err)
	return state.Decode(u.Query())
}

func TestIntroAsksLandQuestion(t *testing.T) {
	b := NewBuilder(testBase)
	s := state.New("Ramesh", "hi-IN")

	body := renderDoc(t, b.Intro(s))

	assert.Contains(t, body, "Namaste Ramesh ji")
	assert.Contains(t, body, "Aadhaar")
	assert.Contains(t, body, "kitni zameen")
	assert.Contains(t, body, `voice="Polly.Kajal"`)
	assert.Contains(t, body, `finishOnKey=""`)
	assert.Contains(t, body, "<Hangup>")

	next := actionState(t, body)
	assert.Equal(t, state.StageLandSize, next.Stage)
	assert.Equal(t, "Ramesh", next.SubjectName)
	assert.Equal(t, "hi-IN", next.Language)
}

func TestIntroEnglishVoice(t *testing.T) {
	b := NewBuilder(testBase)
	s := state.New("Ramesh", "en-IN")

	body := renderDoc(t, b.Intro(s))

	assert.Contains(t, body, "Hello Ramesh")
	assert.Contains(t, body, `voice="Polly.Raveena"`)
	assert.Contains(t, body, `language="en-IN"`)
}

func TestAskCreditLineAdvancesStage(t *testing.T) {
	b := NewBuilder(testBase)
	s := state.New("Ramesh", "hi-IN")
	s.Stage = state.StageLandSize
	s.LandBracket = state.LandSmall

	body := renderDoc(t, b.AskCreditLine(s))

	assert.Contains(t, body, "Kisan Credit Card")

	next := actionState(t, body)
	assert.Equal(t, state.StageSchemeMatch, next.Stage)
	assert.Equal(t, state.LandSmall, next.LandBracket)
}

func TestRepromptsStayOnStage(t *testing.T) {
	b := NewBuilder(testBase)

	tests := []struct {
		name  string
		doc   func(state.ConversationState) *twiml.Response
		stage state.Stage
	}{
		{"land", b.RepromptLand, state.StageLandSize},
		{"credit", b.RepromptCreditLine, state.StageSchemeMatch},
		{"docs", b.RepromptDocs, state.StageDocGuidance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := state.New("Ramesh", "hi-IN")
			body := renderDoc(t, tt.doc(s))

			assert.Contains(t, body, "sahi jawab nahi")
			assert.Equal(t, tt.stage, actionState(t, body).Stage)
		})
	}
}

func TestSchemeMatchWithClip(t *testing.T) {
	b := NewBuilder(testBase)
	s := state.New("Ramesh", "hi-IN")
	s.Stage = state.StageSchemeMatch
	s.SchemeIDs = []string{"PM_KISAN", "PMFBY"}

	body := renderDoc(t, b.SchemeMatch(s, SchemeMatchInputs{
		Primary:     catalog.SchemeRecord{ID: "PM_KISAN"},
		Explanation: "Ramesh ji, PM Kisan mein aapko 6,000 rupaye milenge.",
		ClipURL:     "https://clips.example.com/voice_memory_pmkisan.mp3",
	}))

	assert.Contains(t, body, "6,000 rupaye")
	assert.Contains(t, body, "<Play>https://clips.example.com/voice_memory_pmkisan.mp3</Play>")
	assert.Contains(t, body, "anubhav")

	next := actionState(t, body)
	assert.Equal(t, state.StageDocGuidance, next.Stage)
	assert.Equal(t, []string{"PM_KISAN", "PMFBY"}, next.SchemeIDs)
}

func TestSchemeMatchWithoutClipOmitsPlay(t *testing.T) {
	b := NewBuilder(testBase)
	s := state.New("Ramesh", "hi-IN")

	body := renderDoc(t, b.SchemeMatch(s, SchemeMatchInputs{
		Primary:     catalog.SchemeRecord{ID: "MGNREGS"},
		Explanation: "Ramesh ji, yeh yojana aapke liye hai.",
	}))

	assert.NotContains(t, body, "<Play>")
	assert.NotContains(t, body, "anubhav")
}

func TestDocGuidanceReadsChecklist(t *testing.T) {
	b := NewBuilder(testBase)
	s := state.New("Ramesh", "hi-IN")
	s.Stage = state.StageDocGuidance

	rec := catalog.SchemeRecord{
		ID:        "PM_KISAN",
		Names:     map[string]string{"hi-IN": "पीएम किसान सम्मान निधि"},
		Documents: []string{"Aadhaar card", "Bank passbook"},
		ApplyAt:   "nazdiki CSC kendra",
	}
	body := renderDoc(t, b.DocGuidance(s, rec))

	assert.Contains(t, body, "2 kagaz")
	assert.Contains(t, body, "Number 1: Aadhaar card")
	assert.Contains(t, body, "Number 2: Bank passbook")
	assert.Contains(t, body, "nazdiki CSC kendra")
	assert.Contains(t, body, "SMS")
	assert.Contains(t, body, "doosri yojanaon")

	assert.Equal(t, state.StageClose, actionState(t, body).Stage)
}

func TestTerminalDocumentsHangUp(t *testing.T) {
	b := NewBuilder(testBase)
	s := state.New("Ramesh", "hi-IN")

	tests := []struct {
		name string
		body string
		want string
	}{
		{"referral", renderDoc(t, b.ReferralClose(s)), "3 din"},
		{"warm", renderDoc(t, b.WarmClose(s)), "Jai Kisan"},
		{"no input", renderDoc(t, b.NoInputClose(s)), "SMS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.body, tt.want)
			assert.Contains(t, tt.body, "<Hangup>")
			assert.NotContains(t, tt.body, "<Gather")
		})
	}
}

func TestSecondCloseSpeaksSecondScheme(t *testing.T) {
	b := NewBuilder(testBase)
	s := state.New("Ramesh", "hi-IN")
	s.Stage = state.StageClose

	body := renderDoc(t, b.SecondClose(s, SecondCloseInputs{
		Second:      catalog.SchemeRecord{ID: "PMFBY"},
		Explanation: "Ramesh ji, fasal bima aapki fasal ki suraksha karta hai.",
		ClipURL:     "https://clips.example.com/voice_memory_pmfby.mp3",
	}))

	assert.Contains(t, body, "ek aur yojana")
	assert.Contains(t, body, "fasal bima")
	assert.Contains(t, body, "voice_memory_pmfby.mp3")
	assert.Contains(t, body, "<Hangup>")
	assert.NotContains(t, body, "<Gather")
}

func TestErrorFallbackNeedsNoCollaborators(t *testing.T) {
	for _, lang := range []string{"hi-IN", "en-IN", "", "garbage"} {
		body := renderDoc(t, ErrorFallback(lang))
		assert.Contains(t, body, "SMS")
		assert.Contains(t, body, "<Hangup>")
	}
}

func TestStagePath(t *testing.T) {
	assert.Equal(t, IntroPath, StagePath(state.StageIntro))
	assert.Equal(t, "/api/call/stage/land", StagePath(state.StageLandSize))
	assert.Equal(t, "/api/call/stage/schemes", StagePath(state.StageSchemeMatch))
	assert.Equal(t, "/api/call/stage/docs", StagePath(state.StageDocGuidance))
	assert.Equal(t, "/api/call/stage/close", StagePath(state.StageClose))
}

func TestActionURLRoundTrips(t *testing.T) {
	s := state.New("Sita Devi", "en-IN")
	s.Stage = state.StageDocGuidance
	s.LandBracket = state.LandLarge
	s.SchemeIDs = []string{"PMFBY", "KCC"}

	u, err := url.Parse(ActionURL(testBase, s))
	require.NoError(t, err)

	assert.Equal(t, "/api/call/stage/docs", u.Path)
	assert.Equal(t, s, state.Decode(u.Query()))
}
