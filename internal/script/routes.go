package script

import (
	"github.com/voicebridge/sahaya/internal/state"
)

// Webhook route paths. The Intro path keeps its historical name: it is the
// answer URL handed to carriers and changing it breaks in-flight campaigns.
const (
	IntroPath  = "/api/call/twiml"
	StatusPath = "/api/call/status"

	stagePrefix = "/api/call/stage/"
)

// StagePath returns the webhook path serving the given stage.
func StagePath(st state.Stage) string {
	if st == state.StageIntro {
		return IntroPath
	}
	return stagePrefix + st.Code()
}

// ActionURL builds the absolute next-action URL carrying the encoded state.
func ActionURL(base string, s state.ConversationState) string {
	return base + StagePath(s.Stage) + "?" + state.Encode(s).Encode()
}
