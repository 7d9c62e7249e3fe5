// Package state carries the conversation across webhook round-trips.
//
// The carrier holds no session: everything the next stage needs travels in
// the action URL of the previous response. The codec in this package is the
// only place that reads or writes those parameters, and it is total: any
// input, including an empty or mangled webhook, decodes to a usable state.
package state

import (
	"strings"

	"golang.org/x/text/language"
)

// Stage is one discrete step of the conversation, bounded by exactly one
// webhook round-trip.
type Stage int

const (
	StageIntro Stage = iota
	StageLandSize
	StageSchemeMatch
	StageDocGuidance
	StageClose
)

var stageCodes = map[Stage]string{
	StageIntro:       "intro",
	StageLandSize:    "land",
	StageSchemeMatch: "schemes",
	StageDocGuidance: "docs",
	StageClose:       "close",
}

// Code returns the short token used in webhook URLs.
func (s Stage) Code() string {
	if c, ok := stageCodes[s]; ok {
		return c
	}
	return "intro"
}

func (s Stage) String() string { return s.Code() }

// ParseStage maps a URL token back to a stage; unknown tokens yield Intro,
// which restarts the call rather than dropping it.
func ParseStage(code string) Stage {
	for stage, c := range stageCodes {
		if c == code {
			return stage
		}
	}
	return StageIntro
}

// LandBracket is the coarse land-holding answer collected at the LandSize stage.
type LandBracket string

const (
	LandUnset  LandBracket = ""
	LandSmall  LandBracket = "small"
	LandMedium LandBracket = "medium"
	LandLarge  LandBracket = "large"
)

// ParseLandBracket maps a URL token to a bracket. Absent input stays unset;
// anything else unrecognisable falls back to medium, the documented default.
func ParseLandBracket(token string) LandBracket {
	switch LandBracket(token) {
	case LandUnset, LandSmall, LandMedium, LandLarge:
		return LandBracket(token)
	default:
		return LandMedium
	}
}

// BracketFromDigit maps the keypad answer 1/2/3 to a bracket.
func BracketFromDigit(digit string) (LandBracket, bool) {
	switch digit {
	case "1":
		return LandSmall, true
	case "2":
		return LandMedium, true
	case "3":
		return LandLarge, true
	default:
		return LandUnset, false
	}
}

// Answer is a yes/no question that may not have been asked yet.
type Answer int

const (
	AnswerUnset Answer = iota
	AnswerYes
	AnswerNo
)

func (a Answer) token() string {
	switch a {
	case AnswerYes:
		return "1"
	case AnswerNo:
		return "0"
	default:
		return ""
	}
}

func parseAnswer(token string) Answer {
	switch token {
	case "1":
		return AnswerYes
	case "0":
		return AnswerNo
	default:
		return AnswerUnset
	}
}

// Bool reports the answer with unset treated as no.
func (a Answer) Bool() bool { return a == AnswerYes }

// Supported locales. The first entry is the default.
var supportedLocales = []language.Tag{
	language.MustParse("hi-IN"),
	language.MustParse("en-IN"),
}

var localeMatcher = language.NewMatcher(supportedLocales)

// DefaultLanguage is the locale used when the webhook carries none.
const DefaultLanguage = "hi-IN"

// NormalizeLanguage maps arbitrary locale input onto a supported locale.
func NormalizeLanguage(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLanguage
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return DefaultLanguage
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return DefaultLanguage
	}
	return supportedLocales[idx].String()
}

// ConversationState is the single source of truth for an in-progress call.
// It is reconstructed from each inbound webhook and never stored server-side.
type ConversationState struct {
	SubjectName string
	Language    string
	LandBracket LandBracket
	CreditLine  Answer
	SchemeIDs   []string // matched scheme identifiers, at most two retained
	Stage       Stage
}

// DefaultSubjectName is used when the dispatcher supplied no name.
const DefaultSubjectName = "Kisan"

// New returns the state of a freshly answered call.
func New(subjectName, lang string) ConversationState {
	if subjectName == "" {
		subjectName = DefaultSubjectName
	}
	return ConversationState{
		SubjectName: sanitizeName(subjectName),
		Language:    NormalizeLanguage(lang),
		Stage:       StageIntro,
	}
}

// PrimaryScheme returns the first matched scheme id, if any.
func (s ConversationState) PrimaryScheme() (string, bool) {
	if len(s.SchemeIDs) == 0 {
		return "", false
	}
	return s.SchemeIDs[0], true
}

// SecondScheme returns the second matched scheme id, if any.
func (s ConversationState) SecondScheme() (string, bool) {
	if len(s.SchemeIDs) < 2 {
		return "", false
	}
	return s.SchemeIDs[1], true
}

// EffectiveBracket resolves an unset land bracket to the documented default.
func (s ConversationState) EffectiveBracket() LandBracket {
	if s.LandBracket == LandUnset {
		return LandMedium
	}
	return s.LandBracket
}
