package state

import (
	"net/url"
	"strings"
	"unicode"
)

// Webhook parameter names. Query parameters carry the encoded prior state;
// the form body carries what the carrier collected during this round-trip.
const (
	paramName    = "name"
	paramLang    = "lang"
	paramLand    = "land"
	paramCredit  = "kcc"
	paramSchemes = "schemes"
	paramStage   = "stage"

	// FormDigits is the carrier form field holding the collected keypad digit.
	FormDigits = "Digits"
	// FormCallSID is the carrier form field holding the call identifier.
	FormCallSID = "CallSid"
	// FormTo is the carrier form field holding the callee's phone number.
	FormTo = "To"
	// FormCallStatus is the carrier form field on status callbacks.
	FormCallStatus = "CallStatus"
	// FormCallDuration is the carrier form field holding the call length in
	// seconds, present on terminal status callbacks.
	FormCallDuration = "CallDuration"
)

const (
	maxNameLen   = 64
	maxSchemeLen = 48
	maxSchemes   = 2
)

// Encode serialises the state into URL query parameters. Field order is
// deterministic (url.Values sorts keys on Encode) and unanswered questions
// are omitted so they decode back to unset.
func Encode(s ConversationState) url.Values {
	v := url.Values{}
	name := sanitizeName(s.SubjectName)
	if name == "" {
		name = DefaultSubjectName
	}
	v.Set(paramName, name)
	v.Set(paramLang, NormalizeLanguage(s.Language))
	v.Set(paramStage, s.Stage.Code())
	if s.LandBracket != LandUnset {
		v.Set(paramLand, string(s.LandBracket))
	}
	if tok := s.CreditLine.token(); tok != "" {
		v.Set(paramCredit, tok)
	}
	if ids := sanitizeSchemes(s.SchemeIDs); len(ids) > 0 {
		v.Set(paramSchemes, strings.Join(ids, ","))
	}
	return v
}

// Decode reconstructs the state from webhook query parameters. It is total:
// every field that is missing or malformed is substituted with its default,
// because a failed decode could only surface to the caller as dead air.
func Decode(query url.Values) ConversationState {
	if query == nil {
		query = url.Values{}
	}

	s := ConversationState{
		SubjectName: sanitizeName(query.Get(paramName)),
		Language:    NormalizeLanguage(query.Get(paramLang)),
		Stage:       ParseStage(query.Get(paramStage)),
		CreditLine:  parseAnswer(query.Get(paramCredit)),
		SchemeIDs:   sanitizeSchemes(strings.Split(query.Get(paramSchemes), ",")),
	}
	if s.SubjectName == "" {
		s.SubjectName = DefaultSubjectName
	}
	if query.Has(paramLand) {
		s.LandBracket = ParseLandBracket(query.Get(paramLand))
	}
	return s
}

// Digit extracts the collected keypad digit from the carrier form body.
// ok is false when the gather timed out and no digit arrived.
func Digit(form url.Values) (string, bool) {
	if form == nil {
		return "", false
	}
	d := strings.TrimSpace(form.Get(FormDigits))
	if len(d) == 0 {
		return "", false
	}
	// Carriers may report multi-digit input on retries; the flow only ever
	// asks for one.
	d = d[:1]
	if d[0] < '0' || d[0] > '9' {
		return "", false
	}
	return d, true
}

func sanitizeName(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '.' || r == '-' || r == '\'' {
			b.WriteRune(r)
		}
		if b.Len() >= maxNameLen {
			break
		}
	}
	return strings.TrimSpace(b.String())
}

func sanitizeSchemes(raw []string) []string {
	out := make([]string, 0, maxSchemes)
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" || len(id) > maxSchemeLen || !isSchemeID(id) {
			continue
		}
		out = append(out, id)
		if len(out) == maxSchemes {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isSchemeID(id string) bool {
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}
