package catalog

import "github.com/voicebridge/sahaya/internal/state"

// matchRules maps (land bracket, has credit line) to the two schemes the call
// recommends, primary first. Farmers without a credit line are always pointed
// at KCC; larger holdings shift the primary recommendation towards crop
// insurance.
var matchRules = map[state.LandBracket]map[bool][]string{
	state.LandSmall: {
		true:  {"PM_KISAN", "PMFBY"},
		false: {"PM_KISAN", "KCC"},
	},
	state.LandMedium: {
		true:  {"PM_KISAN", "PMFBY"},
		false: {"PM_KISAN", "KCC"},
	},
	state.LandLarge: {
		true:  {"PMFBY", "PM_KISAN"},
		false: {"KCC", "PMFBY"},
	},
}

// MatchSchemes returns the scheme ids for the given answers, primary first.
// The result is never empty; unknown brackets match as medium.
func MatchSchemes(bracket state.LandBracket, hasCreditLine bool) []string {
	byCredit, ok := matchRules[bracket]
	if !ok {
		byCredit = matchRules[state.LandMedium]
	}
	ids := byCredit[hasCreditLine]
	if len(ids) == 0 {
		return []string{BaselineScheme}
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
