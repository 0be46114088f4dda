package normalize

import "strings"

// Rough text-quality proxy, not a calibrated metric. Longer answers
// with visible structure score higher; hedging and refusals pull the
// score down. Always within [0, 10].
const (
	scoreBase = 5.0

	lengthBonusCap  = 2.0
	lengthBonusSpan = 500.0

	structureBonus = 1.0

	hedgePenalty    = 0.5
	hedgePenaltyCap = 1.5

	refusalPenalty = 2.0
)

var hedgeMarkers = []string{
	"i'm not sure",
	"i am not sure",
	"i can't be certain",
	"i cannot be certain",
	"it's hard to say",
	"it is difficult to say",
	"it depends",
	"i don't have enough information",
	"i may be wrong",
}

var refusalMarkers = []string{
	"i can't help with",
	"i cannot help with",
	"i can't assist with",
	"i cannot assist with",
	"i'm unable to",
	"i am unable to",
	"i won't provide",
}

// Score derives a 0-10 confidence value for a cleaned answer. The score
// is monotonically non-decreasing in content length for fixed marker
// counts.
func Score(content string) float64 {
	if content == "" {
		return 0
	}
	lower := strings.ToLower(content)

	score := scoreBase

	bonus := float64(len([]rune(content))) / lengthBonusSpan
	if bonus > lengthBonusCap {
		bonus = lengthBonusCap
	}
	score += bonus

	if hasStructure(content) {
		score += structureBonus
	}

	penalty := float64(countMarkers(lower, hedgeMarkers)) * hedgePenalty
	if penalty > hedgePenaltyCap {
		penalty = hedgePenaltyCap
	}
	score -= penalty

	if countMarkers(lower, refusalMarkers) > 0 {
		score -= refusalPenalty
	}

	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

// hasStructure reports whether the answer carries visible formatting:
// a code fence, bullet list, or numbered list.
func hasStructure(content string) bool {
	if strings.Contains(content, "```") {
		return true
	}
	for _, prefix := range []string{"- ", "* ", "1. "} {
		if strings.HasPrefix(content, prefix) || strings.Contains(content, "\n"+prefix) {
			return true
		}
	}
	return false
}

func countMarkers(lower string, markers []string) int {
	n := 0
	for _, m := range markers {
		n += strings.Count(lower, m)
	}
	return n
}
