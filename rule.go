package unhalo

// TranslucentFactor scales the threshold for the translucent-bright rule.
const TranslucentFactor = 0.85

// Rule identifies which white-ish heuristic matched a pixel.
type Rule uint8

const (
	// RuleNone means the pixel is kept unchanged.
	RuleNone Rule = iota

	// RuleHardWhite matches when every colour channel reaches the threshold.
	RuleHardWhite

	// RuleAverageWhite matches when the mean of the colour channels reaches
	// the threshold.
	RuleAverageWhite

	// RuleTranslucentBright matches a partially transparent pixel whose mean
	// reaches TranslucentFactor times the threshold.
	RuleTranslucentBright
)

// String returns the rule name.
func (r Rule) String() string {
	switch r {
	case RuleNone:
		return "none"
	case RuleHardWhite:
		return "hard-white"
	case RuleAverageWhite:
		return "average-white"
	case RuleTranslucentBright:
		return "translucent-bright"
	default:
		return "unknown"
	}
}

// Classify returns the first rule matching the pixel (r, g, b, a) under
// threshold t, or RuleNone.
//
// Averages use float64 true division and every comparison is inclusive, so
// a mean of exactly t counts as white.
func Classify(r, g, b, a uint8, t int) Rule {
	ri, gi, bi := int(r), int(g), int(b)
	if ri >= t && gi >= t && bi >= t {
		return RuleHardWhite
	}

	avg := float64(ri+gi+bi) / 3
	if avg >= float64(t) {
		return RuleAverageWhite
	}
	if a < 255 && avg >= float64(t)*TranslucentFactor {
		return RuleTranslucentBright
	}
	return RuleNone
}
