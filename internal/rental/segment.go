package rental

// segmentRule pairs a predicate over (r, f, m) scores with its label.
type segmentRule struct {
	label string
	match func(r, f, m int) bool
}

// segmentRules are evaluated in order; the first match wins.
var segmentRules = []segmentRule{
	{SegmentBest, func(r, f, m int) bool { return r >= 4 && f >= 4 && m >= 4 }},
	{SegmentGood, func(r, f, m int) bool { return r >= 3 && f >= 3 && m >= 3 }},
	{SegmentRegular, func(r, f, m int) bool { return r >= 2 && f >= 2 && m >= 2 }},
	{SegmentNeedsAttention, func(r, f, m int) bool { return r <= 2 && f >= 3 && m >= 3 }},
}

const (
	minScore = 1
	maxScore = 5
)

// segmentLookup caches the rule outcome for every score triple in [1,5]^3.
var segmentLookup [maxScore + 1][maxScore + 1][maxScore + 1]string

func init() {
	for r := minScore; r <= maxScore; r++ {
		for f := minScore; f <= maxScore; f++ {
			for m := minScore; m <= maxScore; m++ {
				segmentLookup[r][f][m] = classify(r, f, m)
			}
		}
	}
}

func classify(r, f, m int) string {
	for _, rule := range segmentRules {
		if rule.match(r, f, m) {
			return rule.label
		}
	}
	return SegmentLost
}

// SegmentFor returns the segment label for a score triple.
func SegmentFor(r, f, m int) string {
	if inScoreRange(r) && inScoreRange(f) && inScoreRange(m) {
		return segmentLookup[r][f][m]
	}
	return classify(r, f, m)
}

func inScoreRange(s int) bool {
	return s >= minScore && s <= maxScore
}
