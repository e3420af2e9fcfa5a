package learning

import "groupRecommender/domain"

const (
	minWeight = 0.05
	maxWeight = 0.60
)

// DefaultWeights apply until a user has given enough feedback.
func DefaultWeights() domain.WeightSet {
	return domain.WeightSet{
		Personality: 0.40,
		Interest:    0.35,
		SocialNeeds: 0.15,
		Motivations: 0.10,
	}
}

// reasonAdjustments nudges the weights towards whatever the user said made
// the chosen group better.
var reasonAdjustments = map[string]domain.WeightSet{
	domain.ReasonBetterInterestMatch: {
		Interest: 0.05, Personality: -0.02, SocialNeeds: -0.02, Motivations: -0.01,
	},
	domain.ReasonMoreWelcoming: {
		SocialNeeds: 0.05, Personality: -0.02, Interest: -0.02, Motivations: -0.01,
	},
	domain.ReasonBetterPersonalityFit: {
		Personality: 0.05, Interest: -0.02, SocialNeeds: -0.02, Motivations: -0.01,
	},
	domain.ReasonMoreConvenient:    {Interest: 0.02, Personality: -0.01},
	domain.ReasonLargerGroup:       {SocialNeeds: 0.03, Personality: 0.02},
	domain.ReasonMoreStructured:    {Personality: 0.03, SocialNeeds: 0.02},
	domain.ReasonMoreCasual:        {Personality: -0.02, SocialNeeds: 0.02},
	domain.ReasonBetterDescription: {Interest: 0.02},
}

// KnownReason reports whether the code moves the weights.
func KnownReason(code string) bool {
	_, ok := reasonAdjustments[code]
	return ok
}

// adjustmentFor sums the table entries of every known code. Unknown codes are
// skipped so newer clients can send reasons this server has not learned yet.
func adjustmentFor(codes []string) domain.WeightSet {
	var total domain.WeightSet
	for _, c := range codes {
		if adj, ok := reasonAdjustments[c]; ok {
			total = total.Add(adj)
		}
	}
	return total
}

// finalize normalizes the adjusted weights, clamps each to [0.05, 0.60] and
// renormalizes. When a plain rescale would push a component back out of the
// bounds, the second pass instead finds the scale at which the clamped
// components sum to 1, so the result always honours both constraints.
func finalize(w domain.WeightSet) domain.WeightSet {
	total := w.Sum()
	if total <= 0 {
		return DefaultWeights()
	}

	v := w.Values()
	for i := range v {
		v[i] = min(max(v[i]/total, minWeight), maxWeight)
	}

	return domain.WeightSetFromValues(renormalizeBounded(v))
}

// renormalizeBounded expects every value already inside the bounds.
func renormalizeBounded(v [4]float64) [4]float64 {
	sum := v[0] + v[1] + v[2] + v[3]
	var plain [4]float64
	for i, x := range v {
		plain[i] = x / sum
	}
	if inBounds(plain) {
		return plain
	}

	// sum(clamp(s*v)) grows monotonically from 4*min to 4*max as s goes from
	// 0 to max/min(v), so bisection finds the scale giving a total of 1.
	smallest := min(v[0], v[1], v[2], v[3])
	lo, hi := 0.0, maxWeight/smallest
	for range 200 {
		mid := (lo + hi) / 2
		c := scaled(v, mid)
		if c[0]+c[1]+c[2]+c[3] < 1 {
			lo = mid
		} else {
			hi = mid
		}
	}

	return scaled(v, (lo+hi)/2)
}

func scaled(v [4]float64, s float64) [4]float64 {
	var out [4]float64
	for i, x := range v {
		out[i] = min(max(x*s, minWeight), maxWeight)
	}
	return out
}

func inBounds(v [4]float64) bool {
	for _, x := range v {
		if x < minWeight || x > maxWeight {
			return false
		}
	}
	return true
}
