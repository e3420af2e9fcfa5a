package personality

import (
	"strings"

	"groupRecommender/domain"
)

const (
	highTraitThreshold = 11
	lowTraitThreshold  = 6

	neutralScore = 0.5
	flexibleFit  = 0.7
)

// dimensionWeights drive the overall fit. Dimensions that were not computed
// are left out and the remaining weights renormalized.
var dimensionWeights = []struct {
	name   string
	weight float64
}{
	{domain.DimExtraversion, 0.25},
	{domain.DimConscientiousness, 0.25},
	{domain.DimOpenness, 0.20},
	{domain.DimSocialNeeds, 0.15},
	{domain.DimMotivations, 0.15},
}

var (
	creativeKeywords = []string{
		"creative", "art", "experimental", "diverse", "novel", "innovative",
		"explore", "discover", "variety", "different", "unique", "unconventional",
	}
	traditionalKeywords = []string{
		"traditional", "classic", "routine", "established", "conventional",
		"regular", "standard", "familiar", "consistent",
	}
)

// TraitLevel buckets a 2..14 trait score.
func TraitLevel(score int) string {
	switch {
	case score <= lowTraitThreshold:
		return domain.TraitLow
	case score >= highTraitThreshold:
		return domain.TraitHigh
	default:
		return domain.TraitMedium
	}
}

// MatchExtraversion prefers large groups for extraverts and small ones for
// introverts. A large group costs an introvert more (0.2) than a small group
// costs an extravert (0.3).
func MatchExtraversion(score int, g domain.Group) float64 {
	switch TraitLevel(score) {
	case domain.TraitHigh:
		switch g.GroupSizeCategory {
		case domain.SizeLarge:
			return 1.0
		case domain.SizeMedium:
			return 0.7
		default:
			return 0.3
		}
	case domain.TraitLow:
		switch g.GroupSizeCategory {
		case domain.SizeSmall:
			return 1.0
		case domain.SizeMedium:
			return 0.7
		default:
			return 0.2
		}
	default:
		return flexibleFit
	}
}

func MatchConscientiousness(score int, g domain.Group) float64 {
	switch TraitLevel(score) {
	case domain.TraitHigh:
		switch g.StructureLevel {
		case domain.StructureStructured:
			return 1.0
		case domain.StructureSemiStructured:
			return 0.7
		default:
			return 0.3
		}
	case domain.TraitLow:
		switch g.StructureLevel {
		case domain.StructureFlexible:
			return 1.0
		case domain.StructureSemiStructured:
			return 0.7
		default:
			return 0.2
		}
	default:
		return flexibleFit
	}
}

// MatchOpenness scans the description for novelty or routine keywords.
// Matching is by substring, so "art" also hits "party".
func MatchOpenness(score int, g domain.Group) float64 {
	if g.Description == "" {
		return neutralScore
	}

	desc := strings.ToLower(g.Description)

	switch TraitLevel(score) {
	case domain.TraitHigh:
		if containsAny(desc, creativeKeywords...) {
			return 1.0
		}
		if containsAny(desc, "diverse", "variety") {
			return 0.8
		}
		return neutralScore
	case domain.TraitLow:
		if containsAny(desc, traditionalKeywords...) {
			return 1.0
		}
		if containsAny(desc, "regular", "routine") {
			return 0.8
		}
		return neutralScore
	default:
		return flexibleFit
	}
}

// MatchSocialNeeds favours welcoming, small and community oriented groups for
// users who report loneliness, few friends or low satisfaction.
func MatchSocialNeeds(sn *domain.SocialNeeds, g domain.Group) float64 {
	if sn.IsEmpty() {
		return neutralScore
	}

	desc := strings.ToLower(g.Description)
	var score, maxScore float64

	if intOr(sn.LonelinessFrequency, 3) >= 4 {
		maxScore += 0.3
		if g.IsNewcomerFriendly() {
			score += 0.3
		}
		if g.MeetingFrequency == "weekly" || g.MeetingFrequency == "biweekly" {
			score += 0.2
		}
		if g.Atmosphere == "welcoming" || strings.Contains(desc, "welcoming") {
			score += 0.2
		}
	}

	if intOr(sn.CloseFriendsCount, 5) <= 3 {
		maxScore += 0.3
		switch g.GroupSizeCategory {
		case domain.SizeSmall:
			score += 0.3
		case domain.SizeMedium:
			score += 0.2
		}
	}

	if intOr(sn.SocialSatisfaction, 4) <= 3 {
		maxScore += 0.2
		if containsAny(desc, "community", "friendship") {
			score += 0.2
		}
	}

	return ratio(score, maxScore)
}

// MatchMotivations rewards groups that line up with strong (>= 4) intrinsic,
// social or achievement motivation.
func MatchMotivations(m *domain.Motivations, g domain.Group) float64 {
	if m.IsEmpty() {
		return neutralScore
	}

	desc := strings.ToLower(g.Description)
	groupType := strings.ToLower(string(g.GroupType))
	var score, maxScore float64

	if floatOr(m.Intrinsic, 0) >= 4 {
		maxScore += 0.3
		if containsAny(desc, "fun", "enjoyable", "enjoy") {
			score += 0.3
		} else if strings.Contains(groupType, "hobby") {
			score += 0.2
		}
	}

	if floatOr(m.Social, 0) >= 4 {
		maxScore += 0.3
		if strings.Contains(groupType, "social") {
			score += 0.3
		} else if containsAny(desc, "connect", "community", "friendship") {
			score += 0.2
		}
	}

	if floatOr(m.Achievement, 0) >= 4 {
		maxScore += 0.3
		if containsAny(groupType, "professional", "educational") {
			score += 0.3
		} else if containsAny(desc, "skill", "learn", "develop") {
			score += 0.2
		}
	}

	return ratio(score, maxScore)
}

// CalculatePersonalityFit scores every dimension it has inputs for. A missing
// group size or structure level drops that dimension instead of scoring it
// neutral, which shifts the weight onto the remaining dimensions.
func CalculatePersonalityFit(
	traits domain.TraitScores,
	g domain.Group,
	sn *domain.SocialNeeds,
	m *domain.Motivations,
) domain.PersonalityFit {
	components := make(map[string]float64, len(dimensionWeights))

	if g.GroupSizeCategory != "" {
		components[domain.DimExtraversion] = MatchExtraversion(traits.Extraversion, g)
	}
	if g.StructureLevel != "" {
		components[domain.DimConscientiousness] = MatchConscientiousness(traits.Conscientiousness, g)
	}
	components[domain.DimOpenness] = MatchOpenness(traits.Openness, g)

	if !sn.IsEmpty() {
		components[domain.DimSocialNeeds] = MatchSocialNeeds(sn, g)
	}
	if !m.IsEmpty() {
		components[domain.DimMotivations] = MatchMotivations(m, g)
	}

	var weighted, total float64
	for _, dw := range dimensionWeights {
		if v, ok := components[dw.name]; ok {
			weighted += v * dw.weight
			total += dw.weight
		}
	}

	overall := neutralScore
	if total > 0 {
		overall = weighted / total
	}

	return domain.PersonalityFit{
		Overall:    overall,
		Components: components,
	}
}

func ratio(score, maxScore float64) float64 {
	if maxScore <= 0 {
		return neutralScore
	}
	return min(score/maxScore, 1.0)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
