package analyzer

import (
	"fmt"
	"strings"

	"opportunity-engine/internal/models"
)

// categoryProfile holds the fixed baseline scores and angle templates for one
// content category. Baselines are boosted by the signal's popularity before
// being clamped into [0,10].
type categoryProfile struct {
	name             string
	keywords         []string
	baseViral        int
	baseSaturation   int
	baseInterest     int
	baseMonetization int
	angles           []string
}

var categoryProfiles = []categoryProfile{
	{
		name:             "gaming",
		keywords:         []string{"game", "gaming", "esports", "stream", "playthrough", "console"},
		baseViral:        6,
		baseSaturation:   7,
		baseInterest:     6,
		baseMonetization: 5,
		angles:           []string{"Gameplay Walkthrough", "Top Moments Compilation", "Beginner's Guide"},
	},
	{
		name:             "music",
		keywords:         []string{"music", "song", "album", "artist", "concert", "remix"},
		baseViral:        6,
		baseSaturation:   6,
		baseInterest:     6,
		baseMonetization: 4,
		angles:           []string{"Reaction Video", "Cover Performance", "Behind the Lyrics"},
	},
	{
		name:             "tech",
		keywords:         []string{"ai", "tech", "software", "gadget", "startup", "crypto", "app"},
		baseViral:        7,
		baseSaturation:   5,
		baseInterest:     7,
		baseMonetization: 7,
		angles:           []string{"Hands-On Review", "Explainer", "Comparison Video"},
	},
	{
		name:             "finance",
		keywords:         []string{"invest", "stock", "finance", "money", "market", "trading"},
		baseViral:        5,
		baseSaturation:   6,
		baseInterest:     6,
		baseMonetization: 8,
		angles:           []string{"Market Breakdown", "Beginner Investing Guide", "Myth Busting"},
	},
}

var generalProfile = categoryProfile{
	name:             "general",
	baseViral:        5,
	baseSaturation:   5,
	baseInterest:     5,
	baseMonetization: 4,
	angles:           []string{"Tutorial", "Review", "Tips"},
}

// HeuristicAnalyzer produces a deterministic score for a trend signal without
// calling any provider. It matches the signal's topic, keywords, and category
// against a fixed category table and applies a popularity bonus on top of the
// category's baselines.
type HeuristicAnalyzer struct{}

func NewHeuristicAnalyzer() *HeuristicAnalyzer {
	return &HeuristicAnalyzer{}
}

// Analyze never fails; every signal maps to a category (general as the catch-all)
// and every category yields a complete result.
func (h *HeuristicAnalyzer) Analyze(signal *models.TrendSignal) *models.AIAnalysisResult {
	profile := matchCategory(signal)
	bonus := int(signal.PopularityScore) / 20

	result := &models.AIAnalysisResult{
		TrendTopic:              signal.Topic,
		ViralPotential:          boosted(profile.baseViral, bonus),
		ContentSaturation:       profile.baseSaturation,
		AudienceInterest:        boosted(profile.baseInterest, bonus),
		MonetizationOpportunity: profile.baseMonetization,
		ContentAngles:           append([]string(nil), profile.angles...),
		Reasoning: fmt.Sprintf("Heuristic scoring: matched %q category, popularity %.0f",
			profile.name, signal.PopularityScore),
		Source: models.AnalysisSourceHeuristic,
	}
	result.Finalize()
	return result
}

// boosted adds the popularity bonus but never pushes a baseline past 10.
func boosted(base, bonus int) int {
	headroom := 10 - base
	if bonus > headroom {
		bonus = headroom
	}
	return base + bonus
}

func matchCategory(signal *models.TrendSignal) categoryProfile {
	haystack := strings.ToLower(signal.Topic + " " + signal.Category)
	for _, kw := range signal.Keywords {
		haystack += " " + strings.ToLower(kw)
	}
	words := strings.FieldsFunc(haystack, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	wordSet := make(map[string]struct{}, len(words))
	for _, w := range words {
		wordSet[w] = struct{}{}
	}

	for _, profile := range categoryProfiles {
		if profile.name == strings.ToLower(signal.Category) {
			return profile
		}
		for _, kw := range profile.keywords {
			if _, ok := wordSet[kw]; ok {
				return profile
			}
			if strings.Contains(haystack, kw) && len(kw) > 3 {
				return profile
			}
		}
	}
	return generalProfile
}
