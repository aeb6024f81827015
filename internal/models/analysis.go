package models

import "math"

// AnalysisSourceHeuristic marks results produced by the offline heuristic
// analyzer rather than an AI provider.
const AnalysisSourceHeuristic = "heuristic"

// AIAnalysisResult is the normalized output of scoring one trend signal.
// All four sub-scores live in [0,10]; OverallScore is always their mean and
// is never set independently.
type AIAnalysisResult struct {
	TrendTopic              string   `json:"trendTopic"`
	ViralPotential          int      `json:"viralPotential"`
	ContentSaturation       int      `json:"contentSaturation"`
	AudienceInterest        int      `json:"audienceInterest"`
	MonetizationOpportunity int      `json:"monetizationOpportunity"`
	OverallScore            float64  `json:"overallScore"`
	ContentAngles           []string `json:"contentAngles"`
	Reasoning               string   `json:"reasoning"`
	Source                  string   `json:"source"`
}

// defaultAngles is substituted whenever a provider or the heuristic yields no
// content angles.
var defaultAngles = []string{"Tutorial", "Review", "Tips"}

// Finalize clamps the sub-scores into [0,10], recomputes OverallScore as
// their arithmetic mean, and substitutes the generic angles if none are set.
func (r *AIAnalysisResult) Finalize() {
	r.ViralPotential = clampScore(r.ViralPotential)
	r.ContentSaturation = clampScore(r.ContentSaturation)
	r.AudienceInterest = clampScore(r.AudienceInterest)
	r.MonetizationOpportunity = clampScore(r.MonetizationOpportunity)

	sum := r.ViralPotential + r.ContentSaturation + r.AudienceInterest + r.MonetizationOpportunity
	r.OverallScore = float64(sum) / 4.0

	if len(r.ContentAngles) == 0 {
		r.ContentAngles = append([]string(nil), defaultAngles...)
	}
	if len(r.ContentAngles) > 5 {
		r.ContentAngles = r.ContentAngles[:5]
	}
}

// DisplayScore returns the overall score rounded to one decimal. Comparisons
// always use the unrounded OverallScore.
func (r *AIAnalysisResult) DisplayScore() float64 {
	return math.Round(r.OverallScore*10) / 10
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
