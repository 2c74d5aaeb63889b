// Package risk implements the heuristic risk estimate: a fixed-formula
// combination of normalized cognitive sub-scores and speech-recording
// coverage. It is a deterministic substitute for a trained model and every
// report must present it as such, never as a diagnosis.
package risk

import (
	"time"

	"mindscreen/internal/models"
)

// Fixed per-domain maxima used for normalization. They reflect how many
// tasks can feed each domain in the shipped catalog.
const (
	memoryMax    = 2.0
	attentionMax = 4.0
	languageMax  = 1.0
	executiveMax = 1.0
)

// Probability clamp bounds. The report never claims an absolute 0% or
// 100% risk.
const (
	minProbability = 0.02
	maxProbability = 0.98
)

var recommendations = []string{
	"Try a longer picture description (aim for ~60-90s).",
	"Practice digit span and word recall to boost attention and memory.",
	"Share this report with a clinician for guidance—this is not a diagnosis.",
}

// Estimate combines the cognitive sub-scores with speech coverage into a
// single probability, risk label, and feature-importance list. Pure and
// side-effect-free; callers must not invoke it without complete scores.
func Estimate(assessmentID string, scores models.CognitiveScores, recordedMs, expectedMs map[string]int64) models.AssessmentResult {
	mem := clamp01(scores.MemoryScore / memoryMax)
	att := clamp01(scores.AttentionScore / attentionMax)
	lang := clamp01(scores.LanguageScore / languageMax)
	exec := clamp01(scores.ExecutiveScore / executiveMax)
	cognitiveAvg := (mem + att + lang + exec) / 4

	coverage := speechCoverage(recordedMs, expectedMs)

	probability := 1 - (0.7*cognitiveAvg + 0.3*coverage)
	if probability < minProbability {
		probability = minProbability
	}
	if probability > maxProbability {
		probability = maxProbability
	}

	return models.AssessmentResult{
		AssessmentID: assessmentID,
		RiskLevel:    Level(probability),
		Probability:  probability,
		FeatureImportances: []models.FeatureImportance{
			importance("memory_score", mem),
			importance("attention_score", att),
			importance("language_score", lang),
			importance("executive_score", exec),
			importance("speech_coverage", clamp01(coverage)),
		},
		SubScores:       scores,
		Recommendations: append([]string(nil), recommendations...),
		GeneratedAt:     time.Now(),
	}
}

// Level maps a probability to its label. Boundaries are strict greater-than:
// exactly 0.66 is Medium and exactly 0.33 is Low.
func Level(probability float64) models.RiskLevel {
	switch {
	case probability > 0.66:
		return models.RiskHigh
	case probability > 0.33:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// speechCoverage averages min(recorded, expected)/expected across all speech
// tasks. With no speech tasks at all, coverage is a neutral 0.5.
func speechCoverage(recordedMs, expectedMs map[string]int64) float64 {
	if len(expectedMs) == 0 {
		return 0.5
	}
	var sum float64
	for taskID, expected := range expectedMs {
		if expected <= 0 {
			continue
		}
		recorded := recordedMs[taskID]
		if recorded > expected {
			recorded = expected
		}
		sum += float64(recorded) / float64(expected)
	}
	return sum / float64(len(expectedMs))
}

// Importances are returned unsorted; callers rank by |contribution| when rendering.
func importance(feature string, normalized float64) models.FeatureImportance {
	direction := "negative"
	if normalized < 0.5 {
		direction = "positive"
	}
	return models.FeatureImportance{
		Feature:      feature,
		Contribution: 0.5 - normalized,
		Direction:    direction,
	}
}

func clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
