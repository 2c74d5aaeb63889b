// Package scoring reduces captured per-task state into the four domain
// sub-scores. It runs once, when the cognitive flow finishes, and performs
// no normalization; that belongs to the risk estimator.
package scoring

import (
	"mindscreen/internal/catalog"
	"mindscreen/internal/models"
)

// TaskOutcome is the captured end state of one cognitive task.
type TaskOutcome struct {
	Correct *bool
	Errors  int
}

// Aggregate routes each task's score into exactly one domain accumulator:
// word-recall feeds memory, digit-span and attention feed attention, tapping
// feeds language, clock-drawing feeds executive. No generated task has the
// tapping type, so languageScore stays 0 with the shipped catalog; that is a
// catalog/rubric gap to be resolved by product, not remapped here.
func Aggregate(tasks []catalog.CognitiveTask, outcomes map[string]TaskOutcome) models.CognitiveScores {
	var scores models.CognitiveScores
	for _, task := range tasks {
		outcome := outcomes[task.ID]
		score := TaskScore(outcome.Correct, outcome.Errors)

		switch task.Type {
		case catalog.TypeWordRecall:
			scores.MemoryScore += score
		case catalog.TypeDigitSpan, catalog.TypeAttention:
			scores.AttentionScore += score
		case catalog.TypeTapping:
			scores.LanguageScore += score
		case catalog.TypeClockDrawing:
			scores.ExecutiveScore += score
		}
	}
	return scores
}

// TaskScore applies the fixed rule: correct is worth 1, each error costs
// 0.1, and the result never goes below 0.
func TaskScore(correct *bool, errors int) float64 {
	base := 0.0
	if correct != nil && *correct {
		base = 1.0
	}
	score := base - 0.1*float64(errors)
	if score < 0 {
		return 0
	}
	return score
}
