package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindscreen/internal/models"
)

func TestLevelBoundaries(t *testing.T) {
	tests := []struct {
		probability float64
		want        models.RiskLevel
	}{
		{0.0, models.RiskLow},
		{0.33, models.RiskLow},
		{0.330001, models.RiskMedium},
		{0.66, models.RiskMedium},
		{0.660001, models.RiskHigh},
		{0.98, models.RiskHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.probability), "probability %v", tt.probability)
	}
}

func TestEstimateKnownScores(t *testing.T) {
	scores := models.CognitiveScores{
		MemoryScore:    1.5,
		AttentionScore: 3,
		LanguageScore:  0,
		ExecutiveScore: 0.8,
	}

	result := Estimate("test-id", scores, nil, nil)

	// normalized: 0.75, 0.75, 0, 0.8 -> avg 0.575; coverage 0.5 with no
	// speech tasks; 1 - (0.7*0.575 + 0.3*0.5) = 0.4475
	assert.InDelta(t, 0.4475, result.Probability, 1e-9)
	assert.Equal(t, models.RiskMedium, result.RiskLevel)
	assert.Equal(t, "test-id", result.AssessmentID)
	assert.Equal(t, scores, result.SubScores)
	assert.Len(t, result.Recommendations, 3)
	assert.False(t, result.GeneratedAt.IsZero())
}

func TestEstimateClampsProbability(t *testing.T) {
	perfect := models.CognitiveScores{
		MemoryScore:    2,
		AttentionScore: 4,
		LanguageScore:  1,
		ExecutiveScore: 1,
	}
	full := map[string]int64{"picture-description": 120_000}

	high := Estimate("a", models.CognitiveScores{}, nil, map[string]int64{"picture-description": 120_000})
	assert.LessOrEqual(t, high.Probability, 0.98)
	assert.GreaterOrEqual(t, high.Probability, 0.02)

	low := Estimate("b", perfect, full, full)
	assert.Equal(t, 0.02, low.Probability)
	assert.Equal(t, models.RiskLow, low.RiskLevel)
}

func TestEstimateNormalizationClampsAboveMax(t *testing.T) {
	// Scores above the domain maximum must not push probability below the
	// floor via a normalized value over 1.
	inflated := models.CognitiveScores{
		MemoryScore:    5,
		AttentionScore: 10,
		LanguageScore:  3,
		ExecutiveScore: 3,
	}
	result := Estimate("c", inflated, nil, nil)
	assert.GreaterOrEqual(t, result.Probability, 0.02)
}

func TestFeatureImportances(t *testing.T) {
	scores := models.CognitiveScores{
		MemoryScore:    2, // normalized 1.0 -> contribution -0.5, negative
		AttentionScore: 0, // normalized 0.0 -> contribution +0.5, positive
	}
	result := Estimate("d", scores, nil, nil)
	require.Len(t, result.FeatureImportances, 5)

	byFeature := make(map[string]models.FeatureImportance)
	for _, fi := range result.FeatureImportances {
		byFeature[fi.Feature] = fi
	}

	mem := byFeature["memory_score"]
	assert.InDelta(t, -0.5, mem.Contribution, 1e-9)
	assert.Equal(t, "negative", mem.Direction)

	att := byFeature["attention_score"]
	assert.InDelta(t, 0.5, att.Contribution, 1e-9)
	assert.Equal(t, "positive", att.Direction)
}

func TestSpeechCoverage(t *testing.T) {
	expected := map[string]int64{"a": 60_000, "b": 60_000}

	assert.Equal(t, 0.5, speechCoverage(nil, nil))

	// Half of one task, nothing for the other.
	recorded := map[string]int64{"a": 30_000}
	assert.InDelta(t, 0.25, speechCoverage(recorded, expected), 1e-9)

	// Recording longer than expected caps at 1.
	over := map[string]int64{"a": 90_000, "b": 60_000}
	assert.InDelta(t, 1.0, speechCoverage(over, expected), 1e-9)
}
