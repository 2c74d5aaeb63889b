package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// RiskLevel is the label shown to the user alongside the probability.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// CognitiveScores aggregates per-task scores into the four clinical domains.
// Each raw score is bounded above by the number of tasks feeding that domain.
type CognitiveScores struct {
	MemoryScore    float64 `json:"memoryScore"`
	AttentionScore float64 `json:"attentionScore"`
	LanguageScore  float64 `json:"languageScore"`
	ExecutiveScore float64 `json:"executiveScore"`
}

// FeatureImportance describes how much a single signal pushed the risk
// estimate up or down. Direction is "positive" when the signal increased
// risk. The list is produced unsorted; rank by |contribution| at render time.
type FeatureImportance struct {
	Feature      string  `json:"feature"`
	Contribution float64 `json:"contribution"`
	Direction    string  `json:"direction"`
}

// AssessmentResult is created exactly once per completed assessment and is
// immutable afterwards. History backends deduplicate on AssessmentID.
type AssessmentResult struct {
	AssessmentID       string              `json:"assessmentId"`
	RiskLevel          RiskLevel           `json:"riskLevel"`
	Probability        float64             `json:"probability"`
	FeatureImportances []FeatureImportance `json:"featureImportances"`
	SubScores          CognitiveScores     `json:"subScores"`
	Recommendations    []string            `json:"recommendations"`
	GeneratedAt        time.Time           `json:"generatedAt"`
}

// StoredResult is the database row for the cloud history backend. The full
// result is kept as a JSON document so the schema never lags the result shape.
type StoredResult struct {
	AssessmentID string          `gorm:"primaryKey"`
	Identity     string          `gorm:"index"`
	Payload      json.RawMessage `gorm:"type:jsonb"`
	CreatedAt    time.Time
}

// InteractionLogRow persists one immutable interaction log per completed task.
type InteractionLogRow struct {
	gorm.Model
	AssessmentID   string `gorm:"index"`
	TaskID         string
	TaskType       string
	ResponseTimeMs int
	Correct        *bool
	Errors         int
	Metadata       json.RawMessage `gorm:"type:jsonb"`
}
