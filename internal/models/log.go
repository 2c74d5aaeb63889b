package models

// InteractionLog captures one completed task: timing, correctness, error
// count, and free-form metadata (selected sequence, clock description).
// Never mutated after creation.
type InteractionLog struct {
	TaskID         string         `json:"taskId"`
	TaskType       string         `json:"taskType"`
	Prompt         string         `json:"prompt"`
	ResponseTimeMs int            `json:"responseTimeMs"`
	Correct        *bool          `json:"correct"`
	Errors         int            `json:"errors"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// CognitiveCompletionPayload is the wire shape submitted when the cognitive
// task flow finishes.
type CognitiveCompletionPayload struct {
	Logs         []InteractionLog `json:"logs"`
	Scores       CognitiveScores  `json:"scores"`
	ClockDrawing string           `json:"clockDrawing,omitempty"`
}

// SpeechUploadResponse is what the speech pipeline reports back after a
// sample is stored and processed. Only DurationMs feeds the risk estimate;
// the rest is informational for the user.
type SpeechUploadResponse struct {
	Success            bool     `json:"success"`
	DetectedLanguage   string   `json:"detectedLanguage,omitempty"`
	LanguageConfidence *float64 `json:"languageConfidence,omitempty"`
	LanguageMismatch   bool     `json:"languageMismatch,omitempty"`
	Transcript         string   `json:"transcript,omitempty"`
	Translation        string   `json:"translation,omitempty"`
	Warnings           []string `json:"warnings,omitempty"`
}
