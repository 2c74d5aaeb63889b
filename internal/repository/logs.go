package repository

import (
	"context"
	"encoding/json"

	"mindscreen/internal/database"
	"mindscreen/internal/models"
)

// SaveInteractionLogs persists the per-task logs of a finished assessment in
// one batch. Logs are append-only; there is no update path.
func SaveInteractionLogs(ctx context.Context, assessmentID string, logs []models.InteractionLog) error {
	if len(logs) == 0 {
		return nil
	}

	rows := make([]models.InteractionLogRow, 0, len(logs))
	for _, l := range logs {
		var metadata json.RawMessage
		if l.Metadata != nil {
			encoded, err := json.Marshal(l.Metadata)
			if err != nil {
				return err
			}
			metadata = encoded
		}
		rows = append(rows, models.InteractionLogRow{
			AssessmentID:   assessmentID,
			TaskID:         l.TaskID,
			TaskType:       l.TaskType,
			ResponseTimeMs: l.ResponseTimeMs,
			Correct:        l.Correct,
			Errors:         l.Errors,
			Metadata:       metadata,
		})
	}
	return database.DB.WithContext(ctx).Create(&rows).Error
}

func GetInteractionLogs(ctx context.Context, assessmentID string) ([]models.InteractionLogRow, error) {
	var rows []models.InteractionLogRow
	err := database.DB.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
