package history

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mindscreen/internal/models"
)

// PostgresStore keeps one row per assessment under the owning identity.
// Writes are upserts keyed on the assessment id, so repeated saves of the
// same result collapse into one row.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Name() string { return "postgres" }

func (s *PostgresStore) Save(ctx context.Context, identity string, result models.AssessmentResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	row := models.StoredResult{
		AssessmentID: result.AssessmentID,
		Identity:     identity,
		Payload:      payload,
		CreatedAt:    result.GeneratedAt,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "assessment_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
}

func (s *PostgresStore) Load(ctx context.Context, identity string) ([]models.AssessmentResult, error) {
	var rows []models.StoredResult
	err := s.db.WithContext(ctx).
		Where("identity = ?", identity).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]models.AssessmentResult, 0, len(rows))
	for _, row := range rows {
		var result models.AssessmentResult
		if err := json.Unmarshal(row.Payload, &result); err != nil {
			// A single corrupt row should not hide the rest of the history.
			continue
		}
		results = append(results, result)
	}
	return results, nil
}
