package repository

import (
	"context"
	"encoding/json"

	"github.com/lib/pq"

	"mindscreen/internal/database"
	"mindscreen/internal/models"
)

// CreateAssessmentState records a new pass through the workflow. The caller
// supplies the task order it actually dealt; the order is fixed at creation
// and never changes afterwards.
func CreateAssessmentState(ctx context.Context, assessmentID, identity string, profile *models.UserProfile, order []int64) (*models.AssessmentState, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, err
	}

	state := &models.AssessmentState{
		AssessmentID: assessmentID,
		Identity:     identity,
		Profile:      profileJSON,
		TaskOrder:    pq.Int64Array(order),
	}
	result := database.DB.WithContext(ctx).Create(state)
	return state, result.Error
}

func GetAssessmentState(ctx context.Context, assessmentID string) (*models.AssessmentState, error) {
	var state models.AssessmentState
	result := database.DB.WithContext(ctx).First(&state, "assessment_id = ?", assessmentID)
	return &state, result.Error
}

// GetLatestAssessmentState returns the most recent pass for an identity,
// complete or not.
func GetLatestAssessmentState(ctx context.Context, identity string) (*models.AssessmentState, error) {
	var state models.AssessmentState
	result := database.DB.WithContext(ctx).
		Where("identity = ?", identity).
		Order("updated_at DESC").
		First(&state)
	return &state, result.Error
}

func UpdateAssessmentIndex(ctx context.Context, assessmentID string, newIndex int) error {
	query := `UPDATE assessment_states SET current_task_index = $1, updated_at = CURRENT_TIMESTAMP WHERE assessment_id = $2`
	return database.DB.WithContext(ctx).Exec(query, newIndex, assessmentID).Error
}

func CompleteAssessment(ctx context.Context, assessmentID string) error {
	query := `UPDATE assessment_states SET is_complete = true, updated_at = CURRENT_TIMESTAMP WHERE assessment_id = $1`
	return database.DB.WithContext(ctx).Exec(query, assessmentID).Error
}
