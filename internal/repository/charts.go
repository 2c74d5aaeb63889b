package repository

import (
	"context"
	"time"

	"mindscreen/internal/database"
)

type TimelineDataPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// GetProbabilityTimeline returns the risk probability of every stored result
// for an identity, oldest first. The probability lives inside the JSON
// payload, so it is extracted in SQL rather than decoded row by row.
func GetProbabilityTimeline(ctx context.Context, identity string) ([]TimelineDataPoint, error) {
	var data []TimelineDataPoint
	query := `
		SELECT
			created_at AS date,
			(payload->>'probability')::float AS value
		FROM stored_results
		WHERE identity = ? AND payload->>'probability' ~ '^[0-9\.]+$'
		ORDER BY created_at;
	`
	err := database.DB.WithContext(ctx).Raw(query, identity).Scan(&data).Error
	return data, err
}

// GetDomainTimeline returns one cognitive domain sub-score over time.
// Valid keys are the JSON field names of the sub-score object, e.g.
// "memoryScore".
func GetDomainTimeline(ctx context.Context, identity, domainKey string) ([]TimelineDataPoint, error) {
	var data []TimelineDataPoint
	query := `
		SELECT
			created_at AS date,
			(payload->'subScores'->>?)::float AS value
		FROM stored_results
		WHERE identity = ? AND payload->'subScores'->>? IS NOT NULL
		ORDER BY created_at;
	`
	err := database.DB.WithContext(ctx).Raw(query, domainKey, identity, domainKey).Scan(&data).Error
	return data, err
}
