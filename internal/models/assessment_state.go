package models

import (
	"time"

	"github.com/lib/pq"
)

// AssessmentState tracks one participant's pass through the workflow. The
// cognitive task order is fixed at creation; CurrentTaskIndex only ever
// moves forward.
type AssessmentState struct {
	ID               int           `gorm:"primaryKey"`
	AssessmentID     string        `gorm:"uniqueIndex"`
	Identity         string        `gorm:"index"`
	Profile          []byte        `gorm:"type:jsonb"`
	TaskOrder        pq.Int64Array `gorm:"type:integer[]"`
	CurrentTaskIndex int
	IsComplete       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
