// Package history persists computed assessment results per identity and
// serves longitudinal trend retrieval. Three interchangeable backends
// exist: database-backed (cloud accounts), locally encrypted, and plain
// local files. History is supplementary; its failures never block an
// assessment from producing a result.
package history

import (
	"context"

	"go.uber.org/zap"

	"mindscreen/internal/models"
)

// Store is the uniform contract all backends satisfy. Save must be
// idempotent on AssessmentID; Load returns results oldest-first, directly
// usable by the trend chart.
type Store interface {
	Name() string
	Save(ctx context.Context, identity string, result models.AssessmentResult) error
	Load(ctx context.Context, identity string) ([]models.AssessmentResult, error)
}

// Chain tries a prioritized list of backends in order, logging which one
// ultimately served the request instead of silently swallowing the
// distinction. Two concurrent writers are not coordinated; last-write-wins
// at identity+assessmentId granularity is a documented limitation.
type Chain struct {
	log    *zap.Logger
	stores []Store
}

func NewChain(log *zap.Logger, stores ...Store) *Chain {
	return &Chain{log: log, stores: stores}
}

func (c *Chain) Name() string { return "chain" }

// Save writes through the first backend that accepts the result.
func (c *Chain) Save(ctx context.Context, identity string, result models.AssessmentResult) error {
	var lastErr error
	for _, store := range c.stores {
		if err := store.Save(ctx, identity, result); err != nil {
			c.log.Warn("history backend rejected save, trying next",
				zap.String("backend", store.Name()),
				zap.String("assessmentID", result.AssessmentID),
				zap.Error(err))
			lastErr = err
			continue
		}
		c.log.Info("assessment result saved",
			zap.String("backend", store.Name()),
			zap.String("assessmentID", result.AssessmentID))
		return nil
	}
	return lastErr
}

// Load returns the first backend's successful answer.
func (c *Chain) Load(ctx context.Context, identity string) ([]models.AssessmentResult, error) {
	var lastErr error
	for _, store := range c.stores {
		results, err := store.Load(ctx, identity)
		if err != nil {
			c.log.Warn("history backend failed to load, trying next",
				zap.String("backend", store.Name()),
				zap.Error(err))
			lastErr = err
			continue
		}
		c.log.Debug("assessment history loaded",
			zap.String("backend", store.Name()),
			zap.Int("count", len(results)))
		return results, nil
	}
	return nil, lastErr
}
