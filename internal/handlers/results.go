package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindscreen/internal/charts"
	"mindscreen/internal/database"
	"mindscreen/internal/history"
	"mindscreen/internal/models"
	"mindscreen/internal/repository"
)

type ResultsHandler struct {
	log     *zap.Logger
	history *history.Chain
}

func NewResultsHandler(log *zap.Logger, historyChain *history.Chain) *ResultsHandler {
	return &ResultsHandler{log: log, history: historyChain}
}

// History returns every past result for the caller's identity, oldest
// first. Storage trouble degrades to an empty list rather than an error.
func (h *ResultsHandler) History(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	results, err := h.history.Load(c, identity)
	if err != nil {
		h.log.Warn("Failed to load history", zap.Error(err))
		results = nil
	}
	if results == nil {
		results = []models.AssessmentResult{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Trend serves ECharts option JSON for the probability timeline, or a
// single domain's sub-score when ?domain= names one.
func (h *ResultsHandler) Trend(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	domainKey := c.Query("domain")

	data, err := h.timeline(c, identity, domainKey)
	if err != nil {
		h.log.Error("Failed to build trend data", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trend data."})
		return
	}

	var options interface{}
	if domainKey != "" {
		options = charts.DomainTimeline(data, domainKey).JSON()
	} else {
		options = charts.ProbabilityTimeline(data).JSON()
	}

	encoded, err := json.Marshal(options)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode chart."})
		return
	}
	c.Data(http.StatusOK, "application/json", encoded)
}

// timeline prefers the SQL extraction when Postgres is up and falls back to
// decoding the file-backed history otherwise.
func (h *ResultsHandler) timeline(c *gin.Context, identity, domainKey string) ([]repository.TimelineDataPoint, error) {
	if database.DB != nil {
		if domainKey != "" {
			return repository.GetDomainTimeline(c, identity, domainKey)
		}
		return repository.GetProbabilityTimeline(c, identity)
	}

	results, err := h.history.Load(c, identity)
	if err != nil {
		return nil, err
	}
	data := make([]repository.TimelineDataPoint, 0, len(results))
	for _, r := range results {
		value := r.Probability
		switch domainKey {
		case "":
		case "memoryScore":
			value = r.SubScores.MemoryScore
		case "attentionScore":
			value = r.SubScores.AttentionScore
		case "languageScore":
			value = r.SubScores.LanguageScore
		case "executiveScore":
			value = r.SubScores.ExecutiveScore
		default:
			continue
		}
		data = append(data, repository.TimelineDataPoint{Date: r.GeneratedAt, Value: value})
	}
	return data, nil
}
