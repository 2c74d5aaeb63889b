package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindscreen/internal/database"
	"mindscreen/internal/repository"
)

// ClinicianHandler serves the read-only dashboard views over persisted
// assessment records. Every route sits behind ClinicianRequired and needs
// Postgres; without a database there are no records to show.
type ClinicianHandler struct {
	log *zap.Logger
}

func NewClinicianHandler(log *zap.Logger) *ClinicianHandler {
	return &ClinicianHandler{log: log}
}

// AssessmentState returns the persisted workflow state of one assessment:
// the dealt task order, current task index, and completion flag.
func (h *ClinicianHandler) AssessmentState(c *gin.Context) {
	if database.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assessment records require a database."})
		return
	}

	state, err := repository.GetAssessmentState(c, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown assessment."})
		return
	}
	c.JSON(http.StatusOK, state)
}

// AssessmentLogs returns the per-task interaction logs of one finished
// assessment, oldest first.
func (h *ClinicianHandler) AssessmentLogs(c *gin.Context) {
	if database.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assessment records require a database."})
		return
	}

	logs, err := repository.GetInteractionLogs(c, c.Param("id"))
	if err != nil {
		h.log.Error("Failed to load interaction logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load logs."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// LatestAssessment returns the most recent pass for a participant
// identity, complete or not, so a clinician can see where a participant
// stopped.
func (h *ClinicianHandler) LatestAssessment(c *gin.Context) {
	if database.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assessment records require a database."})
		return
	}

	identity := c.Query("identity")
	if identity == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identity is required."})
		return
	}

	state, err := repository.GetLatestAssessmentState(c, identity)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No assessments for this identity."})
		return
	}
	c.JSON(http.StatusOK, state)
}
