package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"mindscreen/internal/database"
)

func TestClinicianEndpointsRequireDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	database.DB = nil

	h := NewClinicianHandler(zap.NewNop())
	endpoints := map[string]gin.HandlerFunc{
		"state":  h.AssessmentState,
		"logs":   h.AssessmentLogs,
		"latest": h.LatestAssessment,
	}
	for name, handler := range endpoints {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			handler(c)

			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		})
	}
}
