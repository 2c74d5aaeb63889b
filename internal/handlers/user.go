package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindscreen/internal/database"
	"mindscreen/internal/repository"
	"mindscreen/internal/utils"
)

type UserHandler struct {
	log *zap.Logger
}

func NewUserHandler(log *zap.Logger) *UserHandler {
	return &UserHandler{log: log}
}

// UpdatePassword changes the logged-in clinician's password after
// re-checking the current one.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	if database.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Clinician accounts require a database."})
		return
	}

	userID, ok := sessions.Default(c).Get("userID").(int)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in."})
		return
	}

	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}

	user, err := repository.GetUserByID(c, userID)
	if err != nil || !user.CheckPassword(body.CurrentPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect."})
		return
	}
	if !utils.IsComplexPassword(body.NewPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{
			"newPassword": "Password needs 8+ characters with upper, lower, number, and symbol",
		}})
		return
	}

	if err := repository.UpdateUserPassword(c, userID, body.NewPassword); err != nil {
		h.log.Error("Failed to update password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
