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

type AuthHandler struct {
	log *zap.Logger
}

func NewAuthHandler(log *zap.Logger) *AuthHandler {
	return &AuthHandler{log: log}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a clinician account. Participants never register; they
// get an anonymous identity from Identity instead.
func (h *AuthHandler) Register(c *gin.Context) {
	if database.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Clinician accounts require a database."})
		return
	}

	var creds credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}

	errs := make(map[string]string)
	if !utils.IsValidEmail(creds.Email) {
		errs["email"] = "Please enter a valid email address"
	}
	if !utils.IsComplexPassword(creds.Password) {
		errs["password"] = "Password needs 8+ characters with upper, lower, number, and symbol"
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	user, err := repository.CreateUser(c, creds.Email, creds.Password)
	if err != nil {
		h.log.Error("Failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
}

func (h *AuthHandler) Login(c *gin.Context) {
	if database.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Clinician accounts require a database."})
		return
	}

	var creds credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}

	user, err := repository.GetUserByEmail(c, creds.Email)
	if err != nil || !user.CheckPassword(creds.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
		return
	}

	session := sessions.Default(c)
	session.Set("userID", user.ID)
	if err := session.Save(); err != nil {
		h.log.Error("Failed to save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": user.ID, "email": user.Email})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Identity returns the caller's anonymous identity, minting one on first
// use. The identity is a fingerprint of a random seed kept only in the
// session cookie, so the server never stores anything linkable.
func (h *AuthHandler) Identity(c *gin.Context) {
	session := sessions.Default(c)
	if identity, ok := session.Get("identity").(string); ok && identity != "" {
		c.JSON(http.StatusOK, gin.H{"identity": identity})
		return
	}

	seed, err := utils.GenerateSecureToken(32)
	if err != nil {
		h.log.Error("Failed to generate identity seed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create identity."})
		return
	}
	identity := utils.Fingerprint(seed)

	session.Set("identity", identity)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save identity."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"identity": identity})
}

// requireIdentity pulls the anonymous identity out of the session. Handlers
// that record or read history refuse to guess one.
func requireIdentity(c *gin.Context) (string, bool) {
	identity, ok := sessions.Default(c).Get("identity").(string)
	if !ok || identity == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No identity; call /api/identity first."})
		return "", false
	}
	return identity, true
}
