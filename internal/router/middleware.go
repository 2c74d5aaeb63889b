package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"mindscreen/internal/database"
	"mindscreen/internal/repository"
)

// UserLoaderMiddleware checks for a userID in the session. If found, it
// loads the clinician from the database and adds it to the context, so we
// don't have "zombie" sessions for accounts that no longer exist.
func UserLoaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if database.DB == nil {
			c.Next()
			return
		}

		session := sessions.Default(c)
		userID, ok := session.Get("userID").(int)
		if !ok {
			c.Next()
			return
		}

		user, err := repository.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			// The account behind the session is gone; drop the session.
			session.Clear()
			session.Options(sessions.Options{Path: "/", MaxAge: -1})
			session.Save()
			c.Next()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// ClinicianRequired gates routes that need a logged-in clinician.
func ClinicianRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("user"); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Login required."})
			return
		}
		c.Next()
	}
}
