package router

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"mindscreen/internal/analysis"
	"mindscreen/internal/catalog"
	"mindscreen/internal/config"
	"mindscreen/internal/handlers"
	"mindscreen/internal/history"
	"mindscreen/internal/recorder"
	"mindscreen/internal/services"
)

// Deps carries everything the handlers need. Wired once in main.
type Deps struct {
	Generator *catalog.Generator
	Sessions  *recorder.Manager
	Analysis  *analysis.Manager
	History   *history.Chain
	Speech    *services.SpeechService
}

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitExceeded(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Try again later."})
}

func Setup(log *zap.Logger, deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("mindscreen", store))

	router.Use(CSRFProtection())
	router.Use(UserLoaderMiddleware())

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
	})

	authHandler := handlers.NewAuthHandler(log)
	assessmentHandler := handlers.NewAssessmentHandler(log, deps.Generator, deps.Sessions, deps.Analysis, deps.History, deps.Speech)
	resultsHandler := handlers.NewResultsHandler(log, deps.History)
	userHandler := handlers.NewUserHandler(log)
	clinicianHandler := handlers.NewClinicianHandler(log)

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: rateLimitExceeded,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api")
	{
		api.GET("/identity", authHandler.Identity)
		api.POST("/login", limiter, authHandler.Login)
		api.POST("/logout", authHandler.Logout)
		api.POST("/register", limiter, authHandler.Register)

		api.POST("/assessments", limiter, assessmentHandler.Start)

		assessments := api.Group("/assessments/:id")
		{
			assessments.GET("/speech", assessmentHandler.SpeechStatus)
			assessments.POST("/speech/:taskID/upload", assessmentHandler.SpeechUpload)
			assessments.GET("/cognitive", assessmentHandler.CognitiveStatus)
			assessments.POST("/cognitive/:taskID", assessmentHandler.CognitiveAct)
			assessments.POST("/finish", assessmentHandler.Finish)
			assessments.GET("/result", assessmentHandler.Result)
			assessments.POST("/reset", assessmentHandler.Reset)
		}

		api.GET("/history", resultsHandler.History)
		api.GET("/history/trend", resultsHandler.Trend)

		clinician := api.Group("/")
		clinician.Use(ClinicianRequired())
		{
			clinician.POST("/profile/update-password", userHandler.UpdatePassword)
			clinician.GET("/assessments/:id/state", clinicianHandler.AssessmentState)
			clinician.GET("/assessments/:id/logs", clinicianHandler.AssessmentLogs)
			clinician.GET("/participants/latest", clinicianHandler.LatestAssessment)
		}
	}

	return router
}
