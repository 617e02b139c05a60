package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/paper-explorer/internal/common"
	"github.com/suPer8Hu/paper-explorer/internal/httpapi/handlers"
	"github.com/suPer8Hu/paper-explorer/internal/httpapi/middleware"
)

type Options struct {
	CORSOrigins []string
	Log         *slog.Logger
}

func NewRouter(h *handlers.Handler, opts Options) *gin.Engine {
	registerValidators()

	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recovery(log))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.GET("/ping", h.Ping)

	api := r.Group("/api")

	// public
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/papers/summarize", h.SummarizePaper)
	api.GET("/papers/suggestions", h.PaperSuggestions)
	api.GET("/papers/search", h.SearchPapers)
	api.POST("/papers/quiz", h.GenerateQuiz)
	api.POST("/quiz/generate", h.GenerateQuiz)

	// session required
	authGroup := api.Group("")
	authGroup.Use(middleware.AuthRequired(h.Auth))

	authGroup.POST("/auth/logout", h.Logout)
	authGroup.GET("/auth/me", h.Me)

	authGroup.POST("/history", h.SaveHistory)
	authGroup.GET("/history", h.ListHistory)
	authGroup.DELETE("/history/clear", h.ClearHistory)
	authGroup.DELETE("/history/:id", h.DeleteHistory)

	authGroup.GET("/chat/sessions", h.ListChatSessions)
	authGroup.POST("/chat/session", h.PostChatMessage)
	authGroup.GET("/chat/session/:session_id", h.GetChatSession)
	authGroup.DELETE("/chat/session/:session_id", h.DeleteChatSession)
	authGroup.PUT("/chat/session/:session_id/name", h.RenameChatSession)
	authGroup.GET("/chat/export/:session_id", h.ExportChatSession)
	authGroup.DELETE("/chat/clear-all", h.ClearChatSessions)

	authGroup.POST("/quiz/submit", h.SubmitQuiz)
	authGroup.GET("/quiz/history", h.QuizHistory)

	return r
}
