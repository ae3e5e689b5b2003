package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect4-engine/internal/transport/http/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	Games          *GameHandler
	History        *HistoryHandler // nil without a database
	WebSocket      http.HandlerFunc
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/games", cfg.Games.CreateGame)
		api.GET("/games/:id", cfg.Games.GetGame)
		api.POST("/games/:id/moves", cfg.Games.PlayMove)

		if cfg.History != nil {
			api.GET("/history", cfg.History.GetHistory)
		}
	}

	if cfg.WebSocket != nil {
		router.GET("/ws", gin.WrapF(cfg.WebSocket))
	}
	return router
}
