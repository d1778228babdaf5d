package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/personachat/internal/chat"
	"github.com/mrlokans/personachat/internal/database"
	"github.com/mrlokans/personachat/internal/database/personas"
	"github.com/mrlokans/personachat/internal/database/progress"
	"github.com/mrlokans/personachat/internal/tasks"
)

// RouterConfig receives all router dependencies, improving testability and
// reducing parameter count.
type RouterConfig struct {
	Database    *database.Database
	Personas    *personas.Repository
	Progress    *progress.Repository
	ChatService *chat.Service
	TaskClient  *tasks.Client
	Version     string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	personasController := NewPersonasController(cfg.Personas)
	importsController := NewImportsController(cfg.TaskClient, cfg.Progress)
	chatController := NewChatController(cfg.ChatService)

	router.GET("/api/health", health.Status)

	router.GET("/api/personas", personasController.ListReady)
	router.GET("/api/personas/all", personasController.ListAll)

	router.POST("/api/imports", importsController.Trigger)
	router.GET("/api/imports/:name", importsController.Progress)

	router.POST("/api/chat", chatController.Ask)

	return router
}
