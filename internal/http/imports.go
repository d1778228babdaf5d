package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mrlokans/personachat/internal/database/progress"
	"github.com/mrlokans/personachat/internal/tasks"
)

type ImportRequest struct {
	Handle  string `json:"handle" binding:"required"`
	Refresh bool   `json:"refresh"`
}

type ImportsController struct {
	taskClient *tasks.Client
	progress   *progress.Repository
}

func NewImportsController(taskClient *tasks.Client, progressRepo *progress.Repository) *ImportsController {
	return &ImportsController{
		taskClient: taskClient,
		progress:   progressRepo,
	}
}

// Trigger enqueues a background import for a handle and returns immediately.
// Progress is polled via the Progress endpoint.
func (i *ImportsController) Trigger(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "handle is required"})
		return
	}

	if i.taskClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "task queue is disabled"})
		return
	}

	task := tasks.ImportPersonaTask{Handle: req.Handle, Refresh: req.Refresh}
	if _, err := i.taskClient.Add(task).Ctx(c.Request.Context()).Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue import"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "import queued", "handle": req.Handle})
}

// Progress returns the per-platform progress rows for a persona so the UI
// can render one bar per channel.
func (i *ImportsController) Progress(c *gin.Context) {
	name := c.Param("name")

	rows, err := i.progress.Get(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read progress"})
		return
	}

	c.JSON(http.StatusOK, rows)
}
