package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mrlokans/personachat/internal/database/personas"
	"github.com/mrlokans/personachat/internal/entities"
)

type PersonaResponse struct {
	Name          string `json:"name"`
	Avatar        string `json:"avatar"`
	PostURLPrefix string `json:"post_url_prefix"`
	Ready         bool   `json:"ready"`
}

type PersonasController struct {
	repo *personas.Repository
}

func NewPersonasController(repo *personas.Repository) *PersonasController {
	return &PersonasController{repo: repo}
}

// ListReady returns the personas available for chat, i.e. those whose
// timelines have been fully imported.
func (p *PersonasController) ListReady(c *gin.Context) {
	ready, err := p.repo.ListReady()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list personas"})
		return
	}
	c.JSON(http.StatusOK, asPersonaResponses(ready))
}

// ListAll returns every registered persona, imported or not.
func (p *PersonasController) ListAll(c *gin.Context) {
	all, err := p.repo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list personas"})
		return
	}
	c.JSON(http.StatusOK, asPersonaResponses(all))
}

func asPersonaResponses(rows []entities.Persona) []PersonaResponse {
	result := make([]PersonaResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, PersonaResponse{
			Name:          row.Name,
			Avatar:        row.Avatar,
			PostURLPrefix: row.PostURLPrefix,
			Ready:         row.Status == entities.StatusFullyImported,
		})
	}
	return result
}
