package weapons

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.search)       // GET /api/search?q=
	rg.GET("/weapons/:id", h.getByID) // GET /api/weapons/:id
	rg.GET("/health", h.health)       // GET /api/health
}

func (h *Handler) search(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Search(c.Request.Context(), c.Query("q")))
}

func (h *Handler) getByID(c *gin.Context) {
	w, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"items":  h.Service.Count(c.Request.Context()),
	})
}
