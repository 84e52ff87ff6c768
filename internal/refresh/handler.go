package refresh

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Refresher *Refresher
}

func NewHandler(r *Refresher) *Handler {
	return &Handler{Refresher: r}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/scrape", h.scrape)         // POST /api/scrape
	rg.GET("/refresh/status", h.status) // GET /api/refresh/status
}

func (h *Handler) scrape(c *gin.Context) {
	res, err := h.Refresher.Run(c.Request.Context(), TriggerManual)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Scraping failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Scraping successful",
		"count":   res.Count,
	})
}

func (h *Handler) status(c *gin.Context) {
	c.JSON(http.StatusOK, h.Refresher.Status())
}
