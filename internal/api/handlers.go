package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/romangod6/sitemap-xml/internal/models"
	"github.com/romangod6/sitemap-xml/internal/sitemap"
)

// SitemapService is the part of the sitemap manager exposed over HTTP.
type SitemapService interface {
	Sites() []models.Site
	Run(ctx context.Context) ([]sitemap.BuildResult, error)
	SubmitToSearchEngines(ctx context.Context) (bool, error)
	RobotsSitemaps() ([]string, error)
}

type Handler struct {
	service SitemapService
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type BuildResponse struct {
	Results []sitemap.BuildResult `json:"results"`
	Failed  int                   `json:"failed"`
}

type SubmitResponse struct {
	Submitted bool `json:"submitted"`
}

func NewHandler(service SitemapService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListSites(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Sites())
}

// BuildSitemaps rebuilds every site. Per-site failures are reported in the
// body; only a robots file failure fails the request.
func (h *Handler) BuildSitemaps(c *gin.Context) {
	results, err := h.service.Run(c.Request.Context())
	if err != nil {
		slog.Error("Sitemap run failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to register sitemaps in robots file"})
		return
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	c.JSON(http.StatusOK, BuildResponse{
		Results: results,
		Failed:  failed,
	})
}

func (h *Handler) SubmitSitemaps(c *gin.Context) {
	submitted, err := h.service.SubmitToSearchEngines(c.Request.Context())
	if err != nil {
		slog.Error("Search engine submission failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to submit sitemaps"})
		return
	}

	c.JSON(http.StatusOK, SubmitResponse{Submitted: submitted})
}

func (h *Handler) ListRobotsSitemaps(c *gin.Context) {
	sitemaps, err := h.service.RobotsSitemaps()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read robots file"})
		return
	}

	if sitemaps == nil {
		sitemaps = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"sitemaps": sitemaps})
}
