// Package rest exposes the track archive and the pipeline trigger over HTTP.
package rest

import (
	"errors"
	"net/http"
	"path"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/paarad/03-coincerto/internal/core/domain"
	"github.com/paarad/03-coincerto/internal/core/ports"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// RunSubmitter enqueues a pipeline run for a date without blocking the
// request. It reports false when the queue is full.
type RunSubmitter interface {
	Submit(date string) bool
}

// Handler manages the HTTP interface for the application.
type Handler struct {
	repo  ports.TrackRepository
	media ports.MediaStore
	runs  RunSubmitter
	log   *logrus.Logger
}

// NewHandler initializes the HTTP adapter.
func NewHandler(repo ports.TrackRepository, media ports.MediaStore, runs RunSubmitter, log *logrus.Logger) *Handler {
	return &Handler{
		repo:  repo,
		media: media,
		runs:  runs,
		log:   log,
	}
}

// Register attaches the routes to a gin engine.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", h.HealthCheck)

	api := r.Group("/api")
	api.GET("/tracks", h.ListTracks)
	api.GET("/tracks/:date", h.GetTrack)
	api.GET("/media/*filename", h.GetMedia)
	api.POST("/cron", h.TriggerRun)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Coincerto is live 🎶"})
}

// ListTracks handles GET /api/tracks, returning the date-sorted index.
func (h *Handler) ListTracks(c *gin.Context) {
	idx, err := h.repo.Index(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to load track index")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load index"})
		return
	}
	c.JSON(http.StatusOK, idx)
}

// GetTrack handles GET /api/tracks/:date.
func (h *Handler) GetTrack(c *gin.Context) {
	date := c.Param("date")
	if !dateRe.MatchString(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	track, err := h.repo.Load(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no track for " + date})
			return
		}
		h.log.WithError(err).WithField("date", date).Error("failed to load track")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load track"})
		return
	}
	c.JSON(http.StatusOK, track)
}

// GetMedia handles GET /api/media/*filename, serving stored overlay images.
func (h *Handler) GetMedia(c *gin.Context) {
	// The wildcard keeps a leading slash; stored names are flat.
	name := path.Base(strings.TrimPrefix(c.Param("filename"), "/"))
	if name == "" || name == "." || name == "/" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filename is required"})
		return
	}

	data, err := h.media.Media(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no media named " + name})
			return
		}
		h.log.WithError(err).WithField("name", name).Error("failed to load media")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load media"})
		return
	}

	// Generated assets never change for a given name.
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, mediaContentType(name), data)
}

type triggerRequest struct {
	Date string `json:"date"`
}

// TriggerRun handles POST /api/cron, queueing a pipeline run. An empty or
// absent date means today.
func (h *Handler) TriggerRun(c *gin.Context) {
	var req triggerRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	if req.Date != "" && !dateRe.MatchString(req.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	if !h.runs.Submit(req.Date) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run queue is full"})
		return
	}

	h.log.WithField("date", req.Date).Info("pipeline run queued")
	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "date": req.Date})
}

func mediaContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
