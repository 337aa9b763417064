package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/menu-extractor/internal/common"
	"github.com/joseph-ayodele/menu-extractor/internal/entity"
	"github.com/joseph-ayodele/menu-extractor/internal/pipeline"
	"github.com/joseph-ayodele/menu-extractor/internal/repository"
)

const requestIDHeader = "X-Request-ID"

// MenuProcessor runs the extraction pipeline for one uploaded text.
type MenuProcessor interface {
	Process(ctx context.Context, text string) (pipeline.Result, error)
}

// ItemStore is the subset of the repository the HTTP surface reads and deletes through.
type ItemStore interface {
	List(ctx context.Context, f repository.ListFilter) ([]entity.MenuItem, error)
	Delete(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

// UploadArchiver keeps a copy of an uploaded menu file and returns where it went.
type UploadArchiver interface {
	Store(ctx context.Context, filename string, body []byte) (string, error)
}

// Exporter renders filtered items as a workbook.
type Exporter interface {
	ExportMenuItemsXLSX(ctx context.Context, f repository.ListFilter) ([]byte, error)
}

type Deps struct {
	Processor      MenuProcessor
	Store          ItemStore
	Exporter       Exporter
	Archive        UploadArchiver // optional
	MaxUploadBytes int64
	AllowedOrigins []string
	Logger         *slog.Logger
}

type Handler struct {
	processor MenuProcessor
	store     ItemStore
	exporter  Exporter
	archive   UploadArchiver
	maxUpload int64
	logger    *slog.Logger
}

// NewRouter wires the HTTP API. Each route is also served under the
// /api/extract-menu and /api/menu-items paths the web client uses.
func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		processor: d.Processor,
		store:     d.Store,
		exporter:  d.Exporter,
		archive:   d.Archive,
		maxUpload: d.MaxUploadBytes,
		logger:    logger,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	if len(d.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  d.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
			ExposeHeaders: []string{requestIDHeader, "Content-Disposition"},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.GET("/healthz", h.Healthz)

	r.POST("/extract", h.Extract)
	r.GET("/items", h.ListItems)
	r.DELETE("/items", h.DeleteItem)
	r.GET("/items/export", h.ExportItems)
	r.GET("/categories", h.ListCategories)

	api := r.Group("/api")
	{
		api.POST("/extract-menu", h.Extract)
		api.GET("/menu-items", h.ListItems)
		api.DELETE("/menu-items", h.DeleteItem)
	}
	return r
}

// requestLogger tags each request with an id and a request-scoped logger.
func requestLogger(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		log := base.With("req_id", reqID)
		ctx := common.WithRequestID(c.Request.Context(), reqID)
		ctx = common.WithLogger(ctx, log)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, reqID)

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"elapsed_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("http.request", attrs...)
		case status >= http.StatusBadRequest:
			log.Warn("http.request", attrs...)
		default:
			log.Info("http.request", attrs...)
		}
	}
}

// Healthz reports whether the store answers a ping.
func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		common.LoggerFromContext(ctx, h.logger).Warn("healthz.ping_failed", "error", err)
		c.String(http.StatusServiceUnavailable, "unavailable")
		return
	}
	c.String(http.StatusOK, "ok")
}
