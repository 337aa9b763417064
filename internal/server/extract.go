package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/menu-extractor/constants"
	"github.com/joseph-ayodele/menu-extractor/internal/common"
	"github.com/joseph-ayodele/menu-extractor/internal/entity"
	"github.com/joseph-ayodele/menu-extractor/internal/pipeline"
)

// multipartOverhead leaves room for boundaries and part headers around the file.
const multipartOverhead = 1 << 20

type extractResponse struct {
	Items       []entity.MenuItem    `json:"items"`
	TotalItems  int                  `json:"totalItems"`
	Categories  []string             `json:"categories"`
	ExtractedAt time.Time            `json:"extractedAt"`
	Message     string               `json:"message"`
	Persistence pipeline.Persistence `json:"persistence"`
	ArchiveKey  string               `json:"archiveKey,omitempty"`
}

// Extract accepts a multipart "file" upload, extracts its menu items and stores them.
func (h *Handler) Extract(c *gin.Context) {
	ctx := c.Request.Context()
	log := common.LoggerFromContext(ctx, h.logger)

	maxBytes := h.maxUpload
	if maxBytes <= 0 {
		maxBytes = constants.DefaultMaxUploadBytes
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(c, common.InvalidInput(fmt.Sprintf("File exceeds %d bytes", maxBytes)))
			return
		}
		writeError(c, common.InvalidInput("No file provided"))
		return
	}
	if !constants.AllowedExt(filepath.Ext(fh.Filename)) {
		writeError(c, common.InvalidInput("Only .txt files are supported"))
		return
	}
	if fh.Size > maxBytes {
		writeError(c, common.InvalidInput(fmt.Sprintf("File exceeds %d bytes", maxBytes)))
		return
	}

	f, err := fh.Open()
	if err != nil {
		log.Error("extract.open_upload_failed", "error", err)
		writeError(c, common.InvalidInput("Could not read uploaded file"))
		return
	}
	defer func() { _ = f.Close() }()
	raw, err := io.ReadAll(io.LimitReader(f, maxBytes))
	if err != nil {
		log.Error("extract.read_upload_failed", "error", err)
		writeError(c, common.InvalidInput("Could not read uploaded file"))
		return
	}
	text := string(raw)
	if strings.TrimSpace(text) == "" {
		writeError(c, common.InvalidInput("File is empty"))
		return
	}

	log.Info("extract.upload", "filename", fh.Filename, "bytes", len(raw))
	var archiveKey string
	if h.archive != nil {
		// A failed archive copy never blocks extraction.
		if key, err := h.archive.Store(ctx, fh.Filename, raw); err != nil {
			log.Warn("extract.archive_failed", "filename", fh.Filename, "error", err)
		} else {
			archiveKey = key
		}
	}

	res, err := h.processor.Process(ctx, text)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, extractResponse{
		Items:       nonNil(res.Items),
		TotalItems:  len(res.Items),
		Categories:  nonNil(res.Categories),
		ExtractedAt: res.ExtractedAt,
		Message:     fmt.Sprintf("Successfully extracted %d menu items", len(res.Items)),
		Persistence: res.Persistence,
		ArchiveKey:  archiveKey,
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
