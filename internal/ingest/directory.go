package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// Ingestor feeds menu text files from disk through a TextProcessor.
type Ingestor struct {
	Processor TextProcessor
	MaxBytes  int64
	Logger    *slog.Logger
}

func NewIngestor(p TextProcessor, maxBytes int64, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{Processor: p, MaxBytes: maxBytes, Logger: logger}
}

// IngestPath extracts and stores the menu items of a single file.
func (i *Ingestor) IngestPath(ctx context.Context, path string) (FileResult, error) {
	out := FileResult{Path: path}
	if !AllowedExt(path) {
		err := fmt.Errorf("unsupported or missing extension: %q", filepath.Ext(path))
		out.Err = err.Error()
		return out, err
	}
	text, err := ReadMenuFile(path, i.MaxBytes)
	if err != nil {
		out.Err = err.Error()
		return out, err
	}
	res, err := i.Processor.Process(ctx, text)
	if err != nil {
		out.Err = err.Error()
		return out, err
	}
	out.Items = len(res.Items)
	out.Categories = res.Categories
	out.Persistence = res.Persistence.Status
	i.Logger.Info("ingest.file.ok",
		"path", path,
		"items", out.Items,
		"persistence", out.Persistence,
	)
	return out, nil
}

// IngestDirectory walks root, skips hidden entries if requested, and calls
// IngestPath for each allowed file. Per-file failures are recorded and the
// walk continues. Returns per-file results + aggregate stats.
func (i *Ingestor) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []FileResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(path) {
			return nil
		}
		stats.Matched++

		res, err := i.IngestPath(ctx, path)
		results = append(results, res)
		if err != nil {
			i.Logger.Error("ingest.file.failed", "path", path, "error", err)
			stats.Failed++
			return nil
		}
		stats.Succeeded++
		return nil
	})

	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	return results, stats, nil
}
