package ingest

import (
	"context"

	"github.com/joseph-ayodele/menu-extractor/constants"
	"github.com/joseph-ayodele/menu-extractor/internal/pipeline"
)

// FileResult is the per-file ingest outcome.
type FileResult struct {
	Path        string
	Items       int
	Categories  []string
	Persistence constants.PersistStatus
	Err         string
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Failed    uint32
}

// TextProcessor runs extraction for one menu text.
type TextProcessor interface {
	Process(ctx context.Context, text string) (pipeline.Result, error)
}
