package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/menu-extractor/constants"
	"github.com/joseph-ayodele/menu-extractor/internal/common"
	"github.com/joseph-ayodele/menu-extractor/internal/entity"
	"github.com/joseph-ayodele/menu-extractor/internal/extract"
)

// BatchWriter is the storage side of the pipeline.
type BatchWriter interface {
	WriteBatch(ctx context.Context, items []entity.MenuItem) error
}

// Persistence reports the storage outcome of one extracted batch.
type Persistence struct {
	Status constants.PersistStatus `json:"status"`
	Error  string                  `json:"error,omitempty"`
}

// Result is what one processed upload produced.
type Result struct {
	Items       []entity.MenuItem
	Categories  []string
	ExtractedAt time.Time
	Persistence Persistence
}

// Processor runs extract, normalize, then store for one text.
type Processor struct {
	Logger    *slog.Logger
	Extractor extract.MenuExtractor
	Store     BatchWriter
	// Strict turns a failed write into a STORAGE_ERROR instead of a reported status.
	Strict bool

	now func() time.Time
}

func NewProcessor(logger *slog.Logger, extractor extract.MenuExtractor, store BatchWriter, strict bool) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Logger:    logger,
		Extractor: extractor,
		Store:     store,
		Strict:    strict,
		now:       time.Now,
	}
}

// Process extracts menu items from text and stores them as one batch.
// Extraction errors are returned unchanged and nothing is stored.
func (p *Processor) Process(ctx context.Context, text string) (Result, error) {
	log := common.LoggerFromContext(ctx, p.Logger)

	raw, err := p.Extractor.Extract(ctx, text)
	if err != nil {
		log.Error("processor.extract.failed", "code", common.CodeOf(err), "err", err)
		return Result{}, err
	}

	batchAt := p.clock()().UTC()
	items := extract.Normalize(raw, batchAt)
	res := Result{
		Items:       items,
		Categories:  extract.Categories(items),
		ExtractedAt: batchAt,
	}
	log.Info("processor.normalize.ok", "items", len(items), "categories", len(res.Categories))

	if err := p.Store.WriteBatch(ctx, items); err != nil {
		log.Error("processor.store.failed", "items", len(items), "err", err)
		if p.Strict {
			return Result{}, common.Storage("Failed to save menu items", err)
		}
		res.Persistence = Persistence{Status: constants.PersistFailed, Error: "menu items could not be saved"}
		return res, nil
	}

	res.Persistence = Persistence{Status: constants.PersistStored}
	log.Info("processor.store.ok", "items", len(items))
	return res, nil
}

func (p *Processor) clock() func() time.Time {
	if p.now == nil {
		return time.Now
	}
	return p.now
}
