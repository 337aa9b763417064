package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/menu-extractor/internal/async"
	"github.com/joseph-ayodele/menu-extractor/internal/common"
	"github.com/joseph-ayodele/menu-extractor/internal/export"
	"github.com/joseph-ayodele/menu-extractor/internal/extract"
	"github.com/joseph-ayodele/menu-extractor/internal/ingest"
	"github.com/joseph-ayodele/menu-extractor/internal/llm/provider"
	"github.com/joseph-ayodele/menu-extractor/internal/pipeline"
	repo "github.com/joseph-ayodele/menu-extractor/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		inmem    = flag.Bool("inmem", false, "use in-memory SQLite database")
		dir      = flag.String("dir", "", "directory to read .txt menus from (required)")
		out      = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		category = flag.String("category", "", "export only this category")
		search   = flag.String("search", "", "export only items matching this text")
		watch    = flag.Bool("watch", false, "keep running and extract menus as files appear")
		workers  = flag.Int("workers", 2, "concurrent extractions in watch mode")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "menu-items.xlsx")
	}

	common.LoadDotEnv()
	cfg := common.LoadConfig()
	if *inmem {
		cfg.Database.Driver = "sqlite"
		cfg.Database.SQLitePath = repo.MemoryPath
	}

	logger := common.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repo.OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	gen, err := provider.New(cfg.LLM, logger)
	if err != nil {
		logger.Error("failed to create LLM client", "error", err)
		os.Exit(2)
	}
	extractor, err := extract.NewExtractor(gen, logger, extract.WithResponseSchema(provider.SupportsResponseSchema(cfg.LLM)))
	if err != nil {
		logger.Error("failed to create extractor", "error", err)
		os.Exit(1)
	}
	processor := pipeline.NewProcessor(logger, extractor, store, true)
	ingestor := ingest.NewIngestor(processor, cfg.Server.MaxUploadBytes, logger)

	if *watch {
		runWatch(ctx, ingestor, *dir, *workers, logger)
	} else {
		logger.Info("starting ingestion", "dir", *dir, "model", gen.Model())
		results, stats, err := ingestor.IngestDirectory(ctx, *dir, true)
		if err != nil {
			logger.Error("failed to ingest directory", "error", err)
			os.Exit(1)
		}
		items := 0
		for _, r := range results {
			items += r.Items
		}
		logger.Info("ingestion complete",
			"scanned", stats.Scanned,
			"matched", stats.Matched,
			"succeeded", stats.Succeeded,
			"failed", stats.Failed,
			"items", items,
		)
	}

	// Export with a fresh context so an interrupted watch still writes the workbook.
	exportCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	logger.Info("exporting to XLSX", "output", *out)
	xlsxBytes, err := export.NewService(store, logger).ExportMenuItemsXLSX(exportCtx, repo.ListFilter{
		Category: *category,
		Search:   *search,
	})
	if err != nil {
		logger.Error("failed to export menu items", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Menu items exported to: %s\n", *out)
}

// runWatch extracts every existing and newly written menu under dir until ctx ends.
func runWatch(ctx context.Context, ingestor *ingest.Ingestor, dir string, workers int, logger *slog.Logger) {
	var ok, failed atomic.Int64
	var queue async.Queue = async.NewProcessorQueue(ingestor, logger,
		async.WithWorkers(workers),
		async.WithOnResult(func(_ async.Job, _ ingest.FileResult, err error) {
			if err != nil {
				failed.Add(1)
				return
			}
			ok.Add(1)
		}),
	)

	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{dir},
		InitialScan: true,
		Debounce:    500 * time.Millisecond,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}
	logger.Info("watching for menus", "dir", dir, "workers", workers)

loop:
	for {
		select {
		case p, open := <-paths:
			if !open {
				break loop
			}
			if err := queue.Enqueue(ctx, async.Job{Path: p, TraceID: uuid.NewString()}); err != nil {
				logger.Warn("enqueue failed", "path", p, "error", err)
			}
		case err, open := <-errs:
			if !open {
				errs = nil
				continue
			}
			logger.Warn("watcher reported error", "error", err)
		case <-ctx.Done():
			break loop
		}
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	queue.Shutdown(drainCtx)
	logger.Info("watch stopped", "succeeded", ok.Load(), "failed", failed.Load())
}
