package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/menu-extractor/internal/common"
	"github.com/joseph-ayodele/menu-extractor/internal/llm"
)

// Extractor calls the model once per text and pulls a JSON array out of the reply.
type Extractor struct {
	gen         llm.Generator
	arraySchema *llm.DocumentSchema
	itemSchema  *llm.DocumentSchema
	structured  bool
	log         *slog.Logger
}

// Option tweaks an Extractor.
type Option func(*Extractor)

// WithResponseSchema asks the generator for schema-constrained output.
func WithResponseSchema(on bool) Option {
	return func(e *Extractor) { e.structured = on }
}

func NewExtractor(gen llm.Generator, logger *slog.Logger, opts ...Option) (*Extractor, error) {
	if gen == nil {
		return nil, errors.New("extract: nil generator")
	}
	if logger == nil {
		logger = slog.Default()
	}
	schema, err := llm.CompileSchema(llm.ArrayOnlySchema())
	if err != nil {
		return nil, fmt.Errorf("compile array schema: %w", err)
	}
	items, err := llm.CompileSchema(llm.BuildMenuArrayJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("compile item schema: %w", err)
	}
	e := &Extractor{gen: gen, arraySchema: schema, itemSchema: items, log: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Extract returns the candidate records found in text, in model order.
// Elements that are not JSON objects come back as empty records.
func (e *Extractor) Extract(ctx context.Context, text string) ([]Candidate, error) {
	log := common.LoggerFromContext(ctx, e.log)
	if strings.TrimSpace(text) == "" {
		return nil, common.InvalidInput("file content is empty")
	}

	req := llm.GenerateRequest{Prompt: llm.BuildMenuPrompt(text)}
	if e.structured {
		req.ResponseSchema = llm.BuildGeminiResponseSchema()
	}

	start := time.Now()
	log.Info("extract.start", "model", e.gen.Model(), "text_len", len(text), "structured", e.structured)

	resp, err := e.gen.Generate(ctx, req)
	if err != nil {
		log.Error("extract.generate_failed", "model", e.gen.Model(), "error", err)
		return nil, common.Upstream("Failed to extract menu data", err)
	}
	if strings.TrimSpace(resp) == "" {
		log.Error("extract.empty_response", "model", e.gen.Model())
		return nil, common.Upstream("Failed to extract menu data", errors.New("empty model response"))
	}

	items, err := e.parse(log, resp)
	if err != nil {
		log.Error("extract.parse_failed", "error", err, "raw", resp)
		return nil, common.Parse("Failed to parse AI response", err)
	}

	log.Info("extract.ok",
		"model", e.gen.Model(),
		"items", len(items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return items, nil
}

// parse fails only on a missing or non-array document. Elements that miss the
// item schema are logged and still handed to the normalizer.
func (e *Extractor) parse(log *slog.Logger, resp string) ([]Candidate, error) {
	span, ok := llm.FindJSONArray(resp)
	if !ok {
		return nil, errors.New("no JSON array in response")
	}
	doc, err := e.arraySchema.Decode([]byte(span))
	if err != nil {
		return nil, fmt.Errorf("response array: %w", err)
	}
	if err := e.itemSchema.Validate(doc); err != nil {
		log.Warn("extract.schema_mismatch", "model", e.gen.Model(), "error", err)
	}

	arr := doc.([]any)
	out := make([]Candidate, 0, len(arr))
	for _, el := range arr {
		obj, ok := el.(map[string]any)
		if !ok {
			obj = Candidate{}
		}
		out = append(out, obj)
	}
	return out, nil
}
