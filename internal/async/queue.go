package async

import (
	"context"
	"time"
)

// Job is one menu file waiting to be extracted.
type Job struct {
	Path        string
	SubmittedAt time.Time
	TraceID     string // becomes the request id of the worker's context
}

// Queue accepts menu files for background extraction.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	// Shutdown stops intake and drains queued jobs until ctx ends.
	Shutdown(ctx context.Context)
}

var _ Queue = (*ProcessorQueue)(nil)
