package extract

import "context"

// Candidate is one loosely-typed record as returned by the model.
type Candidate = map[string]any

// MenuExtractor turns uploaded menu text into candidate records.
type MenuExtractor interface {
	Extract(ctx context.Context, text string) ([]Candidate, error)
}
