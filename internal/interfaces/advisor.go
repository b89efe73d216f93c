package interfaces

import (
	"context"

	"forex-journal/internal/types"
)

// Advisor turns a pre-computed statistics summary and the trades behind it
// into a structured coaching report. Implementations must never receive raw
// account identifiers; the summary is the whole prompt payload.
type Advisor interface {
	Advise(ctx context.Context, summary types.Summary, trades []types.Trade) (types.CoachingReport, error)
}
