package coachobs

import (
	"context"

	"forex-journal/internal/interfaces"
	"forex-journal/internal/logger"
	"forex-journal/internal/trace"
	"forex-journal/internal/types"
)

// observableAdvisor wraps an Advisor with observability (logging & tracing)
type observableAdvisor struct {
	advisor interfaces.Advisor
}

// Compile-time interface check
var _ interfaces.Advisor = (*observableAdvisor)(nil)

// Wrap wraps an advisor with observability middleware
func Wrap(advisor interfaces.Advisor) interfaces.Advisor {
	return &observableAdvisor{
		advisor: advisor,
	}
}

// Advise generates a coaching report with observability
func (oa *observableAdvisor) Advise(ctx context.Context, summary types.Summary, trades []types.Trade) (types.CoachingReport, error) {
	ctx, span := trace.StartSpan(ctx, "coach.Advise")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting coaching report",
		"trades", summary.TotalTrades,
		"winRate", summary.WinRate,
	)

	report, err := oa.advisor.Advise(ctx, summary, trades)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to generate coaching report", err,
			"trades", summary.TotalTrades,
		)
		return types.CoachingReport{}, err
	}

	logger.InfoSkip(ctx, 1, "Coaching report generated",
		"provider", report.Provider,
		"headline", report.Headline,
		"actions", len(report.Actions),
	)

	return report, nil
}
