package noop

import (
	"context"
	"fmt"

	"forex-journal/internal/logger"
	"forex-journal/internal/types"
)

// NoopAdvisor is a fallback advisor used when no LLM provider is configured.
// It produces a deterministic rule-based report from the summary so the
// coaching panel still renders something useful offline.
type NoopAdvisor struct{}

// NewNoopAdvisor returns a new instance
func NewNoopAdvisor() *NoopAdvisor {
	return &NoopAdvisor{}
}

// Advise implements the Advisor interface with simple threshold rules
func (a *NoopAdvisor) Advise(ctx context.Context, summary types.Summary, trades []types.Trade) (types.CoachingReport, error) {
	logger.Debug(ctx, "Noop advisor called", "trades", summary.TotalTrades)

	report := types.CoachingReport{
		Headline: fmt.Sprintf("%d trades reviewed, %.1f%% win rate", summary.TotalTrades, summary.WinRate),
		Provider: "noop",
	}

	if summary.TotalTrades == 0 {
		report.Headline = "No trades in this selection"
		report.Actions = append(report.Actions, "Import a broker statement to get started")
		return report, nil
	}

	if summary.WinRate >= 50 {
		report.Strengths = append(report.Strengths, fmt.Sprintf("Win rate of %.1f%% is above break-even", summary.WinRate))
	} else {
		report.Weaknesses = append(report.Weaknesses, fmt.Sprintf("Win rate of %.1f%% is below half", summary.WinRate))
	}

	if summary.AvgLoss > 0 && summary.AvgWin < summary.AvgLoss {
		report.Weaknesses = append(report.Weaknesses, "Average loss exceeds average win")
		report.Actions = append(report.Actions, "Review exits: losers are being held past the size of typical winners")
	} else if summary.AvgLoss > 0 {
		report.Strengths = append(report.Strengths, "Winners are larger than losers on average")
	}

	if summary.MaxLotSize > 0 && summary.AvgLotSize > 0 && summary.MaxLotSize > summary.AvgLotSize*3 {
		report.RiskNotes = fmt.Sprintf("Max position size %.2f lots is more than triple the %.2f average; check sizing discipline", summary.MaxLotSize, summary.AvgLotSize)
	}

	if summary.MaxDrawdown > 0 && summary.TotalPnl != 0 {
		report.Actions = append(report.Actions, fmt.Sprintf("Largest equity drawdown was %.2f; consider a daily loss cutoff", summary.MaxDrawdown))
	}

	return report, nil
}
