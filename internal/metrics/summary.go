package metrics

import "forex-journal/internal/types"

// Summarize computes the statistics object the coaching prompt template and
// the dashboard KPI cards consume. Empty input yields all zeros.
func Summarize(trades []types.Trade) types.Summary {
	s := types.Summary{
		TotalTrades:  len(trades),
		WinRate:      WinRate(trades),
		ProfitFactor: ComputeProfitFactor(trades).String(),
	}

	var grossWin, grossLoss float64
	var holdSum, holdN int
	for _, t := range trades {
		s.TotalPnl += t.Profit
		s.TotalSwap += t.Swap
		s.TotalCommission += t.Commission
		switch {
		case t.Profit > 0:
			s.Wins++
			grossWin += t.Profit
		case t.Profit < 0:
			s.Losses++
			grossLoss += -t.Profit
		}
		s.AvgLotSize += t.Lots
		if t.Lots > s.MaxLotSize {
			s.MaxLotSize = t.Lots
		}
		if t.HoldMin > 0 {
			holdSum += t.HoldMin
			holdN++
		}
	}

	s.ClosedPL = s.TotalPnl + s.TotalSwap + s.TotalCommission
	if s.Wins > 0 {
		s.AvgWin = grossWin / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AvgLoss = grossLoss / float64(s.Losses)
	}
	if s.TotalTrades > 0 {
		s.AvgLotSize /= float64(s.TotalTrades)
	}
	if holdN > 0 {
		s.AvgHoldMin = float64(holdSum) / float64(holdN)
	}
	s.MaxDrawdown = MaxDrawdown(EquityCurve(trades))

	return s
}
