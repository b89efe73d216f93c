package metrics

import (
	"encoding/json"
	"testing"

	"forex-journal/internal/types"
)

func mkTrade(id string, profit float64, closeTime string) types.Trade {
	return types.Trade{ID: id, Symbol: "EURUSD", Side: types.Long, Profit: profit, CloseTime: closeTime}
}

func TestEquityCurve(t *testing.T) {
	trades := []types.Trade{
		mkTrade("2", -20, "2024-01-03 10:00:00"),
		mkTrade("1", 50, "2024-01-02 10:00:00"),
		mkTrade("3", 30, "2024-01-04 10:00:00"),
	}

	curve := EquityCurve(trades)
	if len(curve) != len(trades) {
		t.Fatalf("curve length %d, want %d", len(curve), len(trades))
	}

	wants := []float64{50, 30, 60}
	for i, want := range wants {
		if curve[i].Value != want {
			t.Errorf("point %d = %v, want %v", i, curve[i].Value, want)
		}
	}
	if !curve[0].Time.Before(curve[1].Time) {
		t.Error("curve not sorted by close time")
	}
}

func TestEquityCurveEmpty(t *testing.T) {
	if curve := EquityCurve(nil); len(curve) != 0 {
		t.Errorf("empty input gave %d points", len(curve))
	}
}

func TestDrawdown(t *testing.T) {
	curve := []EquityPoint{{Value: 50}, {Value: 30}, {Value: 80}, {Value: 20}}
	dd := Drawdown(curve)

	wants := []float64{0, 20, 0, 60}
	for i, want := range wants {
		if dd[i].Value != want {
			t.Errorf("drawdown %d = %v, want %v", i, dd[i].Value, want)
		}
		if dd[i].Value < 0 {
			t.Errorf("drawdown %d negative", i)
		}
	}

	if got := MaxDrawdown(curve); got != 60 {
		t.Errorf("MaxDrawdown = %v, want 60", got)
	}
}

func TestMaxDrawdownMonotonicGains(t *testing.T) {
	curve := []EquityPoint{{Value: 10}, {Value: 20}, {Value: 35}}
	if got := MaxDrawdown(curve); got != 0 {
		t.Errorf("MaxDrawdown = %v, want 0 for monotonic gains", got)
	}
	if got := MaxDrawdown(nil); got != 0 {
		t.Errorf("MaxDrawdown(nil) = %v", got)
	}
}

func TestWinRate(t *testing.T) {
	trades := []types.Trade{
		mkTrade("1", 50, "2024-01-02 10:00:00"),
		mkTrade("2", -20, "2024-01-02 11:00:00"),
		mkTrade("3", 0, "2024-01-02 12:00:00"),
		mkTrade("4", 10, "2024-01-02 13:00:00"),
	}
	// Zero-profit trades count in the denominator only: 2 wins of 4.
	if got := WinRate(trades); got != 50 {
		t.Errorf("WinRate = %v, want 50", got)
	}
	if got := WinRate(nil); got != 0 {
		t.Errorf("WinRate(nil) = %v, want 0", got)
	}
}

func TestProfitFactor(t *testing.T) {
	mixed := []types.Trade{mkTrade("1", 100, ""), mkTrade("2", -40, ""), mkTrade("3", -10, "")}
	pf := ComputeProfitFactor(mixed)
	if pf.Infinite || pf.Ratio != 2 {
		t.Errorf("ProfitFactor = %+v, want ratio 2", pf)
	}
	if pf.String() != "2.00" {
		t.Errorf("String() = %q", pf.String())
	}

	noLosses := []types.Trade{mkTrade("1", 100, "")}
	pf = ComputeProfitFactor(noLosses)
	if !pf.Infinite {
		t.Errorf("no losses should be infinite, got %+v", pf)
	}
	if pf.String() != "∞" {
		t.Errorf("infinite String() = %q", pf.String())
	}
	b, err := json.Marshal(pf)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"∞"` {
		t.Errorf("infinite JSON = %s", b)
	}

	if pf := ComputeProfitFactor(nil); pf.Infinite || pf.Ratio != 0 {
		t.Errorf("empty input ProfitFactor = %+v, want finite 0", pf)
	}
}

func TestRRR(t *testing.T) {
	tests := []struct {
		name  string
		trade types.Trade
		want  float64
	}{
		{"two to one", types.Trade{OpenPrice: 1.1000, StopPrice: 1.0950, TargetPrice: 1.1100}, 2},
		{"no stop", types.Trade{OpenPrice: 1.1000, TargetPrice: 1.1100}, 0},
		{"no target", types.Trade{OpenPrice: 1.1000, StopPrice: 1.0950}, 0},
		{"stop at entry", types.Trade{OpenPrice: 1.1000, StopPrice: 1.1000, TargetPrice: 1.1100}, 0},
	}
	for _, tt := range tests {
		if got := RRR(tt.trade); got != tt.want {
			t.Errorf("%s: RRR = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGrossNetCost(t *testing.T) {
	tr := types.Trade{Profit: 50000, Swap: 1.5, Commission: -12}
	gross, net, cost := GrossNetCost(tr)
	if gross != 50000 {
		t.Errorf("gross = %v", gross)
	}
	if net != 49989.5 {
		t.Errorf("net = %v, want 49989.5", net)
	}
	if cost != 10.5 {
		t.Errorf("cost = %v, want 10.5", cost)
	}
}

func TestSetupTag(t *testing.T) {
	tests := []struct{ comment, want string }{
		{"London breakout long", "Breakout"},
		{"ブレイクアウト狙い", "Breakout"},
		{"押し目買い", "Pullback"},
		{"counter trend reversal", "Reversal"},
		{"トレンドフォロー", "Trend"},
		{"range fade", "Range"},
		{"quick scalp", "Scalp"},
		{"スキャルピング", "Scalp"},
		{"felt like it", "Other"},
		{"", "Other"},
	}
	for _, tt := range tests {
		if got := SetupTag(tt.comment); got != tt.want {
			t.Errorf("SetupTag(%q) = %q, want %q", tt.comment, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	trades := []types.Trade{
		{ID: "1", Symbol: "USDJPY", Side: types.Long, Lots: 1.0, Profit: 50000, Swap: 1.5, Commission: -12, HoldMin: 390, CloseTime: "2024-01-02 15:30:00"},
		{ID: "2", Symbol: "EURUSD", Side: types.Short, Lots: 0.5, Profit: -50, HoldMin: 60, CloseTime: "2024-01-03 11:00:00"},
	}

	s := Summarize(trades)
	if s.TotalTrades != 2 || s.Wins != 1 || s.Losses != 1 {
		t.Errorf("counts = %d/%d/%d", s.TotalTrades, s.Wins, s.Losses)
	}
	if s.WinRate != 50 {
		t.Errorf("winRate = %v", s.WinRate)
	}
	if s.TotalPnl != 49950 {
		t.Errorf("totalPnl = %v", s.TotalPnl)
	}
	if s.AvgWin != 50000 || s.AvgLoss != 50 {
		t.Errorf("avgWin/avgLoss = %v/%v", s.AvgWin, s.AvgLoss)
	}
	if s.AvgLotSize != 0.75 || s.MaxLotSize != 1.0 {
		t.Errorf("lots = %v/%v", s.AvgLotSize, s.MaxLotSize)
	}
	if s.ClosedPL != 49939.5 {
		t.Errorf("closedPL = %v, want 49939.5", s.ClosedPL)
	}
	if s.MaxDrawdown != 50 {
		t.Errorf("maxDrawdown = %v, want 50", s.MaxDrawdown)
	}
	if s.AvgHoldMin != 225 {
		t.Errorf("avgHoldMin = %v, want 225", s.AvgHoldMin)
	}
	if s.ProfitFactor != "1000.00" {
		t.Errorf("profitFactor = %q", s.ProfitFactor)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalTrades != 0 || s.WinRate != 0 || s.MaxDrawdown != 0 {
		t.Errorf("empty summary not zeroed: %+v", s)
	}
	if s.ProfitFactor != "0.00" {
		t.Errorf("empty profitFactor = %q", s.ProfitFactor)
	}
}
