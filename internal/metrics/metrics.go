// Package metrics computes the aggregate figures the dashboard widgets and
// the coaching summary render. Every function is pure over a trade slice and
// an empty input yields well-defined zero results, never NaN: the widgets
// render unconditionally on whatever comes back.
//
// Win/loss classification uses the Profit field alone; the full closed P/L
// (profit + swap + commission) is a separate figure and the two are never
// conflated.
package metrics

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"time"

	"forex-journal/internal/types"
)

// EquityPoint is one step of the running cumulative P/L.
type EquityPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// EquityCurve sorts trades ascending by close time (ties keep input order)
// and accumulates Profit. The result always has one point per input trade.
func EquityCurve(trades []types.Trade) []EquityPoint {
	ordered := make([]types.Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		ti, _ := ordered[i].CloseAt()
		tj, _ := ordered[j].CloseAt()
		return ti.Before(tj)
	})

	points := make([]EquityPoint, len(ordered))
	var sum float64
	for i, t := range ordered {
		at, _ := t.CloseAt()
		sum += t.Profit
		points[i] = EquityPoint{Time: at, Value: sum}
	}
	return points
}

// DrawdownPoint carries the distance below the running equity peak, ≥ 0 by
// construction.
type DrawdownPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Drawdown derives the peak-minus-current series from an equity curve.
func Drawdown(curve []EquityPoint) []DrawdownPoint {
	out := make([]DrawdownPoint, len(curve))
	peak := math.Inf(-1)
	for i, p := range curve {
		if p.Value > peak {
			peak = p.Value
		}
		out[i] = DrawdownPoint{Time: p.Time, Value: peak - p.Value}
	}
	return out
}

// MaxDrawdown is the largest peak-to-trough distance of the equity curve.
func MaxDrawdown(curve []EquityPoint) float64 {
	var max float64
	peak := math.Inf(-1)
	for _, p := range curve {
		if p.Value > peak {
			peak = p.Value
		}
		if dd := peak - p.Value; dd > max {
			max = dd
		}
	}
	return max
}

// WinRate is count(profit>0)/count(all) as a percentage. Zero-profit trades
// count in the denominator but are neither wins nor losses.
func WinRate(trades []types.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	wins := 0
	for _, t := range trades {
		if t.Profit > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(trades)) * 100
}

// ProfitFactor is gross winnings over gross losses. With no losses and some
// winnings the ratio is infinite; that case is an explicit sentinel rather
// than a float overflow, because it renders as "∞".
type ProfitFactor struct {
	Ratio    float64
	Infinite bool
}

func (p ProfitFactor) String() string {
	if p.Infinite {
		return "∞"
	}
	return strconv.FormatFloat(p.Ratio, 'f', 2, 64)
}

// MarshalJSON emits the finite ratio as a number and the infinite sentinel as
// the string "∞", which JSON numbers cannot express.
func (p ProfitFactor) MarshalJSON() ([]byte, error) {
	if p.Infinite {
		return json.Marshal("∞")
	}
	return json.Marshal(p.Ratio)
}

// ComputeProfitFactor sums winning and losing profit independently. An empty
// sequence (or one with no wins and no losses) yields a finite 0.
func ComputeProfitFactor(trades []types.Trade) ProfitFactor {
	var grossWin, grossLoss float64
	for _, t := range trades {
		switch {
		case t.Profit > 0:
			grossWin += t.Profit
		case t.Profit < 0:
			grossLoss += -t.Profit
		}
	}
	if grossLoss == 0 {
		if grossWin > 0 {
			return ProfitFactor{Infinite: true}
		}
		return ProfitFactor{}
	}
	return ProfitFactor{Ratio: grossWin / grossLoss}
}

// RRR is the simple entry-based risk/reward ratio when both stop and target
// are present: reward pips over risk pips. Zero when undefined.
func RRR(t types.Trade) float64 {
	if t.OpenPrice == 0 || t.StopPrice == 0 || t.TargetPrice == 0 {
		return 0
	}
	risk := math.Abs(t.OpenPrice - t.StopPrice)
	if risk == 0 {
		return 0
	}
	reward := math.Abs(t.TargetPrice - t.OpenPrice)
	return math.Round(reward/risk*100) / 100
}

// GrossNetCost splits a trade's result the way the monthly breakdown panel
// shows it: gross is the raw profit, net folds in swap and commission, cost
// is what trading it cost (positive = paid).
func GrossNetCost(t types.Trade) (gross, net, cost float64) {
	gross = t.Profit
	net = t.Profit + t.Swap + t.Commission
	cost = -(t.Commission + t.Swap)
	return gross, net, cost
}
