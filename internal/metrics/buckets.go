package metrics

import (
	"sort"
	"strconv"

	"forex-journal/internal/filter"
	"forex-journal/internal/types"
)

// Bucket is the per-group aggregate every breakdown panel renders.
type Bucket struct {
	Count        int          `json:"count"`
	NetPL        float64      `json:"netPL"`
	WinRate      float64      `json:"winRate"`
	ProfitFactor ProfitFactor `json:"profitFactor"`
	AvgPL        float64      `json:"avgPL"`
}

func bucketOf(trades []types.Trade) Bucket {
	b := Bucket{
		Count:        len(trades),
		WinRate:      WinRate(trades),
		ProfitFactor: ComputeProfitFactor(trades),
	}
	for _, t := range trades {
		b.NetPL += t.Profit
	}
	if b.Count > 0 {
		b.AvgPL = b.NetPL / float64(b.Count)
	}
	return b
}

// groupBy buckets trades by an arbitrary string key. Trades mapped to the
// empty key are left out.
func groupBy(trades []types.Trade, key func(types.Trade) string) map[string]Bucket {
	groups := make(map[string][]types.Trade)
	for _, t := range trades {
		k := key(t)
		if k == "" {
			continue
		}
		groups[k] = append(groups[k], t)
	}
	out := make(map[string]Bucket, len(groups))
	for k, g := range groups {
		out[k] = bucketOf(g)
	}
	return out
}

// ByWeekday groups on the close weekday, keyed "0" (Sunday) through "6".
// Trades with an unparsable close time are excluded.
func ByWeekday(trades []types.Trade) map[string]Bucket {
	return groupBy(trades, func(t types.Trade) string {
		at, ok := t.CloseAt()
		if !ok {
			return ""
		}
		return strconv.Itoa(int(at.Weekday()))
	})
}

// ByHour groups on the close UTC hour, keyed "0" through "23".
func ByHour(trades []types.Trade) map[string]Bucket {
	return groupBy(trades, func(t types.Trade) string {
		at, ok := t.CloseAt()
		if !ok {
			return ""
		}
		return strconv.Itoa(at.Hour())
	})
}

// BySymbol groups on the normalized instrument symbol.
func BySymbol(trades []types.Trade) map[string]Bucket {
	return groupBy(trades, func(t types.Trade) string {
		return filter.NormalizeSymbol(t.Symbol)
	})
}

// BySetup groups on the strategy tag extracted from the free-text comment.
func BySetup(trades []types.Trade) map[string]Bucket {
	return groupBy(trades, func(t types.Trade) string {
		return SetupTag(t.Comment)
	})
}

// BySession groups on the trading-session bucket of the close hour.
func BySession(trades []types.Trade) map[string]Bucket {
	return groupBy(trades, func(t types.Trade) string {
		at, ok := t.CloseAt()
		if !ok {
			return ""
		}
		return string(filter.SessionOf(at.Hour()))
	})
}

// DayCell is one calendar day's result for the monthly calendar widget.
type DayCell struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Count int     `json:"count"`
	NetPL float64 `json:"netPL"`
	Wins  int     `json:"wins"`
}

// Calendar aggregates per close date within a month ("2024-01"). Month empty
// means all days.
func Calendar(trades []types.Trade, month string) []DayCell {
	byDay := make(map[string]*DayCell)
	for _, t := range trades {
		at, ok := t.CloseAt()
		if !ok {
			continue
		}
		date := at.Format("2006-01-02")
		if month != "" && at.Format("2006-01") != month {
			continue
		}
		cell, ok := byDay[date]
		if !ok {
			cell = &DayCell{Date: date}
			byDay[date] = cell
		}
		cell.Count++
		cell.NetPL += t.Profit
		if t.Profit > 0 {
			cell.Wins++
		}
	}

	out := make([]DayCell, 0, len(byDay))
	for _, c := range byDay {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
