package types

import (
	"strings"
	"time"
)

// Side is the direction of a closed position.
type Side string

const (
	Long  Side = "LONG"
	Short Side = "SHORT"
)

// Trade is the canonical record of one closed position, independent of the
// broker export format it came from. Created once at ingestion and never
// mutated; re-imports replace the whole dataset partition.
type Trade struct {
	ID          string  `json:"id" csv:"-"`
	Ticket      string  `json:"ticket" csv:"Ticket"`
	Symbol      string  `json:"symbol" csv:"Item"`
	Side        Side    `json:"side" csv:"Type"`
	Lots        float64 `json:"lots" csv:"Size"`
	OpenTime    string  `json:"openTime" csv:"Open Time"`
	OpenPrice   float64 `json:"openPrice" csv:"Open Price"`
	CloseTime   string  `json:"closeTime" csv:"Close Time"`
	ClosePrice  float64 `json:"closePrice" csv:"Close Price"`
	StopPrice   float64 `json:"stopPrice,omitempty" csv:"S/L"`
	TargetPrice float64 `json:"targetPrice,omitempty" csv:"T/P"`
	Commission  float64 `json:"commission" csv:"Commission"`
	Swap        float64 `json:"swap" csv:"Swap"`
	Profit      float64 `json:"profit" csv:"Profit"`
	Pips        float64 `json:"pips" csv:"Pips"`
	HoldMin     int     `json:"holdMin,omitempty" csv:"-"`
	Comment     string  `json:"comment,omitempty" csv:"Comment"`
	Dataset     string  `json:"dataset,omitempty" csv:"-"`
}

// ClosedPL is the full realized result including financing and fees.
// Dashboards classify win/loss on Profit alone; the two must not be conflated.
func (t Trade) ClosedPL() float64 {
	return t.Profit + t.Swap + t.Commission
}

// CloseAt parses the close timestamp. The bool is false when the raw value is
// not a recognizable instant.
func (t Trade) CloseAt() (time.Time, bool) {
	return ParseTime(t.CloseTime)
}

// OpenAt parses the open timestamp.
func (t Trade) OpenAt() (time.Time, bool) {
	return ParseTime(t.OpenTime)
}

// IsJPY reports whether the instrument is quoted in yen, which switches the
// pip unit from 0.0001 to 0.01.
func (t Trade) IsJPY() bool {
	return strings.HasSuffix(strings.ToUpper(strings.TrimSpace(t.Symbol)), "JPY")
}

// PipUnit is the minimum standard price increment for the instrument.
func (t Trade) PipUnit() float64 {
	if t.IsJPY() {
		return 0.01
	}
	return 0.0001
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime accepts the timestamp spellings seen across broker exports:
// "2024.01.02 15:04:05", slash or dash separated, with or without seconds,
// and RFC3339. Values are treated as UTC-comparable instants.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	// MT4 statements use dots, some brokers slashes; normalize to dashes.
	s = strings.ReplaceAll(s, ".", "-")
	s = strings.ReplaceAll(s, "/", "-")
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Filters is the ephemeral, view-driven selection criteria. Zero values mean
// "no constraint"; all set fields must match (implicit AND).
type Filters struct {
	From    string `form:"from" json:"from,omitempty"` // inclusive date YYYY-MM-DD
	To      string `form:"to" json:"to,omitempty"`     // inclusive date YYYY-MM-DD
	Symbol  string `form:"symbol" json:"symbol,omitempty"`
	Side    Side   `form:"side" json:"side,omitempty"`
	PnL     string `form:"pnl" json:"pnl,omitempty"`         // "win" or "loss"
	Weekday string `form:"weekday" json:"weekday,omitempty"` // "weekdays", "weekend", or "0".."6" (0=Sunday)
	Session string `form:"session" json:"session,omitempty"` // "asia", "london", "ny", "thin"
}

// IsZero reports whether no criteria are set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// DatasetStats is a cheap overview of one stored dataset partition.
type DatasetStats struct {
	Dataset string  `json:"dataset"`
	Count   int     `json:"count"`
	NetPL   float64 `json:"netPL"`
}

// Summary is the pre-computed statistics object handed to the coaching
// prompt template and rendered on the dashboard KPI cards.
type Summary struct {
	TotalTrades     int     `json:"totalTrades"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	WinRate         float64 `json:"winRate"` // percent
	TotalPnl        float64 `json:"totalPnl"`
	AvgWin          float64 `json:"avgWin"`
	AvgLoss         float64 `json:"avgLoss"` // positive magnitude
	AvgLotSize      float64 `json:"avgLotSize"`
	MaxLotSize      float64 `json:"maxLotSize"`
	MaxDrawdown     float64 `json:"maxDrawdown"`
	TotalSwap       float64 `json:"totalSwap"`
	TotalCommission float64 `json:"totalCommission"`
	ClosedPL        float64 `json:"closedPL"`
	ProfitFactor    string  `json:"profitFactor"` // finite value or "∞"
	AvgHoldMin      float64 `json:"avgHoldMin"`
}

// CoachingReport is the structured document returned by the LLM coaching
// service. The shape mirrors what the prompt template asks the model for.
type CoachingReport struct {
	Headline    string   `json:"headline"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Actions     []string `json:"actions"`
	RiskNotes   string   `json:"riskNotes,omitempty"`
	Provider    string   `json:"provider,omitempty"`
	GeneratedAt string   `json:"generatedAt,omitempty"`
}
