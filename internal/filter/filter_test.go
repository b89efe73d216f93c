package filter

import (
	"testing"

	"forex-journal/internal/types"
)

// 2024-01-02 is a Tuesday, 2024-01-06 a Saturday, 2024-01-07 a Sunday.
var fixture = []types.Trade{
	{ID: "1", Symbol: "USDJPY", Side: types.Long, Profit: 50, CloseTime: "2024-01-02 10:00:00"},
	{ID: "2", Symbol: "EURUSD", Side: types.Short, Profit: -20, CloseTime: "2024-01-02 18:30:00"},
	{ID: "3", Symbol: "USD/JPY", Side: types.Short, Profit: 30, CloseTime: "2024-01-06 23:00:00"},
	{ID: "4", Symbol: "GBPUSD", Side: types.Long, Profit: 0, CloseTime: "2024-01-07 03:00:00"},
	{ID: "5", Symbol: "AUDUSD", Side: types.Long, Profit: 10, CloseTime: "garbage"},
}

func ids(trades []types.Trade) []string {
	out := make([]string, len(trades))
	for i, t := range trades {
		out[i] = t.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		f    types.Filters
		want []string
	}{
		{"no filters drops only unparsable close times", types.Filters{}, []string{"1", "2", "3", "4"}},
		{"symbol normalizes separators", types.Filters{Symbol: "usd/jpy"}, []string{"1", "3"}},
		{"side", types.Filters{Side: types.Short}, []string{"2", "3"}},
		{"wins exclude zero profit", types.Filters{PnL: "win"}, []string{"1", "3"}},
		{"losses exclude zero profit", types.Filters{PnL: "loss"}, []string{"2"}},
		{"date range inclusive", types.Filters{From: "2024-01-02", To: "2024-01-06"}, []string{"1", "2", "3"}},
		{"from bound", types.Filters{From: "2024-01-03"}, []string{"3", "4"}},
		{"weekdays", types.Filters{Weekday: "weekdays"}, []string{"1", "2"}},
		{"weekend", types.Filters{Weekday: "weekend"}, []string{"3", "4"}},
		{"exact weekday digit 0 is Sunday", types.Filters{Weekday: "0"}, []string{"4"}},
		{"session asia", types.Filters{Session: "asia"}, []string{"1"}},
		{"session london", types.Filters{Session: "london"}, []string{"2"}},
		{"session ny", types.Filters{Session: "ny"}, []string{"3"}},
		{"session thin", types.Filters{Session: "thin"}, []string{"4"}},
		{"filters combine with AND", types.Filters{Side: types.Short, PnL: "win"}, []string{"3"}},
		{"nothing matches", types.Filters{Symbol: "XAUUSD"}, []string{}},
	}

	for _, tt := range tests {
		got := ids(Apply(fixture, tt.f))
		if !equal(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSessionOf(t *testing.T) {
	tests := []struct {
		hour int
		want Session
	}{
		{5, SessionAsia}, {10, SessionAsia}, {15, SessionAsia},
		{16, SessionLondon}, {21, SessionLondon},
		{22, SessionNY}, {23, SessionNY}, {0, SessionNY}, {1, SessionNY},
		{2, SessionThin}, {4, SessionThin},
	}
	for _, tt := range tests {
		if got := SessionOf(tt.hour); got != tt.want {
			t.Errorf("SessionOf(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct{ in, want string }{
		{"USD/JPY", "USDJPY"},
		{"usdjpy", "USDJPY"},
		{" eur-usd ", "EURUSD"},
		{"GBPUSD.pro", "GBPUSDPRO"},
	}
	for _, tt := range tests {
		if got := NormalizeSymbol(tt.in); got != tt.want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
