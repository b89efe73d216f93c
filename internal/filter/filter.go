// Package filter selects the subset of trades the current view asks for.
// Filtering is pure and stricter than ingestion: a trade whose close
// timestamp does not parse is excluded outright, since every predicate here
// needs a comparable instant.
package filter

import (
	"strings"
	"time"

	"forex-journal/internal/types"
)

// Session is the trading-session bucket derived from the UTC hour.
type Session string

const (
	SessionAsia   Session = "asia"
	SessionLondon Session = "london"
	SessionNY     Session = "ny"
	SessionThin   Session = "thin"
)

// SessionOf buckets a UTC hour. Fixed, non-configurable: the dashboard's
// session breakdown depends on these exact ranges. NY wraps midnight.
func SessionOf(hour int) Session {
	switch {
	case hour >= 5 && hour <= 15:
		return SessionAsia
	case hour >= 16 && hour <= 21:
		return SessionLondon
	case hour >= 22 || hour <= 1:
		return SessionNY
	default:
		return SessionThin
	}
}

// Apply returns the trades matching every set filter field (implicit AND).
// The input order is preserved.
func Apply(trades []types.Trade, f types.Filters) []types.Trade {
	out := make([]types.Trade, 0, len(trades))
	for _, t := range trades {
		closeAt, ok := t.CloseAt()
		if !ok {
			continue
		}
		if !matches(t, closeAt, f) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matches(t types.Trade, closeAt time.Time, f types.Filters) bool {
	if f.Symbol != "" && NormalizeSymbol(t.Symbol) != NormalizeSymbol(f.Symbol) {
		return false
	}
	if f.Side != "" && t.Side != f.Side {
		return false
	}
	switch f.PnL {
	case "win":
		if t.Profit <= 0 {
			return false
		}
	case "loss":
		if t.Profit >= 0 {
			return false
		}
	}

	date := closeAt.Format("2006-01-02")
	if f.From != "" && date < f.From {
		return false
	}
	if f.To != "" && date > f.To {
		return false
	}

	if f.Weekday != "" && !matchesWeekday(closeAt.Weekday(), f.Weekday) {
		return false
	}

	if f.Session != "" && SessionOf(closeAt.Hour()) != Session(f.Session) {
		return false
	}

	return true
}

// matchesWeekday honors both the coarse buckets and an exact weekday digit
// ("0" Sunday through "6" Saturday).
func matchesWeekday(day time.Weekday, sel string) bool {
	switch sel {
	case "weekdays":
		return day >= time.Monday && day <= time.Friday
	case "weekend":
		return day == time.Sunday || day == time.Saturday
	case "0", "1", "2", "3", "4", "5", "6":
		return int(day) == int(sel[0]-'0')
	}
	return true
}

// NormalizeSymbol uppercases and strips everything but letters, so "USD/JPY"
// and "usdjpy" compare equal.
func NormalizeSymbol(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
