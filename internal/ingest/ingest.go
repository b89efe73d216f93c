// Package ingest turns raw broker trade-history exports (delimited text or
// HTML statements) of unknown column order and naming into canonical trades.
//
// Parsing fails open: a malformed field coerces to zero and a row that cannot
// yield at least a symbol and a close timestamp is discarded, never fatal.
// Callers get both the trades and the per-row discard diagnostics so discard
// rates can be reported without changing the lenient default.
package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"forex-journal/internal/types"
)

// Report is the two-tier parse result: what survived and what was dropped.
type Report struct {
	Trades   []types.Trade `json:"trades"`
	Discards []Discard     `json:"discards,omitempty"`
	Warnings []Warning     `json:"warnings,omitempty"`
}

// Discard records one dropped row and why.
type Discard struct {
	Line   int    `json:"line"`
	Raw    string `json:"raw,omitempty"`
	Reason string `json:"reason"`
}

// Warning records a data-quality issue on a row that was still kept.
type Warning struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Parse dispatches on content: an HTML document goes through the statement
// table parser, everything else through the delimited-text parser.
func Parse(name string, data []byte) Report {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm") || looksLikeHTML(data) {
		return ParseHTML(data)
	}
	return ParseCSV(data)
}

func looksLikeHTML(data []byte) bool {
	head := strings.ToLower(strings.TrimSpace(string(data[:min(len(data), 512)])))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<table")
}

// rawRow is one source row after header resolution, before derivation.
type rawRow struct {
	line  int
	cells []string
	cols  columns
}

// buildTrade converts a resolved row into a canonical trade. The empty reason
// means the row was kept; a non-empty reason means it must be discarded.
func buildTrade(r rawRow) (types.Trade, []string, string) {
	symbol := strings.ToUpper(r.cols.get(r.cells, fieldSymbol))
	openTime := r.cols.get(r.cells, fieldOpenTime)
	closeTime := r.cols.get(r.cells, fieldCloseTime)
	if closeTime == "" {
		closeTime = openTime
	}

	if symbol == "" {
		return types.Trade{}, nil, "no symbol"
	}
	if closeTime == "" {
		return types.Trade{}, nil, "no close timestamp"
	}

	var warnings []string

	sideRaw := r.cols.get(r.cells, fieldSide)
	side, recognized := normalizeSide(sideRaw)
	if !recognized && sideRaw != "" {
		warnings = append(warnings, "unrecognized side '"+sideRaw+"' defaulted to LONG")
	}

	t := types.Trade{
		Ticket:      r.cols.get(r.cells, fieldTicket),
		Symbol:      symbol,
		Side:        side,
		Lots:        looseFloat(r.cols.get(r.cells, fieldLots)),
		OpenTime:    openTime,
		OpenPrice:   looseFloat(r.cols.get(r.cells, fieldOpenPrice)),
		CloseTime:   closeTime,
		ClosePrice:  looseFloat(r.cols.get(r.cells, fieldClosePrice)),
		StopPrice:   looseFloat(r.cols.get(r.cells, fieldStop)),
		TargetPrice: looseFloat(r.cols.get(r.cells, fieldTarget)),
		Commission:  looseFloat(r.cols.get(r.cells, fieldCommission)),
		Swap:        looseFloat(r.cols.get(r.cells, fieldSwap)),
		Profit:      looseFloat(r.cols.get(r.cells, fieldProfit)),
		Pips:        looseFloat(r.cols.get(r.cells, fieldPips)),
		Comment:     r.cols.get(r.cells, fieldComment),
	}

	if t.Ticket != "" {
		t.ID = t.Ticket
	} else {
		t.ID = uuid.NewString()
	}

	if t.Pips == 0 && t.OpenPrice != 0 && t.ClosePrice != 0 {
		t.Pips = derivePips(t)
	}

	openAt, openOK := t.OpenAt()
	closeAt, closeOK := t.CloseAt()
	if openOK && closeOK {
		if closeAt.Before(openAt) {
			warnings = append(warnings, "close time precedes open time")
		} else {
			t.HoldMin = int(math.Round(closeAt.Sub(openAt).Minutes()))
		}
	}

	return t, warnings, ""
}

// derivePips computes signed pips from the open/close delta and the
// instrument's pip convention: 0.01 for JPY-quoted pairs, 0.0001 otherwise.
// Rounded to a tenth of a pip, matching how brokers report it.
func derivePips(t types.Trade) float64 {
	diff := t.ClosePrice - t.OpenPrice
	if t.Side == types.Short {
		diff = -diff
	}
	return math.Round(diff/t.PipUnit()*10) / 10
}

// normalizeSide maps the raw side/type token onto LONG or SHORT. Anything not
// recognizably short-ish defaults to LONG; the bool reports whether the token
// matched a known long or short spelling.
func normalizeSide(raw string) (types.Side, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "s", strings.Contains(s, "short"), strings.Contains(s, "sell"), strings.Contains(s, "売"):
		return types.Short, true
	case s == "l", s == "b", strings.Contains(s, "long"), strings.Contains(s, "buy"), strings.Contains(s, "買"):
		return types.Long, true
	}
	return types.Long, false
}

// looseFloat is the lenient numeric coercion shared by every field: currency
// symbols, thousands separators and units are stripped, and anything still
// unparsable becomes 0 rather than failing the row.
func looseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}
