package ingest

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML parses an HTML broker statement: every <table> is scanned for a
// header row (recognized by a ticket/order/position token) and the rows below
// it are resolved with the same alias table as the delimited parser. Cell
// markup and decorative attributes carry no meaning; only the collapsed text
// content counts.
//
// Statements interleave balance and summary rows with the trade rows, so a
// data row must carry a numeric ticket and a recognizable buy/sell token, and
// zero-profit rows (the balance-line signature) are skipped.
func ParseHTML(data []byte) Report {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return Report{}
	}

	var rep Report
	line := 0

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		var cols columns
		inData := false

		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			line++
			cells := cellTexts(row)
			if len(cells) == 0 {
				return
			}

			if isHeaderRow(cells) {
				cols = resolveHeaders(cells)
				inData = cols.resolved()
				return
			}
			if !inData || len(cells) < 3 {
				return
			}

			ticket := cols.get(cells, fieldTicket)
			if ticket == "" || !isDigits(ticket) {
				rep.Discards = append(rep.Discards, Discard{Line: line, Reason: "non-numeric ticket"})
				return
			}
			sideRaw := strings.ToLower(cols.get(cells, fieldSide))
			if _, ok := normalizeSide(sideRaw); !ok {
				rep.Discards = append(rep.Discards, Discard{Line: line, Reason: "no buy/sell token"})
				return
			}

			t, warns, reason := buildTrade(rawRow{line: line, cells: cells, cols: cols})
			if reason != "" {
				rep.Discards = append(rep.Discards, Discard{Line: line, Reason: reason})
				return
			}
			if t.Profit == 0 {
				rep.Discards = append(rep.Discards, Discard{Line: line, Reason: "zero profit balance row"})
				return
			}
			for _, w := range warns {
				rep.Warnings = append(rep.Warnings, Warning{Line: line, Reason: w})
			}
			rep.Trades = append(rep.Trades, t)
		})
	})

	return rep
}

// cellTexts extracts th/td text with markup stripped and whitespace collapsed.
func cellTexts(row *goquery.Selection) []string {
	var cells []string
	row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, strings.Join(strings.Fields(cell.Text()), " "))
	})
	return cells
}

// isHeaderRow recognizes the column-header row of a statement table.
func isHeaderRow(cells []string) bool {
	for _, c := range cells {
		h := normHeader(c)
		if strings.Contains(h, "ticket") || strings.Contains(h, "order") || strings.Contains(h, "position") {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
