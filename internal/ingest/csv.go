package ingest

import (
	"encoding/csv"
	"strings"
)

// ParseCSV parses a delimited trade-history export. The separator is
// auto-detected from the header line (tab wins when a line carries more tabs
// than commas, the MT4 tab-export case). A file with no recognizable header
// yields an empty report, not an error.
func ParseCSV(data []byte) Report {
	text := strings.TrimPrefix(string(data), "\ufeff")
	if strings.TrimSpace(text) == "" {
		return Report{}
	}

	delim := detectDelimiter(text)

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil || len(records) == 0 {
		// Quote-mangled files fall back to a plain split so partial data
		// still comes through.
		records = naiveSplit(text, delim)
	}
	if len(records) == 0 {
		return Report{}
	}

	cols := resolveHeaders(records[0])
	if !cols.resolved() {
		return Report{}
	}

	var rep Report
	for i, cells := range records[1:] {
		line := i + 2 // 1-based, after the header
		if isBlankRow(cells) {
			continue
		}
		t, warns, reason := buildTrade(rawRow{line: line, cells: cells, cols: cols})
		if reason != "" {
			rep.Discards = append(rep.Discards, Discard{Line: line, Raw: strings.Join(cells, string(delim)), Reason: reason})
			continue
		}
		for _, w := range warns {
			rep.Warnings = append(rep.Warnings, Warning{Line: line, Reason: w})
		}
		rep.Trades = append(rep.Trades, t)
	}
	return rep
}

func detectDelimiter(text string) rune {
	head := text
	if i := strings.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	if strings.Count(head, "\t") > strings.Count(head, ",") {
		return '\t'
	}
	return ','
}

func naiveSplit(text string, delim rune) [][]string {
	var records [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, strings.Split(line, string(delim)))
	}
	return records
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
