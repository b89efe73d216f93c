package ingest

import "strings"

// Canonical fields a broker export row can populate. Every format the app
// accepts resolves its headers onto this set; headers that match nothing are
// ignored and fields with no header stay absent for the whole file.
type field int

const (
	fieldTicket field = iota
	fieldSymbol
	fieldSide
	fieldLots
	fieldOpenTime
	fieldOpenPrice
	fieldCloseTime
	fieldClosePrice
	fieldStop
	fieldTarget
	fieldCommission
	fieldSwap
	fieldProfit
	fieldPips
	fieldComment
	fieldCount
)

// aliases maps each canonical field to its accepted header spellings, English
// and Japanese, already in normalized form. Order matters: earlier candidates
// win when a file carries several matching headers.
var aliases = [fieldCount][]string{
	fieldTicket:     {"ticket", "order", "position"},
	fieldSymbol:     {"item", "pair", "symbol", "銘柄", "通貨ペア", "シンボル"},
	fieldSide:       {"type", "side", "ポジション", "方向", "dir", "longshort"},
	fieldLots:       {"size", "lot", "lots", "qty", "volume", "数量", "取引量"},
	fieldOpenTime:   {"opentime"},
	fieldOpenPrice:  {"openprice", "entry", "entryprice"},
	fieldCloseTime:  {"closetime", "time", "datetime", "日時"},
	fieldClosePrice: {"closeprice", "exit", "exitprice"},
	fieldStop:       {"s/l", "sl", "stopprice", "stop"},
	fieldTarget:     {"t/p", "tp", "targetprice", "target"},
	fieldCommission: {"commission", "commissions", "fee", "fees"},
	fieldSwap:       {"swap", "swaps"},
	fieldProfit:     {"profit", "損益", "pl", "p/l", "profit¥", "profit(¥)", "pnl", "損益円"},
	fieldPips:       {"pips", "pip", "損益pips"},
	fieldComment:    {"comment", "memo", "note", "メモ", "ノート"},
}

var normReplacer = strings.NewReplacer(
	" ", "", "\t", "", "　", "",
	"／", "/",
	"（", "", "）", "", "(", "", ")", "",
)

// normHeader case- and whitespace-normalizes a raw header token the same way
// for every input format.
func normHeader(s string) string {
	return normReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// columns is the resolved header→column-index map for one file. -1 means the
// field has no column.
type columns [fieldCount]int

// resolveHeaders matches normalized header tokens against the alias table.
// Broker exports sometimes emit a bare "Price" header twice, once for the open
// and once for the close; when no specific open/close price header exists the
// first bare price column becomes the open price and the second the close.
func resolveHeaders(headers []string) columns {
	var cols columns
	for i := range cols {
		cols[i] = -1
	}

	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = normHeader(h)
	}

	for f := field(0); f < fieldCount; f++ {
		for _, cand := range aliases[f] {
			for i, h := range norm {
				if h == cand {
					cols[f] = i
					break
				}
			}
			if cols[f] >= 0 {
				break
			}
		}
	}

	if cols[fieldOpenPrice] < 0 || cols[fieldClosePrice] < 0 {
		var priceIdx []int
		for i, h := range norm {
			if h == "price" {
				priceIdx = append(priceIdx, i)
			}
		}
		if cols[fieldOpenPrice] < 0 && len(priceIdx) > 0 {
			cols[fieldOpenPrice] = priceIdx[0]
		}
		if cols[fieldClosePrice] < 0 {
			if len(priceIdx) > 1 {
				cols[fieldClosePrice] = priceIdx[1]
			} else if len(priceIdx) == 1 {
				cols[fieldClosePrice] = priceIdx[0]
			}
		}
	}

	return cols
}

// get pulls a cell by resolved field, empty when the field has no column or
// the row is short.
func (c columns) get(cells []string, f field) string {
	i := c[f]
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

// resolved reports whether any field matched, i.e. the line looked like a
// header at all.
func (c columns) resolved() bool {
	for _, i := range c {
		if i >= 0 {
			return true
		}
	}
	return false
}
