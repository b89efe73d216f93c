package metrics

import "strings"

// setupKeywords is the fixed strategy vocabulary scanned for in trade
// comments, English and Japanese spellings per tag. First match wins.
var setupKeywords = []struct {
	tag   string
	words []string
}{
	{"Breakout", []string{"breakout", "ブレイクアウト", "ブレイク"}},
	{"Pullback", []string{"pullback", "押し目", "戻り"}},
	{"Reversal", []string{"reversal", "逆張り", "リバーサル"}},
	{"Trend", []string{"trend", "トレンド", "順張り"}},
	{"Range", []string{"range", "レンジ"}},
	{"Scalp", []string{"scalp", "スキャル"}},
}

// SetupOther is the fallback bucket for comments matching no keyword.
const SetupOther = "Other"

// SetupTag classifies a free-text comment/memo into a coarse strategy tag by
// case-insensitive keyword scan.
func SetupTag(comment string) string {
	c := strings.ToLower(comment)
	for _, kw := range setupKeywords {
		for _, w := range kw.words {
			if strings.Contains(c, w) {
				return kw.tag
			}
		}
	}
	return SetupOther
}
