package metrics

import (
	"testing"

	"forex-journal/internal/types"
)

func TestByWeekdayKeys(t *testing.T) {
	trades := []types.Trade{
		// 2024-01-02 Tuesday, 2024-01-07 Sunday.
		mkTrade("1", 50, "2024-01-02 10:00:00"),
		mkTrade("2", -20, "2024-01-02 18:00:00"),
		mkTrade("3", 30, "2024-01-07 03:00:00"),
		mkTrade("4", 10, "not a time"),
	}

	buckets := ByWeekday(trades)
	if len(buckets) != 2 {
		t.Fatalf("got %d buckets: %v", len(buckets), buckets)
	}

	tue := buckets["2"]
	if tue.Count != 2 || tue.NetPL != 30 || tue.WinRate != 50 {
		t.Errorf("tuesday bucket = %+v", tue)
	}
	sun := buckets["0"]
	if sun.Count != 1 || sun.NetPL != 30 {
		t.Errorf("sunday bucket = %+v", sun)
	}
}

func TestByHourAndSession(t *testing.T) {
	trades := []types.Trade{
		mkTrade("1", 50, "2024-01-02 10:00:00"),
		mkTrade("2", -20, "2024-01-02 18:00:00"),
	}

	hours := ByHour(trades)
	if hours["10"].Count != 1 || hours["18"].Count != 1 {
		t.Errorf("hour buckets = %v", hours)
	}

	sessions := BySession(trades)
	if sessions["asia"].NetPL != 50 || sessions["london"].NetPL != -20 {
		t.Errorf("session buckets = %v", sessions)
	}
}

func TestBySymbolNormalizes(t *testing.T) {
	trades := []types.Trade{
		{ID: "1", Symbol: "USD/JPY", Profit: 10, CloseTime: "2024-01-02 10:00:00"},
		{ID: "2", Symbol: "usdjpy", Profit: 20, CloseTime: "2024-01-02 11:00:00"},
	}
	buckets := BySymbol(trades)
	if len(buckets) != 1 || buckets["USDJPY"].Count != 2 {
		t.Errorf("symbol buckets = %v", buckets)
	}
}

func TestBySetup(t *testing.T) {
	trades := []types.Trade{
		{ID: "1", Comment: "london breakout", Profit: 10, CloseTime: "2024-01-02 10:00:00"},
		{ID: "2", Comment: "", Profit: -5, CloseTime: "2024-01-02 11:00:00"},
	}
	buckets := BySetup(trades)
	if buckets["Breakout"].Count != 1 || buckets[SetupOther].Count != 1 {
		t.Errorf("setup buckets = %v", buckets)
	}
}

func TestBucketProfitFactorRendersInJSON(t *testing.T) {
	b := bucketOf([]types.Trade{mkTrade("1", 10, "")})
	if !b.ProfitFactor.Infinite {
		t.Fatalf("bucket of one winner should have infinite profit factor: %+v", b)
	}
}

func TestCalendar(t *testing.T) {
	trades := []types.Trade{
		mkTrade("1", 50, "2024-01-02 10:00:00"),
		mkTrade("2", -20, "2024-01-02 18:00:00"),
		mkTrade("3", 30, "2024-01-05 10:00:00"),
		mkTrade("4", 99, "2024-02-01 10:00:00"),
	}

	cells := Calendar(trades, "2024-01")
	if len(cells) != 2 {
		t.Fatalf("got %d cells: %v", len(cells), cells)
	}
	if cells[0].Date != "2024-01-02" || cells[1].Date != "2024-01-05" {
		t.Errorf("cells out of order: %v", cells)
	}
	if cells[0].Count != 2 || cells[0].NetPL != 30 || cells[0].Wins != 1 {
		t.Errorf("first cell = %+v", cells[0])
	}

	all := Calendar(trades, "")
	if len(all) != 3 {
		t.Errorf("unscoped calendar gave %d cells", len(all))
	}
}
