package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"forex-journal/internal/coach"
	"forex-journal/internal/coach/noop"
	"forex-journal/internal/storage/sqlite"
	"forex-journal/internal/types"
)

const statementCSV = `Ticket,Open Time,Type,Size,Item,Price,S/L,T/P,Close Time,Price,Commission,Swap,Profit
10001,2024-01-02 09:00:00,buy,1.00,USDJPY,150.000,149.500,151.000,2024-01-02 15:30:00,150.500,-12,1.5,50000
10002,2024-01-03 10:00:00,sell,0.50,EURUSD,1.10000,,,2024-01-03 11:00:00,1.10100,-3,0,-50
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := sqlite.NewRepository(context.Background(), sqlite.Config{
		DBPath: filepath.Join(t.TempDir(), "journal.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	coachSvc, err := coach.NewService(noop.NewNoopAdvisor(), time.Minute, 1)
	require.NoError(t, err)

	return NewServer(repo, coachSvc, zap.NewNop(), "*", 10000)
}

func uploadStatement(t *testing.T, s *Server, dataset, filename, content string) importResponse {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import?dataset="+dataset, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.R.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp importResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func getJSON(t *testing.T, s *Server, path string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.R.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

func TestImportAndListTrades(t *testing.T) {
	s := newTestServer(t)

	resp := uploadStatement(t, s, "A", "statement.csv", statementCSV)
	assert.Equal(t, 2, resp.Imported)
	assert.Empty(t, resp.Discards)

	var trades tradesResponse
	code := getJSON(t, s, "/api/trades?dataset=A", &trades)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 2, trades.Total)

	jpy := trades.Rows[0]
	assert.Equal(t, "10001", jpy.Ticket)
	assert.Equal(t, "USDJPY", jpy.Symbol)
	assert.Equal(t, types.Long, jpy.Side)
	// Duplicate bare "Price" headers resolve to open then close.
	assert.Equal(t, 150.0, jpy.OpenPrice)
	assert.Equal(t, 150.5, jpy.ClosePrice)
	assert.Equal(t, 50.0, jpy.Pips)
	assert.Equal(t, 49989.5, jpy.ClosedPL())
}

func TestImportReplacesDataset(t *testing.T) {
	s := newTestServer(t)

	uploadStatement(t, s, "A", "first.csv", statementCSV)
	resp := uploadStatement(t, s, "A", "second.csv",
		"Ticket,Item,Type,Close Time,Profit\n7,GBPUSD,buy,2024-02-01 10:00:00,25\n")
	assert.Equal(t, 1, resp.Imported)

	var trades tradesResponse
	getJSON(t, s, "/api/trades?dataset=A", &trades)
	require.Equal(t, 1, trades.Total)
	assert.Equal(t, "GBPUSD", trades.Rows[0].Symbol)
}

func TestTradesFilters(t *testing.T) {
	s := newTestServer(t)
	uploadStatement(t, s, "A", "statement.csv", statementCSV)

	var wins tradesResponse
	getJSON(t, s, "/api/trades?dataset=A&pnl=win", &wins)
	require.Equal(t, 1, wins.Total)
	assert.Equal(t, "USDJPY", wins.Rows[0].Symbol)

	var shorts tradesResponse
	getJSON(t, s, "/api/trades?dataset=A&side=SHORT", &shorts)
	require.Equal(t, 1, shorts.Total)
	assert.Equal(t, "EURUSD", shorts.Rows[0].Symbol)

	var none tradesResponse
	getJSON(t, s, "/api/trades?dataset=A&symbol=AUDUSD", &none)
	assert.Equal(t, 0, none.Total)
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)
	uploadStatement(t, s, "A", "statement.csv", statementCSV)

	var dash dashboardResponse
	code := getJSON(t, s, "/api/dashboard?dataset=A", &dash)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, dash.Summary.TotalTrades)
	assert.Equal(t, 1, dash.Summary.Wins)
	assert.Equal(t, 50.0, dash.Summary.WinRate)
	require.Len(t, dash.Equity, 2)
	assert.Equal(t, 49950.0, dash.Equity[1].Value)
}

func TestBreakdownDimensions(t *testing.T) {
	s := newTestServer(t)
	uploadStatement(t, s, "A", "statement.csv", statementCSV)

	for _, dim := range []string{"weekday", "hour", "symbol", "setup", "session"} {
		var buckets map[string]json.RawMessage
		code := getJSON(t, s, "/api/breakdown/"+dim+"?dataset=A", &buckets)
		assert.Equal(t, http.StatusOK, code, dim)
		assert.NotEmpty(t, buckets, dim)
	}

	code := getJSON(t, s, "/api/breakdown/planet?dataset=A", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCalendarValidation(t *testing.T) {
	s := newTestServer(t)
	uploadStatement(t, s, "A", "statement.csv", statementCSV)

	code := getJSON(t, s, "/api/calendar?dataset=A", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	var cells []map[string]any
	code = getJSON(t, s, "/api/calendar?dataset=A&month=2024-01", &cells)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, cells, 2)
}

func TestExportRoundTrips(t *testing.T) {
	s := newTestServer(t)
	uploadStatement(t, s, "A", "statement.csv", statementCSV)

	req := httptest.NewRequest(http.MethodGet, "/api/trades/export?dataset=A", nil)
	w := httptest.NewRecorder()
	s.R.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "Ticket,"), body)
	assert.Contains(t, body, "USDJPY")
}

func TestCoachingEndpoint(t *testing.T) {
	s := newTestServer(t)
	uploadStatement(t, s, "A", "statement.csv", statementCSV)

	var report types.CoachingReport
	code := getJSON(t, s, "/api/coaching?dataset=A", &report)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "noop", report.Provider)
	assert.NotEmpty(t, report.Headline)
}

func TestDatasetLifecycle(t *testing.T) {
	s := newTestServer(t)
	uploadStatement(t, s, "A", "statement.csv", statementCSV)

	var stats []types.DatasetStats
	code := getJSON(t, s, "/api/datasets", &stats)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, stats, 1)
	assert.Equal(t, "A", stats[0].Dataset)
	assert.Equal(t, 2, stats[0].Count)

	req := httptest.NewRequest(http.MethodDelete, "/api/datasets/A", nil)
	w := httptest.NewRecorder()
	s.R.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var trades tradesResponse
	getJSON(t, s, "/api/trades?dataset=A", &trades)
	assert.Equal(t, 0, trades.Total)
}

func TestImportRejectsBadDataset(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "x.csv")
	fw.Write([]byte(statementCSV))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/import?dataset=bad%20tag", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.R.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	code := getJSON(t, s, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
}
