// Package server exposes the journal over HTTP: statement import, filtered
// trade listings, dashboard statistics, breakdowns, calendar aggregation,
// CSV export and the coaching endpoint.
package server

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"forex-journal/internal/coach"
	"forex-journal/internal/filter"
	"forex-journal/internal/ingest"
	"forex-journal/internal/interfaces"
	"forex-journal/internal/logger"
	"forex-journal/internal/metrics"
	"forex-journal/internal/types"
)

// maxUploadBytes bounds statement uploads; broker exports are small.
const maxUploadBytes = 16 << 20

type Server struct {
	R         *gin.Engine
	Repo      interfaces.TradeRepository
	Coach     *coach.Service
	Logger    *zap.Logger
	MaxTrades int
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type importResponse struct {
	Dataset  string           `json:"dataset"`
	Imported int              `json:"imported"`
	Discards []ingest.Discard `json:"discards,omitempty"`
	Warnings []ingest.Warning `json:"warnings,omitempty"`
}

type tradesResponse struct {
	Rows  []types.Trade `json:"rows"`
	Total int           `json:"total"`
}

type dashboardResponse struct {
	Summary  types.Summary           `json:"summary"`
	Equity   []metrics.EquityPoint   `json:"equity"`
	Drawdown []metrics.DrawdownPoint `json:"drawdown"`
}

// NewServer wires the router, repository, coaching service, and middleware.
func NewServer(repo interfaces.TradeRepository, coachSvc *coach.Service, zlog *zap.Logger, corsOrigin string, maxTrades int) *Server {
	g := gin.New()

	// Request logging
	g.Use(func(cn *gin.Context) {
		start := time.Now()
		cn.Next()
		HTTPRequests.WithLabelValues(cn.FullPath(), strconv.Itoa(cn.Writer.Status())).Inc()
		zlog.Info("http_request",
			zap.String("method", cn.Request.Method),
			zap.String("path", cn.Request.URL.Path),
			zap.Int("status", cn.Writer.Status()),
			zap.String("ip", cn.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		)
	})

	g.Use(gin.Recovery())

	// CORS
	g.Use(func(cn *gin.Context) {
		origin := cn.GetHeader("Origin")
		cn.Writer.Header().Set("Vary", "Origin")
		cn.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		cn.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		cn.Writer.Header().Set("Access-Control-Max-Age", "86400")
		if corsOrigin == "*" {
			cn.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" && origin == corsOrigin {
			cn.Writer.Header().Set("Access-Control-Allow-Origin", corsOrigin)
		}
		if cn.Request.Method == http.MethodOptions {
			cn.AbortWithStatus(http.StatusNoContent)
			return
		}
		cn.Next()
	})

	s := &Server{
		R:         g,
		Repo:      repo,
		Coach:     coachSvc,
		Logger:    zlog,
		MaxTrades: maxTrades,
	}

	g.GET("/health", func(cn *gin.Context) { cn.JSON(http.StatusOK, gin.H{"ok": true}) })
	g.GET("/metrics", gin.WrapH(promhttp.Handler()))

	g.POST("/api/import", s.importStatement)
	g.GET("/api/trades", s.getTrades)
	g.GET("/api/trades/export", s.exportTrades)
	g.GET("/api/dashboard", s.getDashboard)
	g.GET("/api/breakdown/:dimension", s.getBreakdown)
	g.GET("/api/calendar", s.getCalendar)
	g.GET("/api/datasets", s.getDatasets)
	g.DELETE("/api/datasets/:dataset", s.deleteDataset)
	g.GET("/api/coaching", s.getCoaching)

	return s
}

// --- Helpers ---

func (s *Server) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: msg})
}

func (s *Server) internalError(c *gin.Context, where string, err error) {
	s.Logger.Error("internal_error", zap.String("where", where), zap.Error(err))
	c.JSON(http.StatusInternalServerError, apiError{Code: "internal_server_error", Message: "internal server error"})
}

// validDataset keeps partition tags to a small safe alphabet.
var validDataset = regexp.MustCompile(`^[A-Za-z0-9_-]{0,32}$`)

func datasetParam(c *gin.Context) (string, bool) {
	d := strings.TrimSpace(c.Query("dataset"))
	return d, validDataset.MatchString(d)
}

// loadFiltered reads a dataset partition and applies the query filters.
func (s *Server) loadFiltered(c *gin.Context) ([]types.Trade, bool) {
	dataset, ok := datasetParam(c)
	if !ok {
		s.badRequest(c, "invalid dataset tag")
		return nil, false
	}

	var f types.Filters
	if err := c.ShouldBindQuery(&f); err != nil {
		s.badRequest(c, "invalid filter parameters")
		return nil, false
	}

	trades, err := s.Repo.ListTrades(c.Request.Context(), dataset)
	if err != nil {
		s.internalError(c, "ListTrades", err)
		return nil, false
	}
	return filter.Apply(trades, f), true
}

// --- Handlers ---

func (s *Server) importStatement(c *gin.Context) {
	dataset, ok := datasetParam(c)
	if !ok {
		s.badRequest(c, "invalid dataset tag")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		s.badRequest(c, "multipart form with at least one 'file' expected")
		return
	}
	files := form.File["file"]
	if len(files) == 0 {
		s.badRequest(c, "no files uploaded under field 'file'")
		return
	}

	report := ingest.Report{}
	for _, fh := range files {
		if fh.Size > maxUploadBytes {
			s.badRequest(c, fmt.Sprintf("file %q exceeds upload limit", fh.Filename))
			return
		}
		f, err := fh.Open()
		if err != nil {
			s.internalError(c, "open upload", err)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
		f.Close()
		if err != nil {
			s.internalError(c, "read upload", err)
			return
		}

		r := ingest.Parse(fh.Filename, data)
		format := "csv"
		if strings.HasSuffix(strings.ToLower(fh.Filename), ".html") || strings.HasSuffix(strings.ToLower(fh.Filename), ".htm") {
			format = "html"
		}
		RowsParsed.WithLabelValues(format).Add(float64(len(r.Trades)))
		RowsDiscarded.WithLabelValues(format).Add(float64(len(r.Discards)))

		report.Trades = append(report.Trades, r.Trades...)
		report.Discards = append(report.Discards, r.Discards...)
		report.Warnings = append(report.Warnings, r.Warnings...)
	}

	if s.MaxTrades > 0 && len(report.Trades) > s.MaxTrades {
		s.badRequest(c, fmt.Sprintf("import of %d trades exceeds the %d trade limit", len(report.Trades), s.MaxTrades))
		return
	}

	for i := range report.Trades {
		report.Trades[i].Dataset = dataset
	}

	if err := s.Repo.ReplaceDataset(c.Request.Context(), dataset, report.Trades); err != nil {
		s.internalError(c, "ReplaceDataset", err)
		return
	}
	TradesStored.WithLabelValues(dataset).Add(float64(len(report.Trades)))
	if s.Coach != nil {
		s.Coach.Invalidate(dataset)
	}

	logger.Import(c.Request.Context(), dataset, files[0].Filename, len(report.Trades), len(report.Discards))
	c.JSON(http.StatusOK, importResponse{
		Dataset:  dataset,
		Imported: len(report.Trades),
		Discards: report.Discards,
		Warnings: report.Warnings,
	})
}

func (s *Server) getTrades(c *gin.Context) {
	rows, ok := s.loadFiltered(c)
	if !ok {
		return
	}
	if rows == nil {
		rows = []types.Trade{}
	}
	c.JSON(http.StatusOK, tradesResponse{Rows: rows, Total: len(rows)})
}

func (s *Server) exportTrades(c *gin.Context) {
	rows, ok := s.loadFiltered(c)
	if !ok {
		return
	}
	out, err := ingest.ExportCSV(rows)
	if err != nil {
		s.internalError(c, "ExportCSV", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="trades.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(out))
}

func (s *Server) getDashboard(c *gin.Context) {
	rows, ok := s.loadFiltered(c)
	if !ok {
		return
	}
	curve := metrics.EquityCurve(rows)
	c.JSON(http.StatusOK, dashboardResponse{
		Summary:  metrics.Summarize(rows),
		Equity:   curve,
		Drawdown: metrics.Drawdown(curve),
	})
}

func (s *Server) getBreakdown(c *gin.Context) {
	rows, ok := s.loadFiltered(c)
	if !ok {
		return
	}

	var buckets map[string]metrics.Bucket
	switch c.Param("dimension") {
	case "weekday":
		buckets = metrics.ByWeekday(rows)
	case "hour":
		buckets = metrics.ByHour(rows)
	case "symbol":
		buckets = metrics.BySymbol(rows)
	case "setup":
		buckets = metrics.BySetup(rows)
	case "session":
		buckets = metrics.BySession(rows)
	default:
		s.badRequest(c, "unknown dimension (use weekday, hour, symbol, setup or session)")
		return
	}
	c.JSON(http.StatusOK, buckets)
}

var validMonth = regexp.MustCompile(`^\d{4}-\d{2}$`)

func (s *Server) getCalendar(c *gin.Context) {
	month := strings.TrimSpace(c.Query("month"))
	if !validMonth.MatchString(month) {
		s.badRequest(c, "month must be YYYY-MM")
		return
	}
	rows, ok := s.loadFiltered(c)
	if !ok {
		return
	}
	cells := metrics.Calendar(rows, month)
	if cells == nil {
		cells = []metrics.DayCell{}
	}
	c.JSON(http.StatusOK, cells)
}

func (s *Server) getDatasets(c *gin.Context) {
	stats, err := s.Repo.ListDatasets(c.Request.Context())
	if err != nil {
		s.internalError(c, "ListDatasets", err)
		return
	}
	if stats == nil {
		stats = []types.DatasetStats{}
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) deleteDataset(c *gin.Context) {
	dataset := c.Param("dataset")
	if !validDataset.MatchString(dataset) || dataset == "" {
		s.badRequest(c, "invalid dataset tag")
		return
	}
	if err := s.Repo.DeleteDataset(c.Request.Context(), dataset); err != nil {
		s.internalError(c, "DeleteDataset", err)
		return
	}
	if s.Coach != nil {
		s.Coach.Invalidate(dataset)
	}
	c.JSON(http.StatusOK, gin.H{"deleted": dataset})
}

func (s *Server) getCoaching(c *gin.Context) {
	if s.Coach == nil {
		c.JSON(http.StatusServiceUnavailable, apiError{Code: "coaching_unavailable", Message: "coaching is not configured"})
		return
	}
	dataset, ok := datasetParam(c)
	if !ok {
		s.badRequest(c, "invalid dataset tag")
		return
	}

	trades, err := s.Repo.ListTrades(c.Request.Context(), dataset)
	if err != nil {
		s.internalError(c, "ListTrades", err)
		return
	}

	report, cached, err := s.Coach.Report(c.Request.Context(), dataset, trades)
	if err != nil {
		s.Logger.Error("coaching_failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, apiError{Code: "coaching_failed", Message: "coaching provider unavailable"})
		return
	}
	outcome := "generated"
	if cached {
		outcome = "cache_hit"
	}
	CoachingRequests.WithLabelValues(outcome).Inc()
	c.JSON(http.StatusOK, report)
}
