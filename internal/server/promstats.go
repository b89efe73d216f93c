package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RowsParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_rows_parsed_total",
		Help: "Total statement rows parsed into canonical trades",
	}, []string{"format"})

	RowsDiscarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_rows_discarded_total",
		Help: "Total statement rows discarded at ingestion",
	}, []string{"format"})

	TradesStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_trades_stored_total",
		Help: "Total trades written to storage",
	}, []string{"dataset"})

	CoachingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_coaching_requests_total",
		Help: "Coaching report requests by cache outcome",
	}, []string{"outcome"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_http_requests_total",
		Help: "HTTP requests by path and status",
	}, []string{"path", "status"})
)
