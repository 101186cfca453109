// Package metrics defines the Prometheus collectors shared by the
// processing pipeline and the HTTP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DocumentsProcessed counts documents that completed the pipeline,
	// labeled by outcome (ok, failed).
	DocumentsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "semdoc_documents_processed_total",
		Help: "Documents that completed the processing pipeline, by outcome.",
	}, []string{"outcome"})

	// ConceptsResolved counts concepts surviving span resolution.
	ConceptsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "semdoc_concepts_resolved_total",
		Help: "Concepts that survived overlap resolution.",
	})

	// StatementsInserted counts statements written to the graph store.
	StatementsInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "semdoc_statements_inserted_total",
		Help: "Statements inserted into the graph store.",
	})

	// StatementsSkipped counts statements dropped during insert.
	StatementsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "semdoc_statements_skipped_total",
		Help: "Statements skipped during graph store insert.",
	})

	// QueryDuration observes graph query latency by query kind.
	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "semdoc_query_duration_seconds",
		Help:    "Graph query latency by query kind.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// HTTPRequests counts API requests by route and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "semdoc_http_requests_total",
		Help: "HTTP API requests by route and status code.",
	}, []string{"route", "status"})
)
