// Package observability provides Prometheus metrics for the ingestion and
// planning pipelines.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChunksIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "healthtrack_chunks_ingested_total",
		Help: "The total number of chunks accepted into the corpus index",
	})

	ChunksRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "healthtrack_chunks_rejected_total",
		Help: "The total number of chunks rejected during ingestion",
	}, []string{"reason"})

	RetrievalCandidatesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "healthtrack_retrieval_candidates_dropped_total",
		Help: "The total number of retrieval candidates dropped during curation",
	}, []string{"reason"})

	PlanRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "healthtrack_plan_requests_total",
		Help: "The total number of plan requests",
	}, []string{"status"})

	PlanRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "healthtrack_plan_request_duration_seconds",
		Help:    "Duration of end-to-end plan generation",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
	})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "healthtrack_llm_request_duration_seconds",
		Help:    "Duration of LLM requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	EmbeddingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "healthtrack_embedding_requests_total",
		Help: "The total number of embedding requests",
	}, []string{"status"})
)

// Dedup rejection reason label values.
const (
	ReasonDuplicate = "duplicate_signature"
)
