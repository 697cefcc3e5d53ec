// Package metrics holds the Prometheus collectors and the scrape endpoint.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// FeedPagesScanned counts upstream event pages read by the feed assembler.
	FeedPagesScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventswipe_feed_pages_scanned_total",
		Help: "Total number of event pages scanned while assembling feeds",
	})

	// FeedRejections counts events dropped from a feed by filter stage.
	FeedRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventswipe_feed_rejections_total",
		Help: "Events rejected during feed assembly by reason",
	}, []string{"reason"})

	// FeedBatchSize records how many events a feed call returned.
	FeedBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eventswipe_feed_batch_size",
		Help:    "Number of events returned per feed call",
		Buckets: []float64{0, 1, 3, 5, 10, 15, 20, 30},
	})

	// FeedLatency records feed assembly latency.
	FeedLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eventswipe_feed_assembly_seconds",
		Help:    "Feed assembly latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// GeocodeLookups counts geocoder calls by source (cache, upstream) and result.
	GeocodeLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventswipe_geocode_lookups_total",
		Help: "Geocoding lookups by source and result",
	}, []string{"source", "result"})

	// RelationTransitions counts membership transitions by target state and outcome.
	RelationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventswipe_relation_transitions_total",
		Help: "Event relation transitions by target and outcome",
	}, []string{"target", "outcome"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventswipe_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// GRPCRequests counts handled RPCs by method and status code.
	GRPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventswipe_grpc_requests_total",
		Help: "Handled gRPC requests by method and code",
	}, []string{"method", "code"})

	// GRPCLatency records RPC latency by method.
	GRPCLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eventswipe_grpc_request_seconds",
		Help:    "gRPC request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

// Track returns a function that observes the elapsed time on h when called (e.g. defer).
func Track(h prometheus.Observer) func() {
	start := time.Now()
	return func() {
		h.Observe(time.Since(start).Seconds())
	}
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
