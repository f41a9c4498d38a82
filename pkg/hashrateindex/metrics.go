package hashrateindex

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fivetwenty-io/hashrateindex-client/internal/constants"
)

const rawOperationLabel = "raw"

// Metrics collects Prometheus request counters and latencies.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with registerer.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	metrics := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "requests_total",
			Help:      "GraphQL requests by operation and HTTP status code.",
		}, []string{"operation", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "request_duration_seconds",
			Help:      "Round trip latency of GraphQL requests.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"operation"}),
	}

	for _, collector := range []prometheus.Collector{metrics.requests, metrics.latency} {
		err := registerer.Register(collector)
		if err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}

	return metrics, nil
}

// Requests returns the request counter.
func (m *Metrics) Requests() *prometheus.CounterVec {
	return m.requests
}

// Install adds the metrics interceptors to chain.
func (m *Metrics) Install(chain *InterceptorChain) {
	chain.AddRequestInterceptor(m.RequestInterceptor())
	chain.AddResponseInterceptor(m.ResponseInterceptor())
}

// RequestInterceptor records the request start time.
func (m *Metrics) RequestInterceptor() RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata[MetadataStartTime] = time.Now()

		return nil
	}
}

// ResponseInterceptor counts the response and observes its latency.
func (m *Metrics) ResponseInterceptor() ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		operation := req.Operation
		if operation == "" {
			operation = rawOperationLabel
		}

		code := "error"
		if resp.StatusCode > 0 {
			code = strconv.Itoa(resp.StatusCode)
		}

		m.requests.WithLabelValues(operation, code).Inc()

		if startTime, ok := req.Metadata[MetadataStartTime].(time.Time); ok {
			m.latency.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
		}

		return nil
	}
}

// WriteMetricsFile writes gatherer's metrics in the text exposition format,
// suitable for the node exporter textfile collector.
func WriteMetricsFile(path string, gatherer prometheus.Gatherer) error {
	err := prometheus.WriteToTextfile(path, gatherer)
	if err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}

	return nil
}
