package prometheusmetrics

import (
	"time"

	"github.com/buzzoola/hbrtb/config"
	"github.com/buzzoola/hbrtb/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics defines the Prometheus metrics backing the MetricsEngine implementation.
type Metrics struct {
	Registry *prometheus.Registry

	connectionsClosed prometheus.Counter
	connectionsError  *prometheus.CounterVec
	connectionsOpened prometheus.Counter

	requests        *prometheus.CounterVec
	requestsTimer   *prometheus.HistogramVec
	impressions     *prometheus.CounterVec
	outcomes        *prometheus.CounterVec
	bidPrices       *prometheus.HistogramVec
	transportErrors *prometheus.CounterVec
}

const (
	connectionErrorLabel = "connection_error"
	errorClassLabel      = "error_class"
	mediaTypeLabel       = "media_type"
	rejectReasonLabel    = "reject_reason"
	requestStatusLabel   = "request_status"
	outcomeStatusLabel   = "outcome_status"
)

const (
	connectionAcceptError = "accept"
	connectionCloseError  = "close"
)

// NewMetrics initializes a new Prometheus metrics instance with preloaded label values.
func NewMetrics(cfg config.PrometheusMetrics) *Metrics {
	standardTimeBuckets := []float64{0.05, 0.1, 0.15, 0.20, 0.25, 0.3, 0.4, 0.5, 0.75, 1}
	priceBuckets := []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 50, 100}

	metrics := Metrics{}
	metrics.Registry = prometheus.NewRegistry()

	metrics.connectionsClosed = newCounterWithoutLabels(cfg, metrics.Registry,
		"connections_closed",
		"Count of successful connections closed to the bridge.")

	metrics.connectionsError = newCounter(cfg, metrics.Registry,
		"connections_error",
		"Count of errors for connection open and close attempts to the bridge labeled by type.",
		[]string{connectionErrorLabel})

	metrics.connectionsOpened = newCounterWithoutLabels(cfg, metrics.Registry,
		"connections_opened",
		"Count of successful connections opened to the bridge.")

	metrics.requests = newCounter(cfg, metrics.Registry,
		"auction_requests",
		"Count of auctions handled labeled by status.",
		[]string{requestStatusLabel})

	metrics.requestsTimer = newHistogramVec(cfg, metrics.Registry,
		"auction_request_time_seconds",
		"Seconds from auction start until all outcomes were pushed, labeled by status.",
		[]string{requestStatusLabel},
		standardTimeBuckets)

	metrics.impressions = newCounter(cfg, metrics.Registry,
		"impressions_requests",
		"Count of impressions sent to the exchange labeled by media type.",
		[]string{mediaTypeLabel})

	metrics.outcomes = newCounter(cfg, metrics.Registry,
		"outcomes",
		"Count of outcomes pushed to the host labeled by status and rejection reason.",
		[]string{outcomeStatusLabel, rejectReasonLabel})

	metrics.bidPrices = newHistogramVec(cfg, metrics.Registry,
		"bid_prices",
		"Bid prices returned by the exchange labeled by media type.",
		[]string{mediaTypeLabel},
		priceBuckets)

	metrics.transportErrors = newCounter(cfg, metrics.Registry,
		"transport_errors",
		"Count of failed exchange calls labeled by error class.",
		[]string{errorClassLabel})

	preloadLabelValues(&metrics)

	return &metrics
}

func newCounter(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, labels []string) *prometheus.CounterVec {
	opts := prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
	}
	counter := prometheus.NewCounterVec(opts, labels)
	registry.MustRegister(counter)
	return counter
}

func newCounterWithoutLabels(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string) prometheus.Counter {
	opts := prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
	}
	counter := prometheus.NewCounter(opts)
	registry.MustRegister(counter)
	return counter
}

func newHistogramVec(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	opts := prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
	histogram := prometheus.NewHistogramVec(opts, labels)
	registry.MustRegister(histogram)
	return histogram
}

func (m *Metrics) RecordConnectionAccept(success bool) {
	if success {
		m.connectionsOpened.Inc()
	} else {
		m.connectionsError.With(prometheus.Labels{
			connectionErrorLabel: connectionAcceptError,
		}).Inc()
	}
}

func (m *Metrics) RecordConnectionClose(success bool) {
	if success {
		m.connectionsClosed.Inc()
	} else {
		m.connectionsError.With(prometheus.Labels{
			connectionErrorLabel: connectionCloseError,
		}).Inc()
	}
}

func (m *Metrics) RecordRequest(labels metrics.Labels) {
	m.requests.With(prometheus.Labels{
		requestStatusLabel: string(labels.RequestStatus),
	}).Inc()
}

func (m *Metrics) RecordRequestTime(labels metrics.Labels, length time.Duration) {
	m.requestsTimer.With(prometheus.Labels{
		requestStatusLabel: string(labels.RequestStatus),
	}).Observe(length.Seconds())
}

func (m *Metrics) RecordImps(labels metrics.ImpLabels, count int) {
	m.impressions.With(prometheus.Labels{
		mediaTypeLabel: labels.MediaType,
	}).Add(float64(count))
}

func (m *Metrics) RecordOutcome(labels metrics.OutcomeLabels) {
	m.outcomes.With(prometheus.Labels{
		outcomeStatusLabel: string(labels.Status),
		rejectReasonLabel:  string(labels.RejectReason),
	}).Inc()
}

func (m *Metrics) RecordBidPrice(labels metrics.ImpLabels, cpm float64) {
	m.bidPrices.With(prometheus.Labels{
		mediaTypeLabel: labels.MediaType,
	}).Observe(cpm)
}

func (m *Metrics) RecordTransportError(errorClass string) {
	m.transportErrors.With(prometheus.Labels{
		errorClassLabel: errorClass,
	}).Inc()
}
