package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/buzzoola/hbrtb/config"
	"github.com/buzzoola/hbrtb/logger"
	metricsconfig "github.com/buzzoola/hbrtb/metrics/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxConcurrentScrapes bounds how many scrapes are rendered at once.
const maxConcurrentScrapes = 5

// newPrometheusServer exposes the bridge registry at /metrics. Scrapes are counted in
// the same registry.
func newPrometheusServer(cfg *config.Configuration, engine *metricsconfig.DetailedMetricsEngine) (*http.Server, error) {
	if engine == nil || engine.PrometheusMetrics == nil {
		return nil, errors.New("metrics.prometheus.port is set but no Prometheus metrics engine was built")
	}
	registry := engine.PrometheusMetrics.Registry

	scrapes := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog:            scrapeErrorLog{},
		ErrorHandling:       promhttp.ContinueOnError,
		MaxRequestsInFlight: maxConcurrentScrapes,
		Timeout:             cfg.Metrics.Prometheus.Timeout(),
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.InstrumentMetricHandler(registry, scrapes))

	return &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Metrics.Prometheus.Port)),
		Handler: mux,
	}, nil
}

// scrapeErrorLog reports failed collections as warnings.
type scrapeErrorLog struct{}

func (scrapeErrorLog) Println(v ...interface{}) {
	logger.Warnf("prometheus scrape: %s", fmt.Sprint(v...))
}
