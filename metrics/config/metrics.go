package config

import (
	mainConfig "github.com/buzzoola/hbrtb/config"
	"github.com/buzzoola/hbrtb/metrics"
	prometheusmetrics "github.com/buzzoola/hbrtb/metrics/prometheus"
)

// NewMetricsEngine reads the configuration and returns the appropriate metrics engine
// for this instance.
func NewMetricsEngine(cfg *mainConfig.Configuration) *DetailedMetricsEngine {
	if cfg.Metrics.Prometheus.Port == 0 {
		return &DetailedMetricsEngine{MetricsEngine: &metrics.NilMetricsEngine{}}
	}

	prometheusEngine := prometheusmetrics.NewMetrics(cfg.Metrics.Prometheus)
	return &DetailedMetricsEngine{
		MetricsEngine:     prometheusEngine,
		PrometheusMetrics: prometheusEngine,
	}
}

// DetailedMetricsEngine is a MetricsEngine that keeps hold of the Prometheus engine so the
// server can expose its registry.
type DetailedMetricsEngine struct {
	metrics.MetricsEngine
	PrometheusMetrics *prometheusmetrics.Metrics
}
