package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/buzzoola/hbrtb/errortypes"
	"github.com/spf13/viper"
)

// Configuration specifies the static application config.
type Configuration struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	AdminPort  int    `mapstructure:"admin_port"`
	EnableGzip bool   `mapstructure:"enable_gzip"`
	// DefaultTimeout bounds the exchange call when an auction arrives without a timeout.
	DefaultTimeout uint64             `mapstructure:"default_timeout_ms"`
	Client         HTTPClient         `mapstructure:"http_client"`
	Adapters       map[string]Adapter `mapstructure:"adapters"`
	Metrics        Metrics            `mapstructure:"metrics"`
	CORS           CORS               `mapstructure:"cors"`
	RateLimit      RateLimit          `mapstructure:"rate_limit"`
	// StatusResponse is the body written by /status. An empty value answers 204 No Content.
	StatusResponse string `mapstructure:"status_response"`
	// BidderInfoDir holds one {bidder}.yaml file per adapter.
	BidderInfoDir string `mapstructure:"bidder_info_dir"`
}

type HTTPClient struct {
	MaxConnsPerHost     int `mapstructure:"max_connections_per_host"`
	MaxIdleConns        int `mapstructure:"max_idle_connections"`
	MaxIdleConnsPerHost int `mapstructure:"max_idle_connections_per_host"`
	IdleConnTimeout     int `mapstructure:"idle_connection_timeout_seconds"`
}

type Metrics struct {
	Prometheus PrometheusMetrics `mapstructure:"prometheus"`
}

type PrometheusMetrics struct {
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
	// TimeoutMillisRaw bounds a single scrape.
	TimeoutMillisRaw int `mapstructure:"timeout_ms"`
}

func (cfg *PrometheusMetrics) Timeout() time.Duration {
	return time.Duration(cfg.TimeoutMillisRaw) * time.Millisecond
}

type CORS struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimit caps auctions per second and client address. Zero disables the limit.
type RateLimit struct {
	MaxPerSecond float64 `mapstructure:"max_per_second"`
}

// DefaultTimeoutDuration is DefaultTimeout as a time.Duration.
func (cfg *Configuration) DefaultTimeoutDuration() time.Duration {
	return time.Duration(cfg.DefaultTimeout) * time.Millisecond
}

func (cfg *Configuration) validate() []error {
	var errs []error
	if cfg.Port <= 0 {
		errs = append(errs, fmt.Errorf("port must be positive, got %d", cfg.Port))
	}
	if cfg.AdminPort < 0 {
		errs = append(errs, fmt.Errorf("admin_port must not be negative, got %d", cfg.AdminPort))
	}
	if cfg.AdminPort != 0 && cfg.AdminPort == cfg.Port {
		errs = append(errs, errors.New("admin_port must differ from port"))
	}
	if cfg.Metrics.Prometheus.Port != 0 && cfg.Metrics.Prometheus.Port == cfg.Port {
		errs = append(errs, errors.New("metrics.prometheus.port must differ from port"))
	}
	if cfg.RateLimit.MaxPerSecond < 0 {
		errs = append(errs, fmt.Errorf("rate_limit.max_per_second must not be negative, got %v", cfg.RateLimit.MaxPerSecond))
	}
	if cfg.DefaultTimeout == 0 {
		errs = append(errs, errors.New("default_timeout_ms must be positive"))
	}
	return validateAdapters(cfg.Adapters, errs)
}

// New uses viper to get our server configurations.
func New(v *viper.Viper) (*Configuration, error) {
	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("viper failed to unmarshal app config: %v", err)
	}

	// viper lowercases map keys, normalize anything set through other means
	adapters := make(map[string]Adapter, len(c.Adapters))
	for name, adapter := range c.Adapters {
		adapters[strings.ToLower(name)] = adapter
	}
	c.Adapters = adapters

	if errs := c.validate(); len(errs) > 0 {
		return &c, errortypes.NewAggregateErrors("validation errors", errs)
	}

	return &c, nil
}

// SetupViper sets the default values and environment bindings. Pass an empty
// filename to skip reading a config file.
func SetupViper(v *viper.Viper, filename string) {
	if filename != "" {
		v.SetConfigName(filename)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/config")
	}

	v.SetDefault("host", "")
	v.SetDefault("port", 8000)
	v.SetDefault("admin_port", 6060)
	v.SetDefault("enable_gzip", false)
	v.SetDefault("default_timeout_ms", 1000)

	v.SetDefault("http_client.max_connections_per_host", 0) // unlimited
	v.SetDefault("http_client.max_idle_connections", 400)
	v.SetDefault("http_client.max_idle_connections_per_host", 50)
	v.SetDefault("http_client.idle_connection_timeout_seconds", 60)

	v.SetDefault("adapters.buzzoola.endpoint", "https://exchange.buzzoola.com/hb")
	v.SetDefault("adapters.buzzoola.disabled", false)

	v.SetDefault("metrics.prometheus.port", 0)
	v.SetDefault("metrics.prometheus.namespace", "hbrtb")
	v.SetDefault("metrics.prometheus.subsystem", "")
	v.SetDefault("metrics.prometheus.timeout_ms", 10000)

	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("rate_limit.max_per_second", 0)
	v.SetDefault("status_response", "")
	v.SetDefault("bidder_info_dir", "static/bidder-info")

	v.SetEnvPrefix("HBRTB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filename != "" {
		v.ReadInConfig()
	}
}
