package router

import (
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/buzzoola/hbrtb/adapters"
	"github.com/buzzoola/hbrtb/adapters/buzzoola"
	"github.com/buzzoola/hbrtb/config"
	"github.com/buzzoola/hbrtb/endpoints"
	"github.com/buzzoola/hbrtb/endpoints/info"
	"github.com/buzzoola/hbrtb/errortypes"
	"github.com/buzzoola/hbrtb/exchange"
	metricsConf "github.com/buzzoola/hbrtb/metrics/config"
	"github.com/buzzoola/hbrtb/router/aspects"
	"github.com/buzzoola/hbrtb/util/timeutil"

	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

type Router struct {
	*httprouter.Router
	MetricsEngine *metricsConf.DetailedMetricsEngine
	BidderInfos   adapters.BidderInfos
	Shutdown      func()
}

func New(cfg *config.Configuration) (r *Router, err error) {
	r = &Router{
		Router: httprouter.New(),
	}

	transport := getTransport(cfg)
	generalHttpClient := &http.Client{
		Transport: transport,
	}
	r.Shutdown = transport.CloseIdleConnections

	r.MetricsEngine = metricsConf.NewMetricsEngine(cfg)

	r.BidderInfos, err = adapters.ParseBidderInfos(cfg.BidderInfoDir, exchange.CoreBidderNames())
	if err != nil {
		return nil, err
	}

	bidders, adaptersErrs := exchange.BuildAdapters(generalHttpClient, cfg, r.BidderInfos, r.MetricsEngine, timeutil.RealTime{})
	if len(adaptersErrs) > 0 {
		return nil, errortypes.NewAggregateErrors("Failed to initialize adapters", adaptersErrs)
	}
	disabledBidders := exchange.GetDisabledBiddersErrorMessages(cfg.Adapters)

	auctionEndpoint, err := endpoints.NewHBAuctionEndpoint(bidders, disabledBidders, buzzoola.BidderCode)
	if err != nil {
		return nil, err
	}

	r.POST("/hb/auction", aspects.RateLimited(auctionEndpoint, cfg.RateLimit))
	r.GET("/info/bidders", info.NewBiddersEndpoint(r.BidderInfos))
	r.GET("/info/bidders/:bidderName", info.NewBidderDetailsEndpoint(r.BidderInfos))
	r.GET("/status", endpoints.NewStatusEndpoint(cfg.StatusResponse))

	glog.Infof("hb auction endpoint serving %d bidder(s), %d disabled", len(bidders), len(disabledBidders))
	return r, nil
}

// Admin builds the handler of the admin port.
func Admin(version, revision string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/version", endpoints.NewVersionEndpoint(version, revision, exchange.CoreBidderNames()))
	return mux
}

func getTransport(cfg *config.Configuration) *http.Transport {
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		MaxConnsPerHost: cfg.Client.MaxConnsPerHost,
		IdleConnTimeout: time.Duration(cfg.Client.IdleConnTimeout) * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	if cfg.Client.MaxIdleConns > 0 {
		transport.MaxIdleConns = cfg.Client.MaxIdleConns
	}

	if cfg.Client.MaxIdleConnsPerHost > 0 {
		transport.MaxIdleConnsPerHost = cfg.Client.MaxIdleConnsPerHost
	}

	return transport
}

type NoCache struct {
	Handler http.Handler
}

func (m NoCache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Add("Pragma", "no-cache")
	w.Header().Add("Expires", "0")
	m.Handler.ServeHTTP(w, r)
}

// SupportCORS lets publisher pages call the bridge with credentials, so the user's cookies
// reach the exchange. An empty origin list allows every origin.
//
// For more info, see:
//
// - https://github.com/rs/cors/issues/55
// - https://developer.mozilla.org/en-US/docs/Web/HTTP/CORS/Errors/CORSNotSupportingCredentials
func SupportCORS(handler http.Handler, allowedOrigins []string) http.Handler {
	options := cors.Options{
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Origin", "X-Requested-With", "Content-Type", "Accept"},
	}
	if len(allowedOrigins) == 0 {
		options.AllowOriginFunc = func(string) bool {
			return true
		}
	} else {
		options.AllowedOrigins = allowedOrigins
	}
	return cors.New(options).Handler(handler)
}
