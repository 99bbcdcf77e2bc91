package server

import (
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/buzzoola/hbrtb/config"
	"github.com/buzzoola/hbrtb/metrics"
	metricsconfig "github.com/buzzoola/hbrtb/metrics/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewAdminServer(t *testing.T) {
	cfg := &config.Configuration{
		Host:      "bridge.example.com",
		AdminPort: 6060,
		Port:      8000,
	}
	server := newAdminServer(cfg, http.HandlerFunc(handler))
	assert.Equal(t, "bridge.example.com:6060", server.Addr)
}

func TestNewMainServer(t *testing.T) {
	cfg := &config.Configuration{
		Host:      "bridge.example.com",
		AdminPort: 6060,
		Port:      8000,
	}
	server := newMainServer(cfg, http.HandlerFunc(handler))
	assert.Equal(t, "bridge.example.com:8000", server.Addr)
}

func TestNewMainServerGzip(t *testing.T) {
	cfg := &config.Configuration{Port: 8000, EnableGzip: true}
	server := newMainServer(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"outcomes":{}}` + string(make([]byte, 2048))))
	}))

	req := httptest.NewRequest("POST", "/hb/auction", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	recorder := httptest.NewRecorder()
	server.Handler.ServeHTTP(recorder, req)
	assert.Equal(t, "gzip", recorder.Header().Get("Content-Encoding"))
}

func TestNewPrometheusServer(t *testing.T) {
	cfg := &config.Configuration{Host: "bridge.example.com"}
	cfg.Metrics.Prometheus.Port = 9090
	cfg.Metrics.Prometheus.Namespace = "bridge"
	engine := metricsconfig.NewMetricsEngine(cfg)

	server, err := newPrometheusServer(cfg, engine)
	require.NoError(t, err)
	assert.Equal(t, "bridge.example.com:9090", server.Addr)

	recorder := httptest.NewRecorder()
	server.Handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "bridge_outcomes")

	// the second scrape sees the first one counted
	recorder = httptest.NewRecorder()
	server.Handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, recorder.Body.String(), `promhttp_metric_handler_requests_total{code="200"} 1`)

	recorder = httptest.NewRecorder()
	server.Handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestNewPrometheusServerWithoutEngine(t *testing.T) {
	cfg := &config.Configuration{}
	cfg.Metrics.Prometheus.Port = 9090

	_, err := newPrometheusServer(cfg, nil)
	assert.Error(t, err)

	_, err = newPrometheusServer(cfg, &metricsconfig.DetailedMetricsEngine{})
	assert.Error(t, err)
}

func TestMonitorableListener(t *testing.T) {
	me := &metrics.MetricsEngineMock{}
	me.On("RecordConnectionAccept", true).Return()
	me.On("RecordConnectionClose", mock.Anything).Return()

	ln, err := newListener("127.0.0.1:0", me)
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := net.Dial("tcp", ln.Addr().String())
		if err == nil {
			conn.Close()
		}
	}()

	conn, err := ln.Accept()
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	me.AssertCalled(t, "RecordConnectionAccept", true)
	me.AssertCalled(t, "RecordConnectionClose", true)
}

func TestRunServerRequiresServerAndListener(t *testing.T) {
	assert.Error(t, runServer(nil, "Main", nil))
	assert.Error(t, runServer(&http.Server{}, "Main", nil))
}

func TestServerShutdown(t *testing.T) {
	server := &http.Server{}
	ln := &mockListener{}

	stopper := make(chan os.Signal)
	done := make(chan struct{})
	go shutdownAfterSignals(server, stopper, done)
	go server.Serve(ln)

	stopper <- os.Interrupt
	<-done

	// If the test didn't hang, then we know server.Shutdown really _did_ return, and shutdownAfterSignals
	// passed the message along as expected.
}

func TestWait(t *testing.T) {
	inbound := make(chan os.Signal)
	chan1 := make(chan os.Signal)
	chan2 := make(chan os.Signal)
	chan3 := make(chan os.Signal)
	done := make(chan struct{})

	go forwardSignal(t, done, chan1)
	go forwardSignal(t, done, chan2)
	go forwardSignal(t, done, chan3)

	go func(chan os.Signal) {
		inbound <- os.Interrupt
	}(inbound)

	wait(inbound, done, chan1, chan2, chan3)
	// If this doesn't hang, then wait() is sending and receiving messages as expected.
}

func handler(w http.ResponseWriter, req *http.Request) {

}

// forwardSignal is basically a working mock for shutdownAfterSignals().
// It is used to test wait() effectively
func forwardSignal(t *testing.T, outbound chan<- struct{}, inbound <-chan os.Signal) {
	var s struct{}
	sig := <-inbound
	if sig != os.Interrupt {
		t.Errorf("Unexpected signal: %s", sig.String())
	}
	outbound <- s
}
