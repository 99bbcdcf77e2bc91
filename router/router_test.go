package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/buzzoola/hbrtb/config"
	"github.com/buzzoola/hbrtb/hb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exchangeResponse = `{
  "id": "br-1",
  "seatbid": [{"bid": [{"id": "b-1", "impid": "bid-1", "price": 2.5, "nurl": "https://exchange.test/vast/1", "w": 640, "h": 480, "mtype": 2}]}]
}`

const videoAuction = `{
  "auction": {
    "bidderRequestId": "br-1",
    "timeout": 500,
    "bids": [
      {"bidId": "bid-1", "placementCode": "div-video", "sizes": [640, 480], "mediaType": "video",
       "params": {"bidFloor": 0.5, "bidFloorCur": "USD", "video": {"mimes": ["video/mp4"], "protocols": ["VAST 2.0"]}}},
      {"bidId": "bid-2", "placementCode": "div-broken", "mediaType": "video", "params": {}},
      {"bidId": "bid-3", "placementCode": "div-untyped", "params": {}},
      {"bidId": "bid-4", "placementCode": "div-malformed", "mediaType": "video",
       "params": {"bidFloor": "abc", "bidFloorCur": "USD", "video": {"mimes": ["video/mp4"], "protocols": [2]}}}
    ]
  },
  "environment": {"page": "https://publisher.example.com/article", "screenWidth": 1280}
}`

func testConfig(endpoint string) *config.Configuration {
	return &config.Configuration{
		Port:           8000,
		DefaultTimeout: 500,
		BidderInfoDir:  "../static/bidder-info",
		Adapters: map[string]config.Adapter{
			"buzzoola": {Endpoint: endpoint},
		},
	}
}

func TestHBAuctionRoundTrip(t *testing.T) {
	var exchangeBody []byte
	var exchangeCookie string
	exchange := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		exchangeBody, _ = io.ReadAll(r.Body)
		exchangeCookie = r.Header.Get("Cookie")
		w.Write([]byte(exchangeResponse))
	}))
	defer exchange.Close()

	r, err := New(testConfig(exchange.URL))
	require.NoError(t, err)
	defer r.Shutdown()

	req := httptest.NewRequest("POST", "/hb/auction", strings.NewReader(videoAuction))
	req.Header.Set("Cookie", "uid=42")
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var resp struct {
		Outcomes map[string][]hb.Outcome `json:"outcomes"`
		Errors   []string                `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))

	require.Len(t, resp.Outcomes["div-video"], 1)
	good := resp.Outcomes["div-video"][0]
	assert.Equal(t, hb.StatusGood, good.Status)
	require.NotNil(t, good.Bid)
	assert.Equal(t, 2.5, good.Bid.CPM)
	assert.Equal(t, "https://exchange.test/vast/1", good.Bid.VastURL)

	require.Len(t, resp.Outcomes["div-broken"], 1)
	assert.Equal(t, hb.StatusNoBid, resp.Outcomes["div-broken"][0].Status)
	assert.Equal(t, "empty bid params", resp.Outcomes["div-broken"][0].Reason)
	assert.Contains(t, resp.Errors, "empty bid params")

	require.Len(t, resp.Outcomes["div-untyped"], 1)
	assert.Equal(t, "unsupported or unknown media type", resp.Outcomes["div-untyped"][0].Reason)

	require.Len(t, resp.Outcomes["div-malformed"], 1)
	assert.Equal(t, hb.StatusNoBid, resp.Outcomes["div-malformed"][0].Status)
	assert.Equal(t, `invalid bid params: bidFloor: expected a number, got "abc"`, resp.Outcomes["div-malformed"][0].Reason)
	assert.Len(t, resp.Outcomes, 4)

	var sent struct {
		Imp []struct {
			ID string `json:"id"`
		} `json:"imp"`
	}
	require.NoError(t, json.Unmarshal(exchangeBody, &sent))
	require.Len(t, sent.Imp, 1)
	assert.Equal(t, "bid-1", sent.Imp[0].ID)
	assert.Equal(t, "uid=42", exchangeCookie)
}

func TestNewFailsWithoutBidderInfo(t *testing.T) {
	cfg := testConfig("https://exchange.buzzoola.com/hb")
	cfg.BidderInfoDir = "testdata/missing"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestDisabledBidder(t *testing.T) {
	cfg := testConfig("")
	cfg.Adapters["buzzoola"] = config.Adapter{Disabled: true}

	r, err := New(cfg)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest("POST", "/hb/auction", strings.NewReader(videoAuction)))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "has been disabled")
}

func TestInfoRoutes(t *testing.T) {
	r, err := New(testConfig("https://exchange.buzzoola.com/hb"))
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest("GET", "/info/bidders", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `["buzzoola"]`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest("GET", "/info/bidders/buzzoola", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"mediaTypes":["video","native"]`)

	recorder = httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest("GET", "/status", nil))
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestAdminVersion(t *testing.T) {
	recorder := httptest.NewRecorder()
	Admin("1.0.0", "abc123").ServeHTTP(recorder, httptest.NewRequest("GET", "/version", nil))
	assert.JSONEq(t, `{"version":"1.0.0","revision":"abc123","bidders":["buzzoola"]}`, recorder.Body.String())
}

func TestGetTransport(t *testing.T) {
	cfg := &config.Configuration{
		Client: config.HTTPClient{
			MaxConnsPerHost:     10,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     30,
		},
	}

	transport := getTransport(cfg)
	assert.Equal(t, 10, transport.MaxConnsPerHost)
	assert.Equal(t, 20, transport.MaxIdleConns)
	assert.Equal(t, 5, transport.MaxIdleConnsPerHost)
	assert.Equal(t, "30s", transport.IdleConnTimeout.String())
}

func TestCORSSupport(t *testing.T) {
	const origin = "https://publisher-domain.com"
	handler := func(w http.ResponseWriter, r *http.Request) {}

	testCases := []struct {
		description    string
		allowedOrigins []string
		expectedOrigin string
	}{
		{description: "any origin", allowedOrigins: nil, expectedOrigin: origin},
		{description: "listed origin", allowedOrigins: []string{origin}, expectedOrigin: origin},
		{description: "unlisted origin", allowedOrigins: []string{"https://other.example.com"}, expectedOrigin: ""},
	}

	for _, test := range testCases {
		cors := SupportCORS(http.HandlerFunc(handler), test.allowedOrigins)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("OPTIONS", "http://some-domain.com/hb/auction", nil)
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "origin")
		req.Header.Set("Origin", origin)

		cors.ServeHTTP(rr, req)
		assert.Equal(t, test.expectedOrigin, rr.Header().Get("Access-Control-Allow-Origin"), test.description)
		if test.expectedOrigin != "" {
			assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"), test.description)
		}
	}
}

func TestNoCache(t *testing.T) {
	nc := NoCache{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	}
	rw := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "http://localhost/nocache", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("ETag", "abcdef")
	nc.ServeHTTP(rw, req)
	h := rw.Header()
	if expected := "no-cache, no-store, must-revalidate"; expected != h.Get("Cache-Control") {
		t.Errorf("invalid cache-control header: expected: %s got: %s", expected, h.Get("Cache-Control"))
	}
	if expected := "no-cache"; expected != h.Get("Pragma") {
		t.Errorf("invalid pragma header: expected: %s got: %s", expected, h.Get("Pragma"))
	}
	if expected := "0"; expected != h.Get("Expires") {
		t.Errorf("invalid expires header: expected: %s got: %s", expected, h.Get("Expires"))
	}
	if expected := ""; expected != h.Get("ETag") {
		t.Errorf("invalid etag header: expected: %s got: %s", expected, h.Get("ETag"))
	}
}
