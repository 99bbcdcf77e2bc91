package info

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/buzzoola/hbrtb/adapters"
	"github.com/buzzoola/hbrtb/hb"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testInfos = adapters.BidderInfos{
	"buzzoola": {
		Maintainer: &adapters.MaintainerInfo{Email: "prebid@buzzoola.com"},
		Capabilities: &adapters.CapabilitiesInfo{
			Site: &adapters.PlatformInfo{MediaTypes: []hb.MediaType{hb.MediaTypeVideo, hb.MediaTypeNative}},
		},
	},
	"another": {},
}

func TestBiddersEndpoint(t *testing.T) {
	endpoint := NewBiddersEndpoint(testInfos)

	req := httptest.NewRequest("GET", "http://bridge.example.com/info/bidders", nil)
	r := httptest.NewRecorder()
	endpoint(r, req, nil)

	assert.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, "application/json", r.Header().Get("Content-Type"))

	var bidders []string
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), &bidders))
	assert.Equal(t, []string{"another", "buzzoola"}, bidders)
}

func TestBidderDetailsEndpoint(t *testing.T) {
	endpoint := NewBidderDetailsEndpoint(testInfos)

	req := httptest.NewRequest("GET", "http://bridge.example.com/info/bidders/buzzoola", nil)
	r := httptest.NewRecorder()
	endpoint(r, req, httprouter.Params{{Key: "bidderName", Value: "buzzoola"}})

	assert.Equal(t, http.StatusOK, r.Code)
	assert.JSONEq(t, `{"maintainer":{"email":"prebid@buzzoola.com"},"capabilities":{"site":{"mediaTypes":["video","native"]}}}`, r.Body.String())
}

func TestBidderDetailsEndpointUnknownBidder(t *testing.T) {
	endpoint := NewBidderDetailsEndpoint(testInfos)

	req := httptest.NewRequest("GET", "http://bridge.example.com/info/bidders/unknown", nil)
	r := httptest.NewRecorder()
	endpoint(r, req, httprouter.Params{{Key: "bidderName", Value: "unknown"}})

	assert.Equal(t, http.StatusNotFound, r.Code)
}
