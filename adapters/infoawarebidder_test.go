package adapters

import (
	"encoding/json"
	"testing"

	"github.com/buzzoola/hbrtb/errortypes"
	"github.com/buzzoola/hbrtb/hb"
	"github.com/prebid/openrtb/v20/openrtb2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siteInfo(mediaTypes ...hb.MediaType) BidderInfo {
	return BidderInfo{
		Capabilities: &CapabilitiesInfo{
			Site: &PlatformInfo{MediaTypes: mediaTypes},
		},
	}
}

var twoSlotAuction = &hb.AuctionContext{
	BidderRequestID: "br-1",
	Bids: []hb.BidSlot{
		{BidID: "imp0", PlacementCode: "tag0"},
		{BidID: "imp1", PlacementCode: "tag1"},
	},
}

func TestSiteNotSupported(t *testing.T) {
	delegate := &fakeBidder{requestData: newRequestData("http://exchange.test")}
	constrained := BuildInfoAwareBidder(delegate, BidderInfo{})

	reqData, rejections, errs := constrained.MakeRequests(twoSlotAuction, &hb.Environment{})
	assert.Nil(t, reqData)
	require.Len(t, rejections, 2)
	for _, rejection := range rejections {
		assert.Equal(t, siteNotSupported, rejection.Reason)
	}
	require.Len(t, errs, 1)
	assert.IsType(t, &errortypes.Warning{}, errs[0])
}

func TestAllMediaTypesSupported(t *testing.T) {
	original := newRequestData("http://exchange.test")
	delegate := &fakeBidder{requestData: original}
	constrained := BuildInfoAwareBidder(delegate, siteInfo(hb.MediaTypeVideo, hb.MediaTypeNative))

	reqData, rejections, errs := constrained.MakeRequests(twoSlotAuction, &hb.Environment{})
	assert.Same(t, original, reqData)
	assert.Empty(t, rejections)
	assert.Empty(t, errs)
	assert.Equal(t, []byte(`{"id":"br-1"}`), reqData.Body, "body must not be re-encoded when nothing is pruned")
}

func TestImpFiltering(t *testing.T) {
	delegate := &fakeBidder{requestData: newRequestData("http://exchange.test")}
	constrained := BuildInfoAwareBidder(delegate, siteInfo(hb.MediaTypeVideo))

	reqData, rejections, errs := constrained.MakeRequests(twoSlotAuction, &hb.Environment{})
	require.NotNil(t, reqData)
	require.Len(t, reqData.BidRequest.Imp, 1)
	assert.Equal(t, "imp0", reqData.BidRequest.Imp[0].ID)

	var sent openrtb2.BidRequest
	require.NoError(t, json.Unmarshal(reqData.Body, &sent))
	require.Len(t, sent.Imp, 1)
	assert.Equal(t, "imp0", sent.Imp[0].ID)

	require.Len(t, rejections, 1)
	assert.Equal(t, "imp1", rejections[0].BidID)
	assert.Equal(t, "tag1", rejections[0].PlacementCode)
	assert.Equal(t, "native is not supported by this bidder", rejections[0].Reason)

	require.Len(t, errs, 1)
	assert.EqualError(t, errs[0], "request.imp[1] uses native, but this bidder doesn't support it")
}

func TestNoSupportedImpsLeft(t *testing.T) {
	delegate := &fakeBidder{requestData: newRequestData("http://exchange.test")}
	constrained := BuildInfoAwareBidder(delegate, siteInfo())

	reqData, rejections, errs := constrained.MakeRequests(twoSlotAuction, &hb.Environment{})
	assert.Nil(t, reqData)
	assert.Len(t, rejections, 2)
	require.Len(t, errs, 3)
	assert.EqualError(t, errs[2], "Bid request didn't contain media types supported by the bidder")
}

func TestDelegateRejectionsPassThrough(t *testing.T) {
	delegate := &fakeBidder{
		rejections: []hb.Outcome{{Status: hb.StatusNoBid, BidID: "imp0", PlacementCode: "tag0", Reason: "empty bid params"}},
		errs:       []error{&errortypes.BadInput{Message: "empty bid params"}},
	}
	constrained := BuildInfoAwareBidder(delegate, siteInfo(hb.MediaTypeVideo))

	reqData, rejections, errs := constrained.MakeRequests(twoSlotAuction, &hb.Environment{})
	assert.Nil(t, reqData)
	assert.Equal(t, delegate.rejections, rejections)
	assert.Equal(t, delegate.errs, errs)
}
