package hb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBidderParamsUnmarshal(t *testing.T) {
	var params BidderParams
	err := json.Unmarshal([]byte(`{
		"bidFloor": 1.5,
		"bidFloorCur": "RUB",
		"instl": 1,
		"secure": 1,
		"video": {"mimes": ["video/mp4"], "protocols": "VAST 2.0", "skippable": true, "minduration": 5},
		"native": {"context": 1, "contextSubType": 10, "placementType": 4, "ver": "1.1"}
	}`), &params)
	require.NoError(t, err)

	assert.Equal(t, 1.5, *params.BidFloor)
	assert.Equal(t, "RUB", *params.BidFloorCur)
	assert.Equal(t, int8(1), *params.Instl)
	assert.True(t, params.Raw.Has("secure"))
	assert.False(t, params.IsEmpty())

	require.NotNil(t, params.Video)
	assert.Equal(t, []string{"video/mp4"}, params.Video.MIMEs)
	assert.Equal(t, []any{"VAST 2.0"}, params.Video.Protocols)
	assert.True(t, *params.Video.Skippable)
	assert.True(t, params.Video.Raw.Has("minduration"))

	require.NotNil(t, params.Native)
	assert.Equal(t, int64(1), *params.Native.Context)
	assert.Equal(t, int64(10), *params.Native.ContextSubType)
	assert.Equal(t, int64(4), *params.Native.PlacementType)
}

func TestBidderParamsFloorAsString(t *testing.T) {
	var params BidderParams
	require.NoError(t, json.Unmarshal([]byte(`{"bidFloor": "0.75", "bidFloorCur": "USD"}`), &params))
	assert.Equal(t, 0.75, *params.BidFloor)
}

func TestBidderParamsNullsAreAbsent(t *testing.T) {
	var params BidderParams
	require.NoError(t, json.Unmarshal([]byte(`{"bidFloor": null, "video": null}`), &params))
	assert.Nil(t, params.BidFloor)
	assert.Nil(t, params.Video)
	assert.False(t, params.Raw.Has("bidFloor"))
	assert.False(t, params.IsEmpty())
}

func TestBidderParamsEmpty(t *testing.T) {
	var params BidderParams
	require.NoError(t, json.Unmarshal([]byte(`{}`), &params))
	assert.True(t, params.IsEmpty())

	var missing *BidderParams
	assert.True(t, missing.IsEmpty())
}

func TestVideoParamsPresence(t *testing.T) {
	var video VideoParams
	require.NoError(t, json.Unmarshal([]byte(`{"mimes": [], "protocols": [2, "7"], "skippable": 0}`), &video))
	assert.NotNil(t, video.MIMEs)
	assert.Empty(t, video.MIMEs)
	assert.Equal(t, []any{float64(2), "7"}, video.Protocols)
	assert.False(t, *video.Skippable)

	var bare VideoParams
	require.NoError(t, json.Unmarshal([]byte(`{}`), &bare))
	assert.Nil(t, bare.MIMEs)
	assert.Nil(t, bare.Protocols)
	assert.Nil(t, bare.Skippable)
}

func TestRawParamsPick(t *testing.T) {
	raw := RawParams{
		"pmp":    json.RawMessage(`{"private_auction":1}`),
		"exp":    json.RawMessage(`null`),
		"ignore": json.RawMessage(`1`),
	}
	assert.Equal(t, RawParams{"pmp": json.RawMessage(`{"private_auction":1}`)}, raw.Pick([]string{"pmp", "exp", "secure"}))
}

func TestNativeParamsShorthand(t *testing.T) {
	var shorthand NativeParams
	require.NoError(t, json.Unmarshal([]byte(`{"type": "image"}`), &shorthand))
	assert.True(t, shorthand.IsTypeShorthand())

	var full NativeParams
	require.NoError(t, json.Unmarshal([]byte(`{"type": "image", "body": {"required": true}}`), &full))
	assert.False(t, full.IsTypeShorthand())
	assert.True(t, full.Body.Required)
}

func TestBidderParamsKeepWronglyTypedFields(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expectedErr string
	}{
		{
			description: "floor",
			input:       `{"bidFloor": "abc", "bidFloorCur": "USD"}`,
			expectedErr: `bidFloor: expected a number, got "abc"`,
		},
		{
			description: "currency",
			input:       `{"bidFloor": 1, "bidFloorCur": 840}`,
			expectedErr: "bidFloorCur: expected a string, got 840",
		},
		{
			description: "instl",
			input:       `{"instl": 1.5}`,
			expectedErr: "instl: expected an integer, got 1.5",
		},
		{
			description: "instl-range",
			input:       `{"instl": 300}`,
			expectedErr: "instl: 300 is out of range",
		},
		{
			description: "video-mimes",
			input:       `{"video": {"mimes": 5}}`,
			expectedErr: "video: mimes: expected a string or a list of strings, got 5",
		},
		{
			description: "video-not-object",
			input:       `{"video": "vast"}`,
			expectedErr: `video: expected an object, got "vast"`,
		},
		{
			description: "native-context",
			input:       `{"native": {"context": "1"}}`,
			expectedErr: `native: context: expected an integer, got "1"`,
		},
		{
			description: "first-error-wins",
			input:       `{"bidFloor": "abc", "instl": 1.5}`,
			expectedErr: `bidFloor: expected a number, got "abc"`,
		},
	}

	for _, test := range testCases {
		var params BidderParams
		require.NoError(t, json.Unmarshal([]byte(test.input), &params), test.description)
		assert.EqualError(t, params.Err(), test.expectedErr, test.description)
		assert.False(t, params.IsEmpty(), test.description)
	}
}

func TestBidderParamsPartialDecode(t *testing.T) {
	var params BidderParams
	require.NoError(t, json.Unmarshal([]byte(`{"bidFloor": 2, "bidFloorCur": "USD", "video": {"mimes": ["video/mp4"], "skippable": "yes"}}`), &params))

	assert.Equal(t, 2.0, *params.BidFloor)
	require.NotNil(t, params.Video)
	assert.Equal(t, []string{"video/mp4"}, params.Video.MIMEs)
	assert.Nil(t, params.Video.Skippable)
	assert.EqualError(t, params.Err(), `video: skippable: expected a boolean, got "yes"`)

	var valid BidderParams
	require.NoError(t, json.Unmarshal([]byte(`{"bidFloor": 2}`), &valid))
	assert.NoError(t, valid.Err())

	var missing *BidderParams
	assert.NoError(t, missing.Err())
}

func TestBidSlotDecodeFailureStaysOnTheSlot(t *testing.T) {
	var auction AuctionContext
	require.NoError(t, json.Unmarshal([]byte(`{"bidderRequestId": "br-1", "bids": [
		{"bidId": "ok", "placementCode": "div-ok", "sizes": [300, 250], "params": {"bidFloor": 1}},
		{"bidId": "bad-size", "placementCode": "div-size", "sizes": [[300]], "mediaType": "video", "params": {"bidFloor": 1}},
		{"bidId": "bad-floor", "placementCode": "div-floor", "params": {"bidFloor": "abc"}}
	]}`), &auction))

	require.Len(t, auction.Bids, 3)

	assert.NoError(t, auction.Bids[0].Err())
	assert.Equal(t, Sizes{{W: 300, H: 250}}, auction.Bids[0].Sizes)

	size := auction.Bids[1]
	assert.Equal(t, "bad-size", size.BidID)
	assert.Equal(t, "div-size", size.PlacementCode)
	assert.Equal(t, "video", size.MediaType)
	assert.Equal(t, 1.0, *size.Params.BidFloor)
	assert.EqualError(t, size.Err(), "invalid sizes: size [300] must have a width and a height")

	floor := auction.Bids[2]
	assert.Equal(t, "bad-floor", floor.BidID)
	assert.EqualError(t, floor.Err(), `invalid bid params: bidFloor: expected a number, got "abc"`)
}
