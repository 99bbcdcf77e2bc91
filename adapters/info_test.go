package adapters

import (
	"testing"

	"github.com/buzzoola/hbrtb/hb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBidderInfos(t *testing.T) {
	infos, err := ParseBidderInfos("testdata/bidder-info", []string{"buzzoola"})
	require.NoError(t, err)

	info := infos["buzzoola"]
	require.NotNil(t, info.Maintainer)
	assert.Equal(t, "prebid@buzzoola.com", info.Maintainer.Email)
	assert.True(t, infos.HasSiteSupport("buzzoola"))
	assert.True(t, infos.SupportsWebMediaType("buzzoola", hb.MediaTypeVideo))
	assert.False(t, infos.SupportsWebMediaType("buzzoola", hb.MediaTypeNative))
}

func TestParseBidderInfosShippedFile(t *testing.T) {
	infos, err := ParseBidderInfos("../static/bidder-info", []string{"buzzoola"})
	require.NoError(t, err)

	for _, mediaType := range hb.SupportedMediaTypes {
		assert.True(t, infos.SupportsWebMediaType("buzzoola", mediaType), "shipped info should allow %s", mediaType)
	}
}

func TestParseBidderInfosErrors(t *testing.T) {
	_, err := ParseBidderInfos("testdata/bidder-info", []string{"missing"})
	assert.Error(t, err)

	_, err = ParseBidderInfos("testdata/bidder-info", []string{"broken"})
	assert.Error(t, err)
}

func TestUnknownBidderHasNoSupport(t *testing.T) {
	infos := BidderInfos{}
	assert.False(t, infos.HasSiteSupport("buzzoola"))
	assert.False(t, infos.SupportsWebMediaType("buzzoola", hb.MediaTypeVideo))
}
