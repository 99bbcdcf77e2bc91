package buzzoola

import (
	"encoding/json"

	"github.com/buzzoola/hbrtb/hb"
	"github.com/buzzoola/hbrtb/util/ptrutil"
	"github.com/prebid/openrtb/v20/openrtb2"
)

// videoOptional are the keys of the video params copied verbatim onto the video object.
var videoOptional = []string{
	"minduration",
	"maxduration",
	"w",
	"h",
	"startdelay",
	"placement",
	"linearity",
	"skip",
	"skipmin",
	"skipafter",
	"sequence",
	"battr",
	"maxextended",
	"minbitrate",
	"maxbitrate",
	"boxingallowed",
	"playbackmethod",
	"playbackend",
	"delivery",
	"pos",
	"companionad",
	"api",
	"companiontype",
	"ext",
}

var videoDefaults = map[string]json.RawMessage{
	"skipmin":       json.RawMessage(`0`),
	"skipafter":     json.RawMessage(`0`),
	"boxingallowed": json.RawMessage(`1`),
}

// buildVideo produces the video object of a validated video slot.
func buildVideo(slot *hb.BidSlot) (*openrtb2.Video, error) {
	params := slot.Params.Video

	var skip int8
	if params.Skippable != nil && *params.Skippable {
		skip = 1
	}

	video := &openrtb2.Video{
		MIMEs:     params.MIMEs,
		Protocols: protocolCodes(params.Protocols),
		Skip:      &skip,
	}
	if size, ok := slot.Sizes.First(); ok {
		video.W = ptrutil.ToPtr(size.W)
		video.H = ptrutil.ToPtr(size.H)
	}

	if err := overlay(video, withDefaults(params.Raw.Pick(videoOptional), videoDefaults)); err != nil {
		return nil, badInput("invalid video params: " + err.Error())
	}
	return video, nil
}
