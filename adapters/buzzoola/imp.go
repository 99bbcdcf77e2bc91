package buzzoola

import (
	"github.com/buzzoola/hbrtb/hb"
	"github.com/buzzoola/hbrtb/util/ptrutil"
	"github.com/prebid/openrtb/v20/openrtb2"
)

// impOptional are the keys of the bidder params copied verbatim onto the imp.
var impOptional = []string{
	"metric",
	"pmp",
	"displaymanager",
	"displaymanagerver",
	"clickbrowser",
	"secure",
	"iframebuster",
	"exp",
	"ext",
}

// buildImp turns a slot into an imp, or returns the reason it cannot be one.
func buildImp(slot *hb.BidSlot, mediaType hb.MediaType, env *hb.Environment, placementIndex int) (*openrtb2.Imp, error) {
	if mediaType == hb.MediaTypeUnsupported {
		return nil, badInput(unsupportedMediaTypeReason)
	}
	if err := validateSlot(slot, mediaType); err != nil {
		return nil, err
	}

	params := slot.Params
	imp := &openrtb2.Imp{
		ID:          slot.BidID,
		TagID:       slot.PlacementCode,
		BidFloor:    *params.BidFloor,
		BidFloorCur: *params.BidFloorCur,
		Instl:       ptrutil.ValueOrDefault(params.Instl),
	}

	var err error
	switch mediaType {
	case hb.MediaTypeVideo:
		imp.Video, err = buildVideo(slot)
	case hb.MediaTypeNative:
		imp.Native, err = buildNative(slot, env, placementIndex)
	}
	if err != nil {
		return nil, err
	}

	if err := overlay(imp, params.Raw.Pick(impOptional)); err != nil {
		return nil, badInput("invalid bid params: " + err.Error())
	}
	return imp, nil
}
