package buzzoola

import (
	"encoding/json"

	"github.com/buzzoola/hbrtb/hb"
	"github.com/prebid/openrtb/v20/native1"
	nativeRequests "github.com/prebid/openrtb/v20/native1/request"
	"github.com/prebid/openrtb/v20/openrtb2"
)

const (
	nativeVersion       = "1.2"
	defaultTitleLength  = 140
	nativeAssetTitle    = 0
	nativeAssetImage    = 1
	nativeAssetSponsor  = 2
	nativeAssetClickURL = 3
	nativeAssetBody     = 4
	nativeAssetIcon     = 5
)

// nativeOptional are the keys of the native params copied verbatim onto the native object.
var nativeOptional = []string{
	"ver",
	"api",
	"battr",
	"ext",
}

// imageAdParams replace the native params of slots that only declare a type.
var imageAdParams = hb.NativeParams{
	Title:       &hb.NativeAssetParams{Required: true},
	SponsoredBy: &hb.NativeAssetParams{Required: true},
	Image:       &hb.NativeAssetParams{Required: true},
	ClickURL:    &hb.NativeAssetParams{Required: true},
	Body:        &hb.NativeAssetParams{Required: false},
	Icon:        &hb.NativeAssetParams{Required: false},
}

// buildNative produces the native object of a validated native slot. placementIndex is
// the position of the slot among the native slots of its auction.
func buildNative(slot *hb.BidSlot, env *hb.Environment, placementIndex int) (*openrtb2.Native, error) {
	var optional hb.RawParams
	var format *hb.NativeFormatParams
	if slot.Params != nil && slot.Params.Native != nil {
		format = slot.Params.Native
		optional = format.Raw.Pick(nativeOptional)
	}

	request := nativeRequests.Request{
		Ver:      nativeVersion,
		PlcmtCnt: int64(placementIndex),
		Seq:      0,
		Assets:   nativeAssets(slot, env),
		EventTrackers: []nativeRequests.EventTracker{{
			Event:   native1.EventTypeImpression,
			Methods: []native1.EventTrackingMethod{native1.EventTrackingMethodImage},
		}},
		Privacy: 0,
	}
	if format != nil {
		if format.Context != nil {
			request.Context = native1.ContextType(*format.Context)
		}
		if format.ContextSubType != nil {
			request.ContextSubType = native1.ContextSubType(*format.ContextSubType)
		}
		if format.PlacementType != nil {
			request.PlcmtType = native1.PlacementType(*format.PlacementType)
		}
	}
	if err := overlay(&request, optional); err != nil {
		return nil, badInput("invalid native params: " + err.Error())
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, badInput("invalid native params: " + err.Error())
	}

	native := &openrtb2.Native{
		Request: string(payload),
		Ver:     nativeVersion,
	}
	if err := overlay(native, optional); err != nil {
		return nil, badInput("invalid native params: " + err.Error())
	}
	return native, nil
}

// nativeAssets lists the six assets every native request carries, in id order.
func nativeAssets(slot *hb.BidSlot, env *hb.Environment) []nativeRequests.Asset {
	params := slot.NativeParams
	if params.IsTypeShorthand() {
		params = &imageAdParams
	}
	if params == nil {
		params = &hb.NativeParams{}
	}

	titleLength := int64(defaultTitleLength)
	if params.Title != nil && params.Title.Len > 0 {
		titleLength = params.Title.Len
	}

	width := env.ViewportWidth()
	image := &nativeRequests.Image{
		Type: native1.ImageAssetTypeMain,
		W:    width,
		H:    width * 9 / 16,
	}
	if size, ok := slot.Sizes.First(); ok {
		image.W = size.W
		image.H = size.H
	}

	return []nativeRequests.Asset{
		{
			ID:       nativeAssetTitle,
			Required: 1,
			Title:    &nativeRequests.Title{Len: titleLength},
		},
		{
			ID:       nativeAssetImage,
			Required: 1,
			Img:      image,
		},
		{
			ID:       nativeAssetSponsor,
			Required: 1,
			Data:     &nativeRequests.Data{Type: native1.DataAssetTypeSponsored},
		},
		{
			ID:       nativeAssetClickURL,
			Required: 1,
			Data:     &nativeRequests.Data{Type: native1.DataAssetTypeDispayURL},
		},
		{
			ID:       nativeAssetBody,
			Required: requiredFlag(params.Body),
			Data:     &nativeRequests.Data{Type: native1.DataAssetTypeDesc},
		},
		{
			ID:       nativeAssetIcon,
			Required: requiredFlag(params.Icon),
			Img:      &nativeRequests.Image{Type: native1.ImageAssetTypeIcon},
		},
	}
}

func requiredFlag(asset *hb.NativeAssetParams) int8 {
	if asset != nil && asset.Required {
		return 1
	}
	return 0
}
