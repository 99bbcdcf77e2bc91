package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/buzzoola/hbrtb/errortypes"
	"github.com/buzzoola/hbrtb/hb"
	"github.com/prebid/openrtb/v20/openrtb2"
)

const siteNotSupported = "this bidder does not support site requests"

// InfoAwareBidder wraps an HttpBidder to ensure all requests abide by the capabilities and
// media types defined in the static/bidder-info/{bidder}.yaml file.
//
// It adjusts requests in the following ways:
//  1. If site traffic is not supported by the info file, every slot is rejected before the
//     delegate is called.
//  2. Imps whose media type is not supported are removed from the delegate's request and
//     rejected.
//  3. If there are no imps left, nothing is sent.
type InfoAwareBidder struct {
	HttpBidder
	info parsedSupports
}

// BuildInfoAwareBidder wraps a bidder to enforce site and media type support.
func BuildInfoAwareBidder(bidder HttpBidder, info BidderInfo) HttpBidder {
	return &InfoAwareBidder{
		HttpBidder: bidder,
		info:       parseBidderInfo(info),
	}
}

func (i *InfoAwareBidder) MakeRequests(auction *hb.AuctionContext, env *hb.Environment) (*RequestData, []hb.Outcome, []error) {
	if !i.info.enabled {
		rejections := make([]hb.Outcome, 0, len(auction.Bids))
		for _, slot := range auction.Bids {
			rejections = append(rejections, i.Reject(slot.BidID, slot.PlacementCode, siteNotSupported))
		}
		return nil, rejections, []error{&errortypes.Warning{Message: siteNotSupported, WarningKind: errortypes.KindNoValidImpressions}}
	}

	reqData, rejections, errs := i.HttpBidder.MakeRequests(auction, env)
	if reqData == nil || reqData.BidRequest == nil {
		return reqData, rejections, errs
	}

	imps, pruned, pruneErrs := i.pruneImps(reqData.BidRequest.Imp)
	if len(pruned) == 0 {
		return reqData, rejections, errs
	}
	rejections = append(rejections, pruned...)
	errs = append(errs, pruneErrs...)

	if len(imps) == 0 {
		return nil, rejections, append(errs, &errortypes.Warning{Message: "Bid request didn't contain media types supported by the bidder", WarningKind: errortypes.KindNoValidImpressions})
	}

	reqData.BidRequest.Imp = imps
	body, err := json.Marshal(reqData.BidRequest)
	if err != nil {
		return nil, rejections, append(errs, &errortypes.FailedToRequestBids{Message: err.Error()})
	}
	reqData.Body = body
	return reqData, rejections, errs
}

// pruneImps splits imps into the ones the bidder serves and rejections for the rest.
func (i *InfoAwareBidder) pruneImps(imps []openrtb2.Imp) ([]openrtb2.Imp, []hb.Outcome, []error) {
	var (
		kept     = make([]openrtb2.Imp, 0, len(imps))
		rejected []hb.Outcome
		errs     []error
	)

	for index, imp := range imps {
		mediaType := impMediaType(&imp)
		if i.info.allows(mediaType) {
			kept = append(kept, imp)
			continue
		}
		reason := fmt.Sprintf("%s is not supported by this bidder", mediaType)
		rejected = append(rejected, i.Reject(imp.ID, imp.TagID, reason))
		errs = append(errs, &errortypes.BadInput{Message: fmt.Sprintf("request.imp[%d] uses %s, but this bidder doesn't support it", index, mediaType)})
	}
	return kept, rejected, errs
}

func impMediaType(imp *openrtb2.Imp) hb.MediaType {
	switch {
	case imp.Video != nil:
		return hb.MediaTypeVideo
	case imp.Native != nil:
		return hb.MediaTypeNative
	default:
		return hb.MediaTypeUnsupported
	}
}

// Parsed once so requests don't rescan the info file's lists.
type parsedSupports struct {
	enabled bool
	video   bool
	native  bool
}

func (s parsedSupports) allows(mediaType hb.MediaType) bool {
	switch mediaType {
	case hb.MediaTypeVideo:
		return s.video
	case hb.MediaTypeNative:
		return s.native
	default:
		return false
	}
}

func parseBidderInfo(info BidderInfo) parsedSupports {
	var parsed parsedSupports
	if info.Capabilities == nil || info.Capabilities.Site == nil {
		return parsed
	}

	parsed.enabled = true
	parsed.video = containsMediaType(info.Capabilities.Site.MediaTypes, hb.MediaTypeVideo)
	parsed.native = containsMediaType(info.Capabilities.Site.MediaTypes, hb.MediaTypeNative)
	return parsed
}
