package buzzoola

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/buger/jsonparser"
	"github.com/buzzoola/hbrtb/adapters"
	"github.com/buzzoola/hbrtb/errortypes"
	"github.com/buzzoola/hbrtb/hb"
	"github.com/prebid/openrtb/v20/native1"
	nativeResponse "github.com/prebid/openrtb/v20/native1/response"
	"github.com/prebid/openrtb/v20/openrtb2"
)

const defaultCurrency = "USD"

func (a *adapter) MakeBids(request *openrtb2.BidRequest, responseData *adapters.ResponseData) ([]hb.Outcome, []error) {
	var errs []error

	var response openrtb2.BidResponse
	if responseData.StatusCode != http.StatusNoContent && len(responseData.Body) > 0 {
		if err := json.Unmarshal(responseData.Body, &response); err != nil {
			message := fmt.Sprintf("%s: response to request %s is not a bid response: %v", a.name, request.ID, err)
			a.logger.Warnf("%s", message)
			errs = append(errs, &errortypes.Warning{
				Message:     message,
				WarningKind: errortypes.KindOpaqueResponse,
			})
			response = openrtb2.BidResponse{}
		}
	}

	currency := response.Cur
	if currency == "" {
		currency = defaultCurrency
	}

	bids := make(map[string]*openrtb2.Bid)
	for i := range response.SeatBid {
		seatBid := &response.SeatBid[i]
		for j := range seatBid.Bid {
			bids[seatBid.Bid[j].ImpID] = &seatBid.Bid[j]
		}
	}

	outcomes := make([]hb.Outcome, 0, len(request.Imp))
	for i := range request.Imp {
		imp := &request.Imp[i]
		bid, ok := bids[imp.ID]
		if !ok {
			outcomes = append(outcomes, a.Reject(imp.ID, imp.TagID, adapters.MissingInResponseReason))
			continue
		}

		parsed, err := a.parseBid(bid, imp, currency)
		if err != nil {
			errs = append(errs, err)
		}
		outcomes = append(outcomes, hb.Outcome{
			Status:        hb.StatusGood,
			BidID:         imp.ID,
			PlacementCode: imp.TagID,
			Bid:           parsed,
		})
	}

	return outcomes, errs
}

// parseBid copies the win fields of a bid and decodes its creative. The returned error is
// a warning: the bid is usable even when its creative fields could not be filled.
func (a *adapter) parseBid(bid *openrtb2.Bid, imp *openrtb2.Imp, currency string) (*hb.ParsedBid, error) {
	parsed := &hb.ParsedBid{
		CPM:        bid.Price,
		AdID:       bid.AdID,
		CreativeID: bid.CrID,
		Width:      bid.W,
		Height:     bid.H,
		DealID:     bid.DealID,
		Currency:   currency,
	}

	switch bidMediaType(bid, imp) {
	case hb.MediaTypeVideo:
		parsed.MediaType = hb.MediaTypeVideo
		parsed.VastURL = bid.NURL
	case hb.MediaTypeNative:
		parsed.MediaType = hb.MediaTypeNative
		creative, err := decodeNative(bid.AdM)
		if err != nil {
			message := fmt.Sprintf("%s: could not decode native markup of bid %s: %v", a.name, imp.ID, err)
			a.logger.Warnf("%s", message)
			return parsed, &errortypes.Warning{
				Message:     message,
				WarningKind: errortypes.KindInvalidNativeMarkup,
			}
		}
		parsed.Native = creative
	default:
		message := fmt.Sprintf("%s: could not add format specific params to bid %s with unsupported media type", a.name, imp.ID)
		a.logger.Warnf("%s", message)
		return parsed, &errortypes.Warning{
			Message:     message,
			WarningKind: errortypes.KindUnknownMediaType,
		}
	}
	return parsed, nil
}

// bidMediaType reads the markup type of the bid, then the bidType extension, then falls
// back to the format of the imp the bid answers.
func bidMediaType(bid *openrtb2.Bid, imp *openrtb2.Imp) hb.MediaType {
	switch bid.MType {
	case openrtb2.MarkupVideo:
		return hb.MediaTypeVideo
	case openrtb2.MarkupNative:
		return hb.MediaTypeNative
	case 0:
	default:
		return hb.MediaTypeUnsupported
	}

	if bidType, err := jsonparser.GetString(bid.Ext, "bidType"); err == nil {
		if hb.IsSupportedMediaType(bidType) {
			return hb.MediaType(bidType)
		}
		return hb.MediaTypeUnsupported
	}

	switch {
	case imp.Video != nil:
		return hb.MediaTypeVideo
	case imp.Native != nil:
		return hb.MediaTypeNative
	default:
		return hb.MediaTypeUnsupported
	}
}

// decodeNative reads a native response, bare or wrapped in a "native" object, into the
// flat parameters a renderer consumes.
func decodeNative(adm string) (*hb.NativeCreative, error) {
	markup := []byte(adm)
	if wrapped, dataType, _, err := jsonparser.Get(markup, "native"); err == nil && dataType == jsonparser.Object {
		markup = wrapped
	}

	var response nativeResponse.Response
	if err := json.Unmarshal(markup, &response); err != nil {
		return nil, err
	}

	assets := make(map[int64]*nativeResponse.Asset, len(response.Assets))
	for i := range response.Assets {
		if id := response.Assets[i].ID; id != nil {
			assets[*id] = &response.Assets[i]
		}
	}

	creative := &hb.NativeCreative{
		ImpressionTrackers: []string{},
	}
	if asset := assets[nativeAssetTitle]; asset != nil && asset.Title != nil {
		creative.Title = asset.Title.Text
	}
	if asset := assets[nativeAssetImage]; asset != nil && asset.Img != nil {
		creative.Image = asset.Img.URL
	}
	if asset := assets[nativeAssetSponsor]; asset != nil && asset.Data != nil {
		creative.SponsoredBy = asset.Data.Value
	}
	if asset := assets[nativeAssetClickURL]; asset != nil && asset.Data != nil {
		creative.ClickURL = asset.Data.Value
	}
	if asset := assets[nativeAssetBody]; asset != nil && asset.Data != nil {
		creative.Body = asset.Data.Value
	}
	if asset := assets[nativeAssetIcon]; asset != nil && asset.Img != nil {
		creative.Icon = asset.Img.URL
	}

	for _, tracker := range response.EventTrackers {
		if tracker.Event == native1.EventTypeImpression && tracker.Method == native1.EventTrackingMethodImage {
			creative.ImpressionTrackers = append(creative.ImpressionTrackers, tracker.URL)
		}
	}
	return creative, nil
}
