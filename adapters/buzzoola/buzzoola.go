package buzzoola

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/buzzoola/hbrtb/adapters"
	"github.com/buzzoola/hbrtb/config"
	"github.com/buzzoola/hbrtb/errortypes"
	"github.com/buzzoola/hbrtb/hb"
	"github.com/buzzoola/hbrtb/logger"
	"github.com/prebid/openrtb/v20/openrtb2"
)

// BidderCode is the code hosts address the exchange by.
const BidderCode = "buzzoola"

const (
	auctionTypeFirstPrice = 1
	openRTBVersion        = "2.5"
)

type adapter struct {
	name     string
	endpoint string
	logger   logger.Logger
}

// Builder builds a new instance of the Buzzoola adapter for the given bidder with the given config.
func Builder(bidderName string, cfg config.Adapter, l logger.Logger) (adapters.HttpBidder, error) {
	if l == nil {
		l = logger.Default()
	}

	bidder := &adapter{
		name:     bidderName,
		endpoint: cfg.Endpoint,
		logger:   l,
	}
	return bidder, nil
}

func (a *adapter) MakeRequests(auction *hb.AuctionContext, env *hb.Environment) (*adapters.RequestData, []hb.Outcome, []error) {
	if env == nil {
		env = &hb.Environment{}
	}

	var (
		imps       = make([]openrtb2.Imp, 0, len(auction.Bids))
		rejections []hb.Outcome
		errs       []error
	)

	nativeCount := 0
	for i := range auction.Bids {
		slot := &auction.Bids[i]
		mediaType := mediaType(slot)

		placementIndex := 0
		if mediaType == hb.MediaTypeNative {
			placementIndex = nativeCount
			nativeCount++
		}

		imp, err := buildImp(slot, mediaType, env, placementIndex)
		if err != nil {
			rejections = append(rejections, a.Reject(slot.BidID, slot.PlacementCode, err.Error()))
			errs = append(errs, err)
			continue
		}
		imps = append(imps, *imp)
	}

	if len(imps) == 0 {
		message := fmt.Sprintf("%s: could not handle bid request %s (no valid bids)", a.name, auction.RequestID)
		a.logger.Warnf("%s", message)
		errs = append(errs, &errortypes.Warning{
			Message:     message,
			WarningKind: errortypes.KindNoValidImpressions,
		})
		return nil, rejections, errs
	}

	request := &openrtb2.BidRequest{
		ID:     auction.BidderRequestID,
		Imp:    imps,
		Site:   siteFromEnv(env),
		Device: deviceFromEnv(env),
		AT:     auctionTypeFirstPrice,
		TMax:   max(auction.Timeout, 0),
	}

	body, err := json.Marshal(request)
	if err != nil {
		for _, imp := range imps {
			rejections = append(rejections, a.Reject(imp.ID, imp.TagID, "could not encode bid request"))
		}
		return nil, rejections, append(errs, &errortypes.FailedToRequestBids{Message: err.Error()})
	}

	headers := http.Header{}
	headers.Add("Content-Type", "application/json;charset=utf-8")
	headers.Add("Accept", "application/json")
	headers.Add("X-Openrtb-Version", openRTBVersion)
	if env.Cookie != "" {
		headers.Add("Cookie", env.Cookie)
	}

	return &adapters.RequestData{
		Method:     http.MethodPost,
		Uri:        a.endpoint,
		Body:       body,
		Headers:    headers,
		BidRequest: request,
	}, rejections, errs
}

// Reject produces the no-bid outcome of a slot and logs why it was rejected.
func (a *adapter) Reject(bidID, tagID, reason string) hb.Outcome {
	if reason == "" {
		reason = "unknown"
	}
	a.logger.Warnf("%s: could not handle bid %s (%s)", a.name, bidID, reason)

	return hb.Outcome{
		Status:        hb.StatusNoBid,
		BidID:         bidID,
		PlacementCode: tagID,
		Reason:        reason,
	}
}
