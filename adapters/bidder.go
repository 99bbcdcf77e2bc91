package adapters

import (
	"context"
	"net/http"

	"github.com/buzzoola/hbrtb/config"
	"github.com/buzzoola/hbrtb/hb"
	"github.com/buzzoola/hbrtb/logger"
	"github.com/prebid/openrtb/v20/openrtb2"
)

// Bidders take part in header-bidding auctions on behalf of one exchange.
type Bidder interface {
	// CallBids runs one auction against the exchange.
	//
	// Every slot of the auction ends up as exactly one Outcome pushed to the sink: a parsed
	// bid or a rejection. Failures never escape as fatal errors. The returned errors only
	// describe why some outcomes are "less than ideal", for example:
	//
	// 1. Slots with media types the exchange doesn't serve, or missing required params.
	// 2. HTTP connection issues or a timeout.
	// 3. The exchange sent back markup that could not be decoded.
	CallBids(ctx context.Context, auction *hb.AuctionContext, env *hb.Environment, sink hb.OutcomeSink) []error
}

// HttpBidder is the interface an exchange adapter implements.
//
// Its only responsibility is to translate an auction into one OpenRTB request and the
// exchange's answer back into outcomes. The HTTP exchange itself is owned by AdaptHttpBidder.
type HttpBidder interface {
	// MakeRequests builds the request for the valid slots of the auction.
	//
	// Slots that cannot be translated are returned as rejections. A nil RequestData means
	// there is nothing to send and the auction must not be dispatched.
	MakeRequests(auction *hb.AuctionContext, env *hb.Environment) (*RequestData, []hb.Outcome, []error)

	// MakeBids unpacks the exchange's response into one outcome per imp of the request.
	MakeBids(request *openrtb2.BidRequest, response *ResponseData) ([]hb.Outcome, []error)

	// Reject is the single place no-bid outcomes are produced.
	Reject(bidID, tagID, reason string) hb.Outcome
}

// RequestData packages together the fields needed to make an http.Request.
type RequestData struct {
	Method  string
	Uri     string
	Body    []byte
	Headers http.Header

	// BidRequest is the request Body was encoded from. Responses are matched against its imps.
	BidRequest *openrtb2.BidRequest
}

// ResponseData packages together information from the server's http.Response.
type ResponseData struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// Builder is a function that builds an HttpBidder for the given bidder name and config.
type Builder func(bidderName string, cfg config.Adapter, l logger.Logger) (HttpBidder, error)
