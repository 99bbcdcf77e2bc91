package adapters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/buzzoola/hbrtb/errortypes"
	"github.com/buzzoola/hbrtb/hb"
	"github.com/buzzoola/hbrtb/logger"
	"github.com/buzzoola/hbrtb/metrics"
	"github.com/buzzoola/hbrtb/util/timeutil"
	"github.com/prebid/openrtb/v20/openrtb2"
	"golang.org/x/net/context/ctxhttp"
)

const transportErrorReason = "transport error: "

// Transport error classes carried in rejection reasons.
const (
	ErrorClassTimeout  = "timeout"
	ErrorClassCanceled = "canceled"
	ErrorClassNetwork  = "network"
)

// maxTimeout caps the exchange call whatever timeout the auction asks for.
const maxTimeout = time.Minute

// AdaptHttpBidder bridges the APIs between a Bidder and an HttpBidder.
//
// defaultTimeout bounds the exchange call of auctions that carry no timeout of their own.
func AdaptHttpBidder(bidder HttpBidder, client *http.Client, me metrics.MetricsEngine, clock timeutil.Time, l logger.Logger, defaultTimeout time.Duration) Bidder {
	if l == nil {
		l = logger.Default()
	}
	return &bidderAdapter{
		Bidder:         bidder,
		Client:         client,
		me:             me,
		clock:          clock,
		logger:         l,
		defaultTimeout: defaultTimeout,
	}
}

type bidderAdapter struct {
	Bidder         HttpBidder
	Client         *http.Client
	me             metrics.MetricsEngine
	clock          timeutil.Time
	logger         logger.Logger
	defaultTimeout time.Duration
}

func (bidder *bidderAdapter) CallBids(ctx context.Context, auction *hb.AuctionContext, env *hb.Environment, sink hb.OutcomeSink) []error {
	start := bidder.clock.Now()

	reqData, rejections, errs := bidder.Bidder.MakeRequests(auction, env)
	bidder.push(sink, rejections)

	if reqData == nil {
		status := metrics.RequestStatusNoValidImps
		if errortypes.ContainsFatalError(errs) && len(rejections) < len(auction.Bids) {
			status = metrics.RequestStatusBadInput
		}
		bidder.recordRequest(status, start)
		return errs
	}
	bidder.recordImps(reqData.BidRequest)

	ctx, cancel := context.WithTimeout(ctx, bidder.timeout(auction))
	defer cancel()

	httpInfo := bidder.doRequest(ctx, reqData)
	if httpInfo.err != nil {
		bidder.logger.Errorf("exchange call for request %s failed: %v", reqData.BidRequest.ID, httpInfo.err)
		bidder.me.RecordTransportError(httpInfo.errorClass)

		outcomes := make([]hb.Outcome, 0, len(reqData.BidRequest.Imp))
		for _, imp := range reqData.BidRequest.Imp {
			outcomes = append(outcomes, bidder.Bidder.Reject(imp.ID, imp.TagID, transportErrorReason+httpInfo.errorClass))
		}
		bidder.push(sink, outcomes)
		bidder.recordRequest(metrics.RequestStatusTransportError, start)
		return append(errs, httpInfo.err)
	}

	outcomes, moreErrs := bidder.Bidder.MakeBids(reqData.BidRequest, httpInfo.response)
	bidder.push(sink, outcomes)
	bidder.recordRequest(metrics.RequestStatusOK, start)
	return append(errs, moreErrs...)
}

func (bidder *bidderAdapter) timeout(auction *hb.AuctionContext) time.Duration {
	switch {
	case auction.Timeout <= 0:
		return bidder.defaultTimeout
	case auction.Timeout >= maxTimeout.Milliseconds():
		return maxTimeout
	default:
		return time.Duration(auction.Timeout) * time.Millisecond
	}
}

func (bidder *bidderAdapter) push(sink hb.OutcomeSink, outcomes []hb.Outcome) {
	for _, outcome := range outcomes {
		sink.AddBidResponse(outcome.PlacementCode, outcome)
		bidder.recordOutcome(outcome)
	}
}

// doRequest makes a request, handles the response, and returns the data needed by the
// HttpBidder interface.
func (bidder *bidderAdapter) doRequest(ctx context.Context, req *RequestData) *httpCallInfo {
	httpReq, err := http.NewRequest(req.Method, req.Uri, bytes.NewBuffer(req.Body))
	if err != nil {
		return &httpCallInfo{
			request:    req,
			err:        &errortypes.FailedToRequestBids{Message: err.Error()},
			errorClass: ErrorClassNetwork,
		}
	}
	httpReq.Header = req.Headers

	httpResp, err := ctxhttp.Do(ctx, bidder.Client, httpReq)
	if err != nil {
		class := transportErrorClass(err)
		if class == ErrorClassTimeout {
			err = &errortypes.Timeout{Message: err.Error()}
		} else {
			err = &errortypes.FailedToRequestBids{Message: err.Error()}
		}
		return &httpCallInfo{
			request:    req,
			err:        err,
			errorClass: class,
		}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return &httpCallInfo{
			request:    req,
			err:        &errortypes.FailedToRequestBids{Message: err.Error()},
			errorClass: transportErrorClass(err),
		}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return &httpCallInfo{
			request: req,
			err: &errortypes.BadServerResponse{
				Message: fmt.Sprintf("Server responded with failure status: %d.", httpResp.StatusCode),
			},
			errorClass: fmt.Sprintf("status %d", httpResp.StatusCode),
		}
	}

	return &httpCallInfo{
		request: req,
		response: &ResponseData{
			StatusCode: httpResp.StatusCode,
			Body:       respBody,
			Headers:    httpResp.Header,
		},
	}
}

type httpCallInfo struct {
	request    *RequestData
	response   *ResponseData
	err        error
	errorClass string
}

type timeoutError interface {
	Timeout() bool
}

// transportErrorClass names the kind of failure reported by the HTTP client.
func transportErrorClass(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrorClassCanceled
	}
	var te timeoutError
	if errors.As(err, &te) && te.Timeout() {
		return ErrorClassTimeout
	}
	return ErrorClassNetwork
}

func (bidder *bidderAdapter) recordRequest(status metrics.RequestStatus, start time.Time) {
	labels := metrics.Labels{RequestStatus: status}
	bidder.me.RecordRequest(labels)
	bidder.me.RecordRequestTime(labels, bidder.clock.Now().Sub(start))
}

func (bidder *bidderAdapter) recordImps(request *openrtb2.BidRequest) {
	counts := make(map[hb.MediaType]int, len(hb.SupportedMediaTypes))
	for _, imp := range request.Imp {
		switch {
		case imp.Video != nil:
			counts[hb.MediaTypeVideo]++
		case imp.Native != nil:
			counts[hb.MediaTypeNative]++
		}
	}
	for _, mediaType := range hb.SupportedMediaTypes {
		if counts[mediaType] > 0 {
			bidder.me.RecordImps(metrics.ImpLabels{MediaType: string(mediaType)}, counts[mediaType])
		}
	}
}

func (bidder *bidderAdapter) recordOutcome(outcome hb.Outcome) {
	if !outcome.IsRejection() {
		bidder.me.RecordOutcome(metrics.OutcomeLabels{Status: metrics.OutcomeBid, RejectReason: metrics.RejectReasonNone})
		if outcome.Bid != nil && outcome.Bid.MediaType != "" {
			bidder.me.RecordBidPrice(metrics.ImpLabels{MediaType: string(outcome.Bid.MediaType)}, outcome.Bid.CPM)
		}
		return
	}
	bidder.me.RecordOutcome(metrics.OutcomeLabels{Status: metrics.OutcomeNoBid, RejectReason: rejectReason(outcome.Reason)})
}

// MissingInResponseReason is the reason of imps the exchange did not answer.
const MissingInResponseReason = "missing in response"

func rejectReason(reason string) metrics.RejectReason {
	switch {
	case reason == MissingInResponseReason:
		return metrics.RejectReasonMissingInResponse
	case strings.HasPrefix(reason, transportErrorReason):
		return metrics.RejectReasonTransportError
	default:
		return metrics.RejectReasonInvalidSlot
	}
}
