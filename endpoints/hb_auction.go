package endpoints

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/buzzoola/hbrtb/adapters"
	"github.com/buzzoola/hbrtb/errortypes"
	"github.com/buzzoola/hbrtb/hb"
	"github.com/buzzoola/hbrtb/logger"
	"github.com/gofrs/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/text/language"
)

//go:embed schema/hb_auction.json
var hbAuctionSchema []byte

const maxRequestSize = 512 * 1024

type hbAuctionRequest struct {
	Auction     *hb.AuctionContext `json:"auction"`
	Environment *hb.Environment    `json:"environment,omitempty"`
}

type hbAuctionResponse struct {
	BidderRequestID string                  `json:"bidderRequestId"`
	Outcomes        map[string][]hb.Outcome `json:"outcomes"`
	Warnings        []string                `json:"warnings,omitempty"`
	Errors          []string                `json:"errors,omitempty"`
}

type hbAuctionError struct {
	Errors []string `json:"errors"`
}

type hbAuction struct {
	bidders         map[string]adapters.Bidder
	disabledBidders map[string]string
	defaultBidder   string
	schema          *gojsonschema.Schema
	newID           func() (uuid.UUID, error)
}

// NewHBAuctionEndpoint implements POST /hb/auction, the callBids entry point of the
// header-bidding host.
//
// Auctions without a bidderCode go to defaultBidder.
func NewHBAuctionEndpoint(bidders map[string]adapters.Bidder, disabledBidders map[string]string, defaultBidder string) (httprouter.Handle, error) {
	a, err := newHBAuction(bidders, disabledBidders, defaultBidder)
	if err != nil {
		return nil, err
	}
	return a.handle, nil
}

func newHBAuction(bidders map[string]adapters.Bidder, disabledBidders map[string]string, defaultBidder string) (*hbAuction, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(hbAuctionSchema))
	if err != nil {
		return nil, fmt.Errorf("unable to load auction request schema: %v", err)
	}

	return &hbAuction{
		bidders:         bidders,
		disabledBidders: disabledBidders,
		defaultBidder:   defaultBidder,
		schema:          schema,
		newID:           uuid.NewV4,
	}, nil
}

func (a *hbAuction) handle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/json")

	req, errs := a.parseRequest(r)
	if len(errs) > 0 {
		writeErrors(w, http.StatusBadRequest, errs)
		return
	}

	bidderCode := strings.ToLower(req.Auction.BidderCode)
	if bidderCode == "" {
		bidderCode = a.defaultBidder
	}
	if msg, disabled := a.disabledBidders[bidderCode]; disabled {
		writeErrors(w, http.StatusBadRequest, []error{&errortypes.BadInput{Message: msg}})
		return
	}
	bidder, ok := a.bidders[bidderCode]
	if !ok {
		writeErrors(w, http.StatusBadRequest, []error{&errortypes.BadInput{Message: fmt.Sprintf("unknown bidder %q", bidderCode)}})
		return
	}

	env := fillEnvironment(req.Environment, r)
	if req.Auction.BidderRequestID == "" {
		id, err := a.newID()
		if err != nil {
			logger.Errorf("failed to generate a bidder request id: %v", err)
			writeErrors(w, http.StatusInternalServerError, []error{err})
			return
		}
		req.Auction.BidderRequestID = id.String()
	}

	collector := &hb.OutcomeCollector{}
	bidErrs := bidder.CallBids(r.Context(), req.Auction, env, collector)

	fatal, warnings := errortypes.Split(bidErrs)
	for _, err := range fatal {
		logger.Debugf("auction %s: %s: %v", req.Auction.BidderRequestID, errortypes.KindOf(err), err)
	}

	resp := hbAuctionResponse{
		BidderRequestID: req.Auction.BidderRequestID,
		Outcomes:        collector.ByPlacementCode(),
		Warnings:        errorMessages(warnings),
		Errors:          errorMessages(fatal),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *hbAuction) parseRequest(r *http.Request) (*hbAuctionRequest, []error) {
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize+1))
	if err != nil {
		return nil, []error{fmt.Errorf("unable to read request body: %v", err)}
	}
	if len(body) > maxRequestSize {
		return nil, []error{&errortypes.BadInput{Message: fmt.Sprintf("request size exceeds max size of %d bytes", maxRequestSize)}}
	}

	result, err := a.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, []error{&errortypes.BadInput{Message: fmt.Sprintf("error parsing json: %v", err)}}
	}
	if !result.Valid() {
		errs := make([]error, 0, len(result.Errors()))
		for _, resultErr := range result.Errors() {
			errs = append(errs, &errortypes.BadInput{Message: resultErr.String()})
		}
		return nil, errs
	}

	var req hbAuctionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, []error{&errortypes.BadInput{Message: fmt.Sprintf("error decoding auction: %v", err)}}
	}
	return &req, nil
}

// fillEnvironment completes the page context with what the browser sent along with the
// call. Explicit values always win.
func fillEnvironment(env *hb.Environment, r *http.Request) *hb.Environment {
	filled := hb.Environment{}
	if env != nil {
		filled = *env
	}

	if filled.UserAgent == "" {
		filled.UserAgent = r.Header.Get("User-Agent")
	}
	if filled.Page == "" {
		filled.Page = r.Header.Get("Referer")
	}
	if filled.Language == "" {
		filled.Language = preferredLanguage(r.Header.Get("Accept-Language"))
	}
	if filled.DoNotTrack == "" {
		filled.DoNotTrack = r.Header.Get("DNT")
	}
	filled.Cookie = r.Header.Get("Cookie")
	return &filled
}

// preferredLanguage picks the highest weighted tag of an Accept-Language header.
func preferredLanguage(header string) string {
	if header == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}

func errorMessages(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	return messages
}

func writeErrors(w http.ResponseWriter, status int, errs []error) {
	writeJSON(w, status, hbAuctionError{Errors: errorMessages(errs)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Errorf("failed to marshal auction response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		logger.Errorf("error writing response to /hb/auction: %v", err)
	}
}
