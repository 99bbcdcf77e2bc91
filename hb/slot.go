package hb

import (
	"encoding/json"
	"fmt"
)

// BidSlot is one ad placement submitted into an auction. Slots are never modified
// once received.
type BidSlot struct {
	BidID           string        `json:"bidId"`
	Bidder          string        `json:"bidder,omitempty"`
	BidderRequestID string        `json:"bidderRequestId,omitempty"`
	PlacementCode   string        `json:"placementCode"`
	TransactionID   string        `json:"transactionId,omitempty"`
	Sizes           Sizes         `json:"sizes,omitempty"`
	MediaType       string        `json:"mediaType,omitempty"`
	NativeParams    *NativeParams `json:"nativeParams,omitempty"`
	Params          *BidderParams `json:"params,omitempty"`

	err error
}

func (s *BidSlot) UnmarshalJSON(b []byte) error {
	type bidSlot BidSlot
	var slot bidSlot
	if err := json.Unmarshal(b, &slot); err == nil {
		*s = BidSlot(slot)
		return nil
	}

	// Some field does not fit. Decode them one at a time so the slot keeps its
	// identity and can still be answered with a rejection.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	decoded := BidSlot{}
	for _, field := range []struct {
		key    string
		target any
	}{
		{"bidId", &decoded.BidID},
		{"bidder", &decoded.Bidder},
		{"bidderRequestId", &decoded.BidderRequestID},
		{"placementCode", &decoded.PlacementCode},
		{"transactionId", &decoded.TransactionID},
		{"sizes", &decoded.Sizes},
		{"mediaType", &decoded.MediaType},
		{"nativeParams", &decoded.NativeParams},
		{"params", &decoded.Params},
	} {
		value, ok := fields[field.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, field.target); err != nil && decoded.err == nil {
			decoded.err = fmt.Errorf("invalid %s: %v", field.key, err)
		}
	}

	*s = decoded
	return nil
}

// Err reports the first part of the slot that could not be decoded. Such a slot is
// rejected on its own while the rest of the auction proceeds.
func (s *BidSlot) Err() error {
	if s.err != nil {
		return s.err
	}
	if err := s.Params.Err(); err != nil {
		return fmt.Errorf("invalid bid params: %v", err)
	}
	return nil
}

// AuctionContext is the set of slots of one auction, as handed over by the host framework.
type AuctionContext struct {
	AuctionID       string `json:"auctionId,omitempty"`
	RequestID       string `json:"requestId,omitempty"`
	BidderCode      string `json:"bidderCode,omitempty"`
	BidderRequestID string `json:"bidderRequestId"`
	// Timeout is the auction timeout in milliseconds.
	Timeout int64 `json:"timeout,omitempty"`
	// AuctionStart is a Unix timestamp in milliseconds.
	AuctionStart int64     `json:"auctionStart,omitempty"`
	Bids         []BidSlot `json:"bids"`
}

// Environment is the page and client state the Site and Device objects are derived from.
// It is supplied explicitly with every auction.
type Environment struct {
	Page         string   `json:"page,omitempty"`
	Domain       string   `json:"domain,omitempty"`
	Referrer     string   `json:"referrer,omitempty"`
	UserAgent    string   `json:"userAgent,omitempty"`
	ScreenWidth  int64    `json:"screenWidth,omitempty"`
	ScreenHeight int64    `json:"screenHeight,omitempty"`
	InnerWidth   int64    `json:"innerWidth,omitempty"`
	InnerHeight  int64    `json:"innerHeight,omitempty"`
	Language     string   `json:"language,omitempty"`
	DoNotTrack   string   `json:"doNotTrack,omitempty"`
	PixelRatio   *float64 `json:"pixelRatio,omitempty"`

	// Cookie is forwarded to the exchange so the request carries the user's credentials.
	Cookie string `json:"-"`
}

// ViewportWidth is the screen width, falling back to the inner window width.
func (e *Environment) ViewportWidth() int64 {
	if e.ScreenWidth != 0 {
		return e.ScreenWidth
	}
	return e.InnerWidth
}

// ViewportHeight is the screen height, falling back to the inner window height.
func (e *Environment) ViewportHeight() int64 {
	if e.ScreenHeight != 0 {
		return e.ScreenHeight
	}
	return e.InnerHeight
}
