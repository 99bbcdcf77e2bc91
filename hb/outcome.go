package hb

import "sync"

// BidStatus tells the host framework whether an outcome carries a usable bid.
type BidStatus int

const (
	StatusGood  BidStatus = 1
	StatusNoBid BidStatus = 2
)

// Outcome is the single result produced for every bid slot of an auction:
// either a parsed bid or a rejection.
type Outcome struct {
	Status        BidStatus  `json:"status"`
	BidID         string     `json:"bidId"`
	PlacementCode string     `json:"placementCode"`
	Reason        string     `json:"reason,omitempty"`
	Bid           *ParsedBid `json:"bid,omitempty"`
}

// IsRejection reports whether the outcome is a no-bid.
func (o Outcome) IsRejection() bool {
	return o.Status == StatusNoBid
}

// ParsedBid is a bid returned by the exchange, translated back to header-bidding terms.
type ParsedBid struct {
	CPM        float64         `json:"cpm"`
	AdID       string          `json:"adId,omitempty"`
	CreativeID string          `json:"creativeId,omitempty"`
	Width      int64           `json:"width,omitempty"`
	Height     int64           `json:"height,omitempty"`
	DealID     string          `json:"dealId,omitempty"`
	Currency   string          `json:"currency,omitempty"`
	MediaType  MediaType       `json:"mediaType,omitempty"`
	VastURL    string          `json:"vastUrl,omitempty"`
	Native     *NativeCreative `json:"native,omitempty"`
}

// NativeCreative is the flat parameter set a native renderer consumes.
type NativeCreative struct {
	Title              string   `json:"title,omitempty"`
	Image              string   `json:"image,omitempty"`
	SponsoredBy        string   `json:"sponsoredBy,omitempty"`
	ClickURL           string   `json:"clickUrl,omitempty"`
	Body               string   `json:"body,omitempty"`
	Icon               string   `json:"icon,omitempty"`
	ImpressionTrackers []string `json:"impressionTrackers"`
}

// OutcomeSink receives outcomes keyed by placement code. It is the host framework's
// bid-result store.
type OutcomeSink interface {
	AddBidResponse(placementCode string, outcome Outcome)
}

// OutcomeCollector is an OutcomeSink that keeps outcomes in arrival order.
// It is safe for concurrent use.
type OutcomeCollector struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (c *OutcomeCollector) AddBidResponse(placementCode string, outcome Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	outcome.PlacementCode = placementCode
	c.outcomes = append(c.outcomes, outcome)
}

// Outcomes returns a copy of the collected outcomes.
func (c *OutcomeCollector) Outcomes() []Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	outcomes := make([]Outcome, len(c.outcomes))
	copy(outcomes, c.outcomes)
	return outcomes
}

// ByPlacementCode groups the collected outcomes by placement code.
func (c *OutcomeCollector) ByPlacementCode() map[string][]Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	grouped := make(map[string][]Outcome, len(c.outcomes))
	for _, outcome := range c.outcomes {
		grouped[outcome.PlacementCode] = append(grouped[outcome.PlacementCode], outcome)
	}
	return grouped
}
