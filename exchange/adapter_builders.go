package exchange

import (
	"sort"

	"github.com/buzzoola/hbrtb/adapters"
	"github.com/buzzoola/hbrtb/adapters/buzzoola"
)

// The keys must coincide with the bidder codes header-bidding hosts use.
func newAdapterBuilders() map[string]adapters.Builder {
	return map[string]adapters.Builder{
		buzzoola.BidderCode: buzzoola.Builder,
	}
}

// CoreBidderNames lists every bidder the bridge knows how to build.
func CoreBidderNames() []string {
	builders := newAdapterBuilders()
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
