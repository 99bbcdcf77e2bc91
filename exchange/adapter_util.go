package exchange

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/buzzoola/hbrtb/adapters"
	"github.com/buzzoola/hbrtb/config"
	"github.com/buzzoola/hbrtb/logger"
	"github.com/buzzoola/hbrtb/metrics"
	"github.com/buzzoola/hbrtb/util/timeutil"
)

// BuildAdapters builds every enabled bidder and wraps it for dispatch.
func BuildAdapters(client *http.Client, cfg *config.Configuration, infos adapters.BidderInfos, me metrics.MetricsEngine, clock timeutil.Time) (map[string]adapters.Bidder, []error) {
	bidders, errs := buildBidders(cfg.Adapters, infos, newAdapterBuilders())
	if len(errs) > 0 {
		return nil, errs
	}

	adaptedBidders := make(map[string]adapters.Bidder, len(bidders))
	for bidderName, bidder := range bidders {
		adaptedBidders[bidderName] = adapters.AdaptHttpBidder(bidder, client, me, clock, logger.Default(), cfg.DefaultTimeoutDuration())
	}
	return adaptedBidders, nil
}

func buildBidders(adapterCfgs map[string]config.Adapter, infos adapters.BidderInfos, builders map[string]adapters.Builder) (map[string]adapters.HttpBidder, []error) {
	bidders := make(map[string]adapters.HttpBidder, len(builders))
	var errs []error

	for bidderName, builder := range builders {
		adapterCfg, ok := adapterCfgs[bidderName]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: no adapter config", bidderName))
			continue
		}
		if adapterCfg.Disabled {
			continue
		}

		info, ok := infos[bidderName]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: no bidder info", bidderName))
			continue
		}

		bidderInstance, err := builder(bidderName, adapterCfg, logger.Default())
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %v", bidderName, err))
			continue
		}
		bidders[bidderName] = adapters.BuildInfoAwareBidder(bidderInstance, info)
	}

	for bidderName := range adapterCfgs {
		if _, ok := builders[bidderName]; !ok {
			errs = append(errs, fmt.Errorf("%s: builder not registered", bidderName))
		}
	}
	return bidders, errs
}

// GetDisabledBiddersErrorMessages returns the message to answer auctions addressed to a
// disabled bidder with.
func GetDisabledBiddersErrorMessages(adapterCfgs map[string]config.Adapter) map[string]string {
	disabledBidders := make(map[string]string)
	for bidderName, adapterCfg := range adapterCfgs {
		if adapterCfg.Disabled {
			disabledBidders[strings.ToLower(bidderName)] = fmt.Sprintf(`Bidder "%s" has been disabled on this instance of the bridge. Please work with the host to enable it.`, bidderName)
		}
	}
	return disabledBidders
}
