package info

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/buzzoola/hbrtb/adapters"
	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"
)

// NewBiddersEndpoint implements /info/bidders
func NewBiddersEndpoint(infos adapters.BidderInfos) httprouter.Handle {
	bidderNames := make([]string, 0, len(infos))
	for bidderName := range infos {
		bidderNames = append(bidderNames, bidderName)
	}
	sort.Strings(bidderNames)

	biddersJson, err := json.Marshal(bidderNames)
	if err != nil {
		glog.Fatalf("error creating /info/bidders endpoint response: %v", err)
	}

	return httprouter.Handle(func(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(biddersJson); err != nil {
			glog.Errorf("error writing response to /info/bidders: %v", err)
		}
	})
}

// NewBidderDetailsEndpoint implements /info/bidders/:bidderName
func NewBidderDetailsEndpoint(infos adapters.BidderInfos) httprouter.Handle {
	// Build all the responses up front, since there are a finite number and it won't use much memory.
	responses := make(map[string]json.RawMessage, len(infos))
	for bidderName, info := range infos {
		jsonBytes, err := json.Marshal(info)
		if err != nil {
			glog.Fatalf("error writing JSON of bidder info %s: %v", bidderName, err)
		}
		responses[bidderName] = json.RawMessage(jsonBytes)
	}

	// Return an endpoint which writes the responses from memory.
	return httprouter.Handle(func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		forBidder := ps.ByName("bidderName")
		if response, ok := responses[forBidder]; ok {
			w.Header().Set("Content-Type", "application/json")
			if _, err := w.Write(response); err != nil {
				glog.Errorf("error writing response to /info/bidders/%s: %v", forBidder, err)
			}
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	})
}
