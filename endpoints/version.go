package endpoints

import (
	"encoding/json"
	"net/http"
	"sort"
)

const unknownBuild = "not-set"

type buildInfo struct {
	Version  string   `json:"version"`
	Revision string   `json:"revision"`
	Bidders  []string `json:"bidders"`
}

// NewVersionEndpoint reports the release tag and commit the binary was built from,
// along with the bidders compiled into it. Values missing at link time read "not-set".
func NewVersionEndpoint(version, revision string, bidders []string) http.HandlerFunc {
	info := buildInfo{
		Version:  orUnknown(version),
		Revision: orUnknown(revision),
		Bidders:  append([]string{}, bidders...),
	}
	sort.Strings(info.Bidders)

	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(info)
	}
}

func orUnknown(value string) string {
	if value == "" {
		return unknownBuild
	}
	return value
}
