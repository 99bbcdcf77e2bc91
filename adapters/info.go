package adapters

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/buzzoola/hbrtb/hb"
	yaml "gopkg.in/yaml.v2"
)

type BidderInfos map[string]BidderInfo

// ParseBidderInfos reads the {infoDir}/{bidder}.yaml file of every bidder.
// The map it returns has a key for every element of the bidders slice.
func ParseBidderInfos(infoDir string, bidders []string) (BidderInfos, error) {
	bidderInfos := make(BidderInfos, len(bidders))
	for _, bidderName := range bidders {
		path := filepath.Join(infoDir, bidderName+".yaml")
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading from file %s: %v", path, err)
		}

		var parsedInfo BidderInfo
		if err := yaml.Unmarshal(fileData, &parsedInfo); err != nil {
			return nil, fmt.Errorf("error parsing yaml in file %s: %v", path, err)
		}
		bidderInfos[bidderName] = parsedInfo
	}
	return bidderInfos, nil
}

func (infos BidderInfos) HasSiteSupport(bidder string) bool {
	info, ok := infos[bidder]
	return ok && info.Capabilities != nil && info.Capabilities.Site != nil
}

func (infos BidderInfos) SupportsWebMediaType(bidder string, mediaType hb.MediaType) bool {
	if !infos.HasSiteSupport(bidder) {
		return false
	}
	return containsMediaType(infos[bidder].Capabilities.Site.MediaTypes, mediaType)
}

type BidderInfo struct {
	Maintainer   *MaintainerInfo   `yaml:"maintainer" json:"maintainer"`
	Capabilities *CapabilitiesInfo `yaml:"capabilities" json:"capabilities"`
}

type MaintainerInfo struct {
	Email string `yaml:"email" json:"email"`
}

// CapabilitiesInfo only knows about site traffic, the only inventory header bidding produces.
type CapabilitiesInfo struct {
	Site *PlatformInfo `yaml:"site" json:"site"`
}

type PlatformInfo struct {
	MediaTypes []hb.MediaType `yaml:"mediaTypes" json:"mediaTypes"`
}

func containsMediaType(haystack []hb.MediaType, needle hb.MediaType) bool {
	for i := 0; i < len(haystack); i++ {
		if needle == haystack[i] {
			return true
		}
	}
	return false
}
