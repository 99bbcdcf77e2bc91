package buzzoola

import (
	"net/url"

	"github.com/buzzoola/hbrtb/hb"
	"github.com/buzzoola/hbrtb/util/ptrutil"
	"github.com/mssola/user_agent"
	"github.com/prebid/openrtb/v20/adcom1"
	"github.com/prebid/openrtb/v20/openrtb2"
)

// siteFromEnv describes the page the auction runs on.
func siteFromEnv(env *hb.Environment) *openrtb2.Site {
	site := &openrtb2.Site{
		Domain: env.Domain,
		Page:   env.Page,
		Ref:    env.Referrer,
	}
	if site.Ref == "" {
		site.Ref = env.Page
	}

	if page, err := url.Parse(env.Page); err == nil {
		if site.Domain == "" {
			site.Domain = page.Hostname()
		}
		if page.RawQuery != "" {
			site.Search = "?" + page.RawQuery
		}
	}
	return site
}

// deviceFromEnv describes the client the auction runs for.
func deviceFromEnv(env *hb.Environment) *openrtb2.Device {
	device := &openrtb2.Device{
		UA:       env.UserAgent,
		W:        env.ViewportWidth(),
		H:        env.ViewportHeight(),
		JS:       ptrutil.ToPtr[int8](1),
		Language: env.Language,
		DNT:      doNotTrack(env.DoNotTrack),
	}
	if env.PixelRatio != nil {
		device.PxRatio = *env.PixelRatio
	}
	if env.UserAgent != "" {
		if user_agent.New(env.UserAgent).Mobile() {
			device.DeviceType = adcom1.DeviceMobile
		} else {
			device.DeviceType = adcom1.DevicePC
		}
	}
	return device
}

func doNotTrack(value string) *int8 {
	var dnt int8
	switch value {
	case "1", "yes":
		dnt = 1
	case "0", "no":
		dnt = 0
	default:
		return nil
	}
	return &dnt
}
