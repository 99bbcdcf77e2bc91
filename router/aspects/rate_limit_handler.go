package aspects

import (
	"net/http"

	"github.com/buzzoola/hbrtb/config"
	"github.com/didip/tollbooth"
	"github.com/julienschmidt/httprouter"
)

// RateLimited caps the calls to f per client address. Callers over the limit get HTTP 429.
func RateLimited(f httprouter.Handle, cfg config.RateLimit) httprouter.Handle {
	if cfg.MaxPerSecond <= 0 {
		return f
	}

	lmt := tollbooth.NewLimiter(cfg.MaxPerSecond, nil)
	lmt.SetIPLookups([]string{"X-Forwarded-For", "X-Real-IP", "RemoteAddr"})
	lmt.SetMessageContentType("application/json")
	lmt.SetMessage(`{"errors":["too many requests"]}`)

	return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			f(w, r, params)
		})
		tollbooth.LimitHandler(lmt, next).ServeHTTP(w, r)
	}
}
