package http

import (
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

// TrafficControl protects the model-calling routes: a token-bucket rate
// limit answering 429, and a concurrency cap answering 503 when every slot
// is taken. Both answer immediately rather than queueing, so a burst of
// dossier uploads cannot pile up open connections waiting on the model
// provider.
type TrafficControl struct {
	limiter *rate.Limiter
	slots   chan struct{}
}

func NewTrafficControl(rps float64, burst, maxConcurrent int) *TrafficControl {
	return &TrafficControl{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		slots:   make(chan struct{}, maxConcurrent),
	}
}

func (tc *TrafficControl) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !tc.limiter.Allow() {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(tc.limiter)))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded",
				"too many requests, slow down")
			return
		}

		select {
		case tc.slots <- struct{}{}:
			defer func() { <-tc.slots }()
			next.ServeHTTP(w, r)
		default:
			writeError(w, http.StatusServiceUnavailable, "server busy",
				"all extraction slots are in use, retry shortly")
		}
	})
}

func retryAfterSeconds(l *rate.Limiter) int {
	limit := float64(l.Limit())
	if limit <= 0 {
		return 1
	}
	secs := int(1 / limit)
	if secs < 1 {
		secs = 1
	}
	return secs
}
