package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/config"
)

// APIKey returns middleware that enforces API key authentication on every
// request it wraps.
//
// Behaviour:
//   - If mode != "apikey" or no key is configured, all requests are allowed
//     (pass-through).
//   - Otherwise the middleware reads the configured header and compares it
//     to the key in constant time.
//   - A missing, empty, or incorrect key returns 401.
func APIKey(cfg config.AuthConfig) func(http.Handler) http.Handler {
	key := cfg.Key()
	header := cfg.EffectiveHeader()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Non-apikey modes or unconfigured key → allow everything.
			if cfg.Mode != "apikey" || key == "" {
				next.ServeHTTP(w, r)
				return
			}

			got := r.Header.Get(header)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				jsonErr(w, http.StatusUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
