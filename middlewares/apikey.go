package middlewares

import (
	"crypto/subtle"
	"net/http"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/utils"
	"github.com/rs/zerolog/log"
)

// HeaderApiKey carries the backend API key.
const HeaderApiKey = "X-API-KEY"

// ApiKey rejects requests whose X-API-KEY header does not match key. An
// empty key disables the check.
func ApiKey(key string) func(http.Handler) http.Handler {
	if key == "" {
		log.Warn().Msg("BACKEND_API_KEY is empty, API key check disabled")
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	expected := []byte(key)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(HeaderApiKey))
			if len(got) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
				utils.WriteError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
