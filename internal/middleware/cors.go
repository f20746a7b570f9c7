package middleware

import (
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
)

// CORSMaxAge is the preflight cache lifetime in seconds.
const CORSMaxAge = 86400

// CORS answers preflight requests for every route. handlers.MaxAge clamps
// to 600 seconds, so the max-age header is set here instead.
func CORS(next http.Handler) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", UserIDHeader}),
		handlers.ExposedHeaders([]string{RequestIDHeader}),
	)(next)

	maxAge := strconv.Itoa(CORSMaxAge)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.Header().Set("Access-Control-Max-Age", maxAge)
		}
		cors.ServeHTTP(w, r)
	})
}
