package middleware

import "net/http"

// NewMaxBodySizeHandler returns a middleware that caps request bodies at limit
// bytes. Requests that announce a larger Content-Length are answered with 413
// straight away. Other bodies are wrapped in http.MaxBytesReader, so a read
// past the limit fails with *http.MaxBytesError and the handler reports 413.
//
// The XML upload on PUT /locations is the largest body the API accepts.
func NewMaxBodySizeHandler(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_, _ = w.Write([]byte(`{"error":{"code":"payload_too_large","message":"request body too large"}}` + "\n"))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
