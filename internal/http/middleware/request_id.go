package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/touchline-tv/touchline/internal/observability"
)

// RequestIDHeader carries the request ID on both request and response.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request an ID. A caller-supplied X-Request-ID
// is kept; otherwise a fresh UUID is generated. The ID is echoed on the
// response and stored in the request context for the log pipeline.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)

		ctx := observability.ContextWithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
