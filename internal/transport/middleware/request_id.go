package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ezbjus/bariwikiemerg/pkg/ctxutil"
)

const requestIDHeader = "X-Request-Id"

// RequestID attaches a request identifier to the context and echoes it in
// the response header. An identifier supplied by the caller is reused.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctxutil.WithRequestID(r.Context(), id)))
	})
}
