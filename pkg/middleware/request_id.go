package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/townplan/assessment-portal/pkg/requestid"
)

// RequestID makes sure every request carries a correlation id: the
// x-request-id header wins, then a chi-assigned id, then a fresh one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("x-request-id")
		if id == "" {
			id = chimiddleware.GetReqID(r.Context())
		}
		if id == "" {
			id = requestid.Generate()
		}

		next.ServeHTTP(w, r.WithContext(requestid.ToContext(r.Context(), id)))
	})
}
