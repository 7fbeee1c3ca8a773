package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/sitecrew/attendance-backend-go/internal/handler/http/response"
)

// OperatorOnly restricts routes to ops tooling tokens. Sync controls and
// pipeline settings are not for regular employee tokens.
func OperatorOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		role, ok := claims["role"].(string)
		if !ok || (role != "operator" && role != "admin") {
			response.Forbidden(w, "Operator privilege required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
