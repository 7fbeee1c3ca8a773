package http

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

// companyIDFromRequest pulls the company scope out of the verified token.
// AuthRequired already rejected tokens without it.
func companyIDFromRequest(r *http.Request) (string, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}
	companyID, ok := claims["company_id"].(string)
	return companyID, ok && companyID != ""
}
