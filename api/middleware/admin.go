package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/suruagyvieira/dropmasters-alpha/api/responses"
	pkgerrors "github.com/suruagyvieira/dropmasters-alpha/pkg/errors"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/logger"
)

// AdminAuth guards the operator surface with the shared admin secret,
// presented as a bearer token. Comparison is constant time.
func AdminAuth(secret string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "admin credentials required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}
