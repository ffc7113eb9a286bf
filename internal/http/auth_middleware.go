package httpx

import (
	"context"
	"net/http"

	"github.com/Danny-Devs/rocket-app/internal/service/auth"
)

type authContextKey string

const contextKeyAuth authContextKey = "rocket-auth-identity"

type contextSetter interface {
	SetContext(context.Context)
}

// requireBasicAuth ensures the request carries valid Basic credentials
// before invoking the handler. Every failure mode — missing header, wrong
// scheme, bad base64, credential mismatch — produces the same 401 and the
// handler body never runs.
func (r *Router) requireBasicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		identity, err := r.auth.Authorize(req.Header.Get("Authorization"))
		if err != nil {
			r.logger.Warn("basic auth rejected", "path", req.URL.Path)
			w.Header().Set("WWW-Authenticate", `Basic realm="rustaceans"`)
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := context.WithValue(req.Context(), contextKeyAuth, identity)
		if setter, ok := w.(contextSetter); ok {
			setter.SetContext(ctx)
		}
		next(w, req.WithContext(ctx))
	}
}

// identityFromContext extracts the verified principal from context.
func identityFromContext(ctx context.Context) (auth.Identity, bool) {
	value := ctx.Value(contextKeyAuth)
	if value == nil {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	return identity, ok
}
