package middleware

import (
	"net/http"
	"strings"

	"github.com/IFernandes27/barbershop-platform/internal/identity"
)

// TokenParser validates a bearer token and returns the actor it names.
type TokenParser interface {
	ParseToken(tokenString string) (identity.Actor, error)
}

// Auth resolves the request's actor from the Authorization header and
// attaches it to the context. The role travels inside the token, so no
// store lookup happens here.
func Auth(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			actor, err := parser.ParseToken(strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.WithActor(r.Context(), actor)))
		})
	}
}

// RequireProfessional gates an endpoint to actors with the professional
// role. It must run after Auth.
func RequireProfessional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := identity.ActorFromContext(r.Context())
		if !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		if !actor.IsProfessional() {
			http.Error(w, "professional role required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
