package middleware

import (
	"net/http"
	"strings"

	"github.com/agrofeira/feira-backend/api/responses"
	pkgAuth "github.com/agrofeira/feira-backend/pkg/auth"
	"github.com/agrofeira/feira-backend/pkg/config"
	pkgerrors "github.com/agrofeira/feira-backend/pkg/errors"
	"github.com/agrofeira/feira-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// operator's identity.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithActor(r.Context(), claims.UserID.String(), claims.Name, claims.Role)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"actor_id":   claims.UserID.String(),
					"actor_role": claims.Role,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
