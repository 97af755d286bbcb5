package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/plantnet-backend/api/responses"
	"github.com/angelmondragon/plantnet-backend/api/validators"
	pkgAuth "github.com/angelmondragon/plantnet-backend/pkg/auth"
	"github.com/angelmondragon/plantnet-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/plantnet-backend/pkg/errors"
	"github.com/angelmondragon/plantnet-backend/pkg/logger"
)

const unauthorizedMessage = "unauthorized access"

// IdentityResolver maps a verified token email to the caller's identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, email string) (pkgAuth.Identity, error)
}

// Auth reads the token cookie (or a bearer header), verifies it, resolves the
// caller's role and stores the identity in the request context.
func Auth(cfg config.JWTConfig, cookie config.CookieConfig, resolver IdentityResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	cookieName := cookie.Name
	if cookieName == "" {
		cookieName = "token"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r, cookieName)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, unauthorizedMessage))
				return
			}

			claims, err := pkgAuth.ParseIdentityToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, unauthorizedMessage))
				return
			}

			identity := pkgAuth.Identity{Email: claims.Email}
			if resolver != nil {
				identity, err = resolver.ResolveIdentity(r.Context(), claims.Email)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
			}

			ctx := WithIdentity(r.Context(), identity)
			if logg != nil {
				ctx = logg.WithEmail(ctx, identity.Email)
				if identity.Role != "" {
					ctx = logg.WithActorRole(ctx, identity.Role.String())
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil {
		if v := strings.TrimSpace(c.Value); v != "" {
			return v
		}
	}
	token, _ := validators.BearerToken(r.Header.Get("Authorization"))
	return token
}
