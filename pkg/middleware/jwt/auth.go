package jwt

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"moiport/internal/modules/user"
	"moiport/pkg/lib/jwt"
	resp "moiport/pkg/lib/response"
)

// NewUserAuth validates the bearer token and stashes the caller identity in
// the request context under "userId", "tenantId" and "role".
func NewUserAuth(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log = log.With(
			slog.String("op", "middlewareAuth"),
		)

		log.Info("auth middleware enabled")

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := jwt.ExtractJWTFromHeader(r)
			if err != nil {
				handleAuthError(w, r, log, err)
				return
			}

			claims, err := jwt.ValidateJWT(tokenStr)
			if err != nil {
				handleAuthError(w, r, log, err)
				return
			}

			ctx := context.WithValue(r.Context(), "userId", claims.UserID)
			ctx = context.WithValue(ctx, "tenantId", claims.TenantID)
			ctx = context.WithValue(ctx, "role", claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewAdminAuth additionally requires an ADMIN or SUPER_ADMIN role.
func NewAdminAuth(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log = log.With(
			slog.String("op", "middlewareAdminAuth"),
		)

		log.Info("admin auth middleware enabled")

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := jwt.ExtractJWTFromHeader(r)
			if err != nil {
				handleAuthError(w, r, log, err)
				return
			}

			claims, err := jwt.ValidateJWT(tokenStr)
			if err != nil {
				handleAuthError(w, r, log, err)
				return
			}

			if claims.Role != user.RoleAdmin && claims.Role != user.RoleSuperAdmin {
				log.Info("user is not admin", slog.Uint64("userID", uint64(claims.UserID)))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, resp.Error("access forbidden"))
				return
			}

			ctx := context.WithValue(r.Context(), "userId", claims.UserID)
			ctx = context.WithValue(ctx, "tenantId", claims.TenantID)
			ctx = context.WithValue(ctx, "role", claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func handleAuthError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.Error("auth error", slog.String("error", err.Error()))
	w.WriteHeader(http.StatusUnauthorized)
	render.JSON(w, r, resp.Error(err.Error()))
}
