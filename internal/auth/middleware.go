package auth

import (
	"net/http"
	"strings"

	"github.com/saulo-duarte/aizzler/internal/config"
)

var revoker = NewMemoryRevoker()

func SetRevoker(r Revoker) {
	revoker = r
}

// tokenFromRequest reads the bearer token, falling back to the token query
// parameter for websocket clients that cannot set headers.
func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if strings.HasPrefix(strings.ToLower(h), "bearer ") {
			return strings.TrimSpace(h[len("bearer "):])
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := config.WithContext(r.Context())

		tokenStr := tokenFromRequest(r)
		if tokenStr == "" {
			log.Warn("User not authenticated")
			config.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		claims, err := ValidateJWT(tokenStr)
		if err != nil {
			log.WithError(err).Warn("Invalid token")
			config.Error(w, http.StatusUnauthorized, "invalid token")
			return
		}

		revoked, err := revoker.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			log.WithError(err).Error("Failed to check token revocation")
			config.Error(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if revoked {
			log.WithField("user_id", claims.UserID).Warn("Revoked token used")
			config.Error(w, http.StatusUnauthorized, ErrTokenRevoked.Error())
			return
		}

		ctx := WithUserClaims(r.Context(), claims)
		ctx = config.WithUserID(ctx, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
