package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"secretsAuditor/internal/logger"
	"secretsAuditor/internal/models"
)

// JWTMiddleware validates bearer tokens and injects the subject into the request context.
// Rejections are logged at debug with the reason, never with the token itself.
func JWTMiddleware(jwtManager JWT, log *zap.SugaredLogger, next http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqLog := log.With("method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			reqLog.Debugw("request rejected", "reason", "missing authorization header")
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Expect header in format "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			reqLog.Debugw("request rejected", "reason", "authorization scheme is not bearer")
			writeError(w, http.StatusUnauthorized, "Authorization header must be Bearer <token>")
			return
		}

		claims, err := jwtManager.Verify(parts[1])
		if err != nil {
			reqLog.Debugw("request rejected", "reason", "token verification failed", "error", err)
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		fields := []any{"subject", claims.Subject}
		if claims.ExpiresAt != nil {
			fields = append(fields, "expires-at", claims.ExpiresAt.Time)
		}
		reqLog.Debugw("token accepted", fields...)

		ctx := WithSubject(r.Context(), claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MethodMiddleware enforces allowed HTTP methods for a handler
func MethodMiddleware(allowedMethods ...string) func(http.Handler) http.Handler {
	methods := make(map[string]struct{}, len(allowedMethods))
	for _, m := range allowedMethods {
		methods[m] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := methods[r.Method]; !ok {
				w.Header().Set("Allow", strings.Join(allowedMethods, ", "))
				writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{Message: message})
}
