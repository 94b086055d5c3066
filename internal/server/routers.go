package server

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"secretsAuditor/internal/auth"
	"secretsAuditor/internal/handlers"
	"secretsAuditor/internal/logger"
)

// scopedRoute represents a single API route
type scopedRoute struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc http.HandlerFunc
	Protected   bool // whether the route requires JWT
}

// NewRouter initializes all routes and returns an http.Handler. When jwtManager
// is nil the protected routes are served without authentication.
func NewRouter(jwtManager auth.JWT, auditHandler handlers.AuditHandlerInterface, metrics http.Handler, log *zap.SugaredLogger) http.Handler {
	if log == nil {
		log = logger.Nop()
	}

	routes := []scopedRoute{
		// Public routes
		{
			Name:        "Healthz",
			Method:      http.MethodGet,
			Pattern:     "/healthz",
			HandlerFunc: handlers.Healthz,
			Protected:   false,
		},
		{
			Name:        "Metrics",
			Method:      http.MethodGet,
			Pattern:     "/metrics",
			HandlerFunc: metrics.ServeHTTP,
			Protected:   false,
		},

		// Protected routes
		{
			Name:        "ListAudit",
			Method:      http.MethodGet,
			Pattern:     "/audit",
			HandlerFunc: auditHandler.ListAudit,
			Protected:   true,
		},
		{
			Name:        "GetNamespaceAudit",
			Method:      http.MethodGet,
			Pattern:     "/audit/",
			HandlerFunc: withNamespace(auditHandler.GetNamespaceAudit),
			Protected:   true,
		},
	}

	if jwtManager == nil {
		log.Warn("no jwt secret configured, audit routes are served without authentication")
	}

	// mux - (short for "multiplexer") matches incoming HTTP requests against a list of registered routes
	//and calls the associated handler for the first match
	mux := http.NewServeMux()
	for _, route := range routes {
		var handler http.Handler = auth.MethodMiddleware(route.Method)(route.HandlerFunc)

		// Wrap protected routes with JWT middleware
		if route.Protected && jwtManager != nil {
			handler = auth.JWTMiddleware(jwtManager, log, handler)
		}

		mux.Handle(route.Pattern, handler)
	}

	return requestLogger(log, mux)
}

// withNamespace extracts the namespace from the path and injects it into the context
func withNamespace(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		namespace := strings.Trim(strings.TrimPrefix(req.URL.Path, "/audit/"), "/")
		if namespace == "" || strings.Contains(namespace, "/") {
			handlers.WriteError(w, http.StatusBadRequest, "Namespace required")
			return
		}

		ctx := auth.WithNamespace(req.Context(), namespace)
		next(w, req.WithContext(ctx))
	}
}
