package handlers

import "net/http"

// AuditHandlerInterface defines the behavior expected from audit handlers (real or mock)
type AuditHandlerInterface interface {
	ListAudit(w http.ResponseWriter, r *http.Request)
	GetNamespaceAudit(w http.ResponseWriter, r *http.Request)
}
