package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"secretsAuditor/internal/audit"
	"secretsAuditor/internal/auth"
	"secretsAuditor/internal/logger"
	"secretsAuditor/internal/models"
)

// AuditHandler serves unused-secret reports
type AuditHandler struct {
	Auditor Auditor
	Log     *zap.SugaredLogger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditor Auditor, log *zap.SugaredLogger) *AuditHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuditHandler{
		Auditor: auditor,
		Log:     log,
	}
}

// ListAudit handles GET /audit. ?used=true works as for a single namespace.
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	showUsed, ok := usedParam(w, r)
	if !ok {
		return
	}

	report, err := h.Auditor.Audit(r.Context(), showUsed)
	if err != nil {
		h.writeAuditError(w, r, "", err)
		return
	}

	h.Log.Infow("served audit", "subject", subject(r), "namespaces", len(report.Namespaces), "unused", report.TotalUnused())
	writeJSON(w, http.StatusOK, report)
}

// GetNamespaceAudit handles GET /audit/{namespace}. With ?used=true the
// report also lists referenced secrets and their sources.
func (h *AuditHandler) GetNamespaceAudit(w http.ResponseWriter, r *http.Request) {
	namespace, ok := auth.GetNamespace(r.Context())
	if !ok || namespace == "" {
		WriteError(w, http.StatusBadRequest, "namespace missing")
		return
	}

	showUsed, ok := usedParam(w, r)
	if !ok {
		return
	}

	report, err := h.Auditor.AuditNamespace(r.Context(), namespace, showUsed)
	if err != nil {
		h.writeAuditError(w, r, namespace, err)
		return
	}

	h.Log.Infow("served namespace audit", "subject", subject(r), "namespace", namespace, "unused", len(report.UnusedSecrets))
	writeJSON(w, http.StatusOK, report)
}

// writeAuditError maps cluster and scope errors onto HTTP statuses.
func (h *AuditHandler) writeAuditError(w http.ResponseWriter, r *http.Request, namespace string, err error) {
	status := http.StatusInternalServerError
	message := "failed to audit secrets"

	switch {
	case apierrors.IsNotFound(err):
		status, message = http.StatusNotFound, "namespace not found"
	case errors.Is(err, audit.ErrNamespaceOutOfScope):
		status, message = http.StatusForbidden, "namespace is out of audit scope"
	case apierrors.IsForbidden(err):
		status, message = http.StatusForbidden, "access to namespace resources is forbidden"
	}

	if status == http.StatusInternalServerError {
		h.Log.Errorw("audit failed", "subject", subject(r), "namespace", namespace, "error", err)
	} else {
		h.Log.Debugw("audit rejected", "subject", subject(r), "namespace", namespace, "status", status, "error", err)
	}
	WriteError(w, status, message)
}

// usedParam parses the optional ?used flag, answering 400 when it is not a boolean.
func usedParam(w http.ResponseWriter, r *http.Request) (bool, bool) {
	raw := r.URL.Query().Get("used")
	if raw == "" {
		return false, true
	}
	used, err := strconv.ParseBool(raw)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "used must be a boolean")
		return false, false
	}
	return used, true
}

func subject(r *http.Request) string {
	if s, ok := auth.GetSubject(r.Context()); ok {
		return s
	}
	return "anonymous"
}

// WriteError writes message as a JSON ErrorResponse.
func WriteError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
