package handlers

import (
	"context"

	"secretsAuditor/internal/models"
)

// Auditor defines the audit operations used by AuditHandler so it can be mocked in tests.
// withUsage asks for the referenced secrets too, taken from the same listings as the unused ones.
type Auditor interface {
	Audit(ctx context.Context, withUsage bool) (models.AuditReport, error)
	AuditNamespace(ctx context.Context, namespace string, withUsage bool) (models.NamespaceReport, error)
}
