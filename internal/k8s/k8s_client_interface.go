package k8s

import (
	"context"

	"secretsAuditor/internal/models"
)

// ClusterReader defines the cluster queries the audit engine needs so it can be
// faked in tests. Every call is a bounded, read-only fetch.
type ClusterReader interface {
	ListNamespaces(ctx context.Context) ([]string, error)
	EnsureNamespace(ctx context.Context, namespace string) error
	ListSecretNames(ctx context.Context, namespace string) ([]string, error)
	ListWorkloads(ctx context.Context, namespace string) (models.Workloads, error)
}

var _ ClusterReader = (*Client)(nil)
