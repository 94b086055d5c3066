package k8s

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ListNamespaces returns the names of all namespaces in the cluster
func (c *Client) ListNamespaces(ctx context.Context) ([]string, error) {
	list, err := c.ClientSet.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}

	names := make([]string, 0, len(list.Items))
	for _, ns := range list.Items {
		names = append(names, ns.Name)
	}
	return names, nil
}

// EnsureNamespace returns a NotFound error when the namespace does not exist
func (c *Client) EnsureNamespace(ctx context.Context, name string) error {
	if _, err := c.ClientSet.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{}); err != nil {
		return fmt.Errorf("failed to get namespace %q: %w", name, err)
	}
	return nil
}
