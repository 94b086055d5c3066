package k8s

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ListSecretNames returns the names of all secrets in the namespace. A
// namespace that does not exist simply has no secrets; use EnsureNamespace to
// tell the two apart.
func (c *Client) ListSecretNames(ctx context.Context, namespace string) ([]string, error) {
	list, err := c.ClientSet.CoreV1().Secrets(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list secrets in namespace %q: %w", namespace, err)
	}

	names := make([]string, 0, len(list.Items))
	for _, s := range list.Items {
		names = append(names, s.Name)
	}
	return names, nil
}
