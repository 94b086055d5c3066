package k8s

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"secretsAuditor/internal/models"
)

// ListWorkloads fetches every workload-defining object in the namespace. The
// snapshot is only returned once all five listings succeeded.
func (c *Client) ListWorkloads(ctx context.Context, namespace string) (models.Workloads, error) {
	var w models.Workloads
	opts := metav1.ListOptions{}

	deployments, err := c.ClientSet.AppsV1().Deployments(namespace).List(ctx, opts)
	if err != nil {
		return models.Workloads{}, fmt.Errorf("failed to list deployments in namespace %q: %w", namespace, err)
	}
	w.Deployments = deployments.Items

	statefulSets, err := c.ClientSet.AppsV1().StatefulSets(namespace).List(ctx, opts)
	if err != nil {
		return models.Workloads{}, fmt.Errorf("failed to list statefulsets in namespace %q: %w", namespace, err)
	}
	w.StatefulSets = statefulSets.Items

	daemonSets, err := c.ClientSet.AppsV1().DaemonSets(namespace).List(ctx, opts)
	if err != nil {
		return models.Workloads{}, fmt.Errorf("failed to list daemonsets in namespace %q: %w", namespace, err)
	}
	w.DaemonSets = daemonSets.Items

	replicaSets, err := c.ClientSet.AppsV1().ReplicaSets(namespace).List(ctx, opts)
	if err != nil {
		return models.Workloads{}, fmt.Errorf("failed to list replicasets in namespace %q: %w", namespace, err)
	}
	w.ReplicaSets = replicaSets.Items

	pods, err := c.ClientSet.CoreV1().Pods(namespace).List(ctx, opts)
	if err != nil {
		return models.Workloads{}, fmt.Errorf("failed to list pods in namespace %q: %w", namespace, err)
	}
	w.Pods = pods.Items

	return w, nil
}
