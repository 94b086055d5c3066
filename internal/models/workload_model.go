package models

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
)

// Workloads is a snapshot of every workload-defining object in one namespace.
// All slices are fetched before the snapshot is handed to the audit engine.
type Workloads struct {
	Deployments  []appsv1.Deployment
	StatefulSets []appsv1.StatefulSet
	DaemonSets   []appsv1.DaemonSet
	ReplicaSets  []appsv1.ReplicaSet
	Pods         []corev1.Pod
}

// Len returns the total number of objects in the snapshot.
func (w Workloads) Len() int {
	return len(w.Deployments) + len(w.StatefulSets) + len(w.DaemonSets) + len(w.ReplicaSets) + len(w.Pods)
}
