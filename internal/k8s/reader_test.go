package k8s

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	v1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

func namespace(name string) *v1.Namespace {
	return &v1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: name}}
}

func secret(ns, name string) *v1.Secret {
	return &v1.Secret{ObjectMeta: metav1.ObjectMeta{Namespace: ns, Name: name}}
}

// Testing ListNamespaces
func TestListNamespaces(t *testing.T) {
	client := &Client{ClientSet: fake.NewSimpleClientset(namespace("default"), namespace("apps"))}

	names, err := client.ListNamespaces(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"default", "apps"}, names)
}

func TestListNamespaces_Error(t *testing.T) {
	cs := fake.NewSimpleClientset()
	cs.PrependReactor("list", "namespaces", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("connection refused")
	})
	client := &Client{ClientSet: cs}

	_, err := client.ListNamespaces(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list namespaces")
	assert.Contains(t, err.Error(), "connection refused")
}

// Testing ListSecretNames
func TestListSecretNames(t *testing.T) {
	client := &Client{ClientSet: fake.NewSimpleClientset(
		namespace("default"),
		namespace("empty"),
		secret("default", "db-pass"),
		secret("default", "api-key"),
		secret("other", "elsewhere"),
	)}

	tests := []struct {
		name      string
		namespace string
		expected  []string
	}{
		{
			name:      "lists only secrets of the namespace",
			namespace: "default",
			expected:  []string{"db-pass", "api-key"},
		},
		{
			name:      "empty namespace yields empty list",
			namespace: "empty",
			expected:  []string{},
		},
		{
			name:      "missing namespace has no secrets",
			namespace: "ghost",
			expected:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, err := client.ListSecretNames(context.Background(), tt.namespace)
			assert.NoError(t, err)
			assert.ElementsMatch(t, tt.expected, names)
		})
	}
}

// Testing EnsureNamespace
func TestEnsureNamespace(t *testing.T) {
	client := &Client{ClientSet: fake.NewSimpleClientset(namespace("default"))}

	assert.NoError(t, client.EnsureNamespace(context.Background(), "default"))

	err := client.EnsureNamespace(context.Background(), "ghost")
	assert.Error(t, err)
	assert.True(t, apierrors.IsNotFound(err))
	assert.Contains(t, err.Error(), `failed to get namespace "ghost"`)
}

// Testing ListWorkloads
func TestListWorkloads(t *testing.T) {
	client := &Client{ClientSet: fake.NewSimpleClientset(
		namespace("default"),
		&appsv1.Deployment{ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "web"}},
		&appsv1.StatefulSet{ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "db"}},
		&appsv1.DaemonSet{ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "agent"}},
		&appsv1.ReplicaSet{ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "web-5d8f"}},
		&v1.Pod{ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "debug"}},
		&v1.Pod{ObjectMeta: metav1.ObjectMeta{Namespace: "other", Name: "foreign"}},
	)}

	w, err := client.ListWorkloads(context.Background(), "default")
	require.NoError(t, err)

	require.Len(t, w.Deployments, 1)
	assert.Equal(t, "web", w.Deployments[0].Name)
	require.Len(t, w.StatefulSets, 1)
	assert.Equal(t, "db", w.StatefulSets[0].Name)
	require.Len(t, w.DaemonSets, 1)
	assert.Equal(t, "agent", w.DaemonSets[0].Name)
	require.Len(t, w.ReplicaSets, 1)
	assert.Equal(t, "web-5d8f", w.ReplicaSets[0].Name)
	require.Len(t, w.Pods, 1)
	assert.Equal(t, "debug", w.Pods[0].Name)
}

func TestListWorkloads_FailsFast(t *testing.T) {
	resources := []string{"deployments", "statefulsets", "daemonsets", "replicasets", "pods"}

	for _, resource := range resources {
		t.Run(resource, func(t *testing.T) {
			cs := fake.NewSimpleClientset(namespace("default"))
			forbidden := apierrors.NewForbidden(v1.Resource(resource), "", errors.New("rbac"))
			cs.PrependReactor("list", resource, func(k8stesting.Action) (bool, runtime.Object, error) {
				return true, nil, forbidden
			})
			client := &Client{ClientSet: cs}

			w, err := client.ListWorkloads(context.Background(), "default")
			assert.Error(t, err)
			assert.True(t, apierrors.IsForbidden(err), "error classification must survive wrapping")
			assert.Contains(t, err.Error(), resource)
			assert.Zero(t, w.Len())
		})
	}
}
