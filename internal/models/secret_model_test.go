package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
)

// Test that JSON marshaling uses the expected json tag keys.
func TestReportStructs_JSONMarshal_Keys(t *testing.T) {
	report := AuditReport{
		Namespaces: []NamespaceReport{
			{Namespace: "default", UnusedSecrets: []string{"db-pass"}},
		},
	}

	b, err := json.Marshal(report)
	require.NoError(t, err, "marshal should succeed")

	assert.JSONEq(t, `{"namespaces":[{"namespace":"default","unused-secrets":["db-pass"]}]}`, string(b))
}

func TestAuditReport_HasUnusedAndTotal(t *testing.T) {
	tests := []struct {
		name        string
		report      AuditReport
		expectAny   bool
		expectTotal int
	}{
		{
			name:        "empty report",
			report:      AuditReport{},
			expectAny:   false,
			expectTotal: 0,
		},
		{
			name: "namespaces without unused secrets",
			report: AuditReport{Namespaces: []NamespaceReport{
				{Namespace: "a", UnusedSecrets: []string{}},
				{Namespace: "b", UnusedSecrets: []string{}},
			}},
			expectAny:   false,
			expectTotal: 0,
		},
		{
			name: "unused secrets across namespaces",
			report: AuditReport{Namespaces: []NamespaceReport{
				{Namespace: "a", UnusedSecrets: []string{"x", "y"}},
				{Namespace: "b", UnusedSecrets: []string{}},
				{Namespace: "c", UnusedSecrets: []string{"z"}},
			}},
			expectAny:   true,
			expectTotal: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectAny, tt.report.HasUnused())
			assert.Equal(t, tt.expectTotal, tt.report.TotalUnused())
		})
	}
}

func TestWorkloads_Len(t *testing.T) {
	w := Workloads{
		Deployments:  []appsv1.Deployment{{}, {}},
		StatefulSets: []appsv1.StatefulSet{{}},
		DaemonSets:   []appsv1.DaemonSet{{}},
		ReplicaSets:  []appsv1.ReplicaSet{{}},
		Pods:         []corev1.Pod{{}, {}, {}},
	}
	assert.Equal(t, 8, w.Len())
	assert.Equal(t, 0, Workloads{}.Len())
}
