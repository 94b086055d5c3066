package mocks

import (
	"context"
	"fmt"
	"slices"
	"sync"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"secretsAuditor/internal/models"
)

// MockAuditor implements the handlers.Auditor interface for tests.
type MockAuditor struct {
	mu sync.Mutex

	// call flags for assertions
	AuditCalled          bool
	AuditNamespaceCalled bool
	LastNamespace        string
	LastWithUsage        bool

	// forceable errors (set in tests)
	AuditErr     error
	NamespaceErr error

	// Key - namespace
	Reports map[string]models.NamespaceReport
	Used    map[string][]models.SecretUsage
}

func NewMockAuditor() *MockAuditor {
	return &MockAuditor{
		Reports: make(map[string]models.NamespaceReport),
		Used:    make(map[string][]models.SecretUsage),
	}
}

// AddNamespace stores the unused secrets reported for namespace.
func (m *MockAuditor) AddNamespace(namespace string, unused ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if unused == nil {
		unused = []string{}
	}
	m.Reports[namespace] = models.NamespaceReport{Namespace: namespace, UnusedSecrets: unused}
}

// Audit returns every stored namespace report.
func (m *MockAuditor) Audit(_ context.Context, withUsage bool) (models.AuditReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AuditCalled = true
	m.LastWithUsage = withUsage
	if m.AuditErr != nil {
		return models.AuditReport{}, m.AuditErr
	}

	report := models.AuditReport{Namespaces: []models.NamespaceReport{}}
	for _, ns := range sortedKeys(m.Reports) {
		report.Namespaces = append(report.Namespaces, m.withUsage(m.Reports[ns], withUsage))
	}
	return report, nil
}

// AuditNamespace returns the stored report, or a NotFound error like the API server would.
func (m *MockAuditor) AuditNamespace(_ context.Context, namespace string, withUsage bool) (models.NamespaceReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AuditNamespaceCalled = true
	m.LastNamespace = namespace
	m.LastWithUsage = withUsage
	if m.NamespaceErr != nil {
		return models.NamespaceReport{}, m.NamespaceErr
	}

	report, ok := m.Reports[namespace]
	if !ok {
		return models.NamespaceReport{}, fmt.Errorf("failed to get namespace: %w",
			apierrors.NewNotFound(schema.GroupResource{Resource: "namespaces"}, namespace))
	}
	return m.withUsage(report, withUsage), nil
}

// withUsage attaches the stored usages when they were asked for. Callers hold mu.
func (m *MockAuditor) withUsage(report models.NamespaceReport, withUsage bool) models.NamespaceReport {
	if withUsage {
		report.UsedSecrets = m.Used[report.Namespace]
	}
	return report
}

func sortedKeys(reports map[string]models.NamespaceReport) []string {
	keys := make([]string, 0, len(reports))
	for k := range reports {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
