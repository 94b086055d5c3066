package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveAudit(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.ObserveAudit("default", 3, 150*time.Millisecond)
	r.ObserveAudit("apps", 0, 10*time.Millisecond)
	// last audit wins
	r.ObserveAudit("default", 1, 20*time.Millisecond)

	expected := `
# HELP secrets_auditor_unused_secrets Number of unused secrets found in a namespace by the last audit.
# TYPE secrets_auditor_unused_secrets gauge
secrets_auditor_unused_secrets{namespace="apps"} 0
secrets_auditor_unused_secrets{namespace="default"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "secrets_auditor_unused_secrets"))
	count, err := testutil.GatherAndCount(reg, "secrets_auditor_audit_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecorder_ObserveError(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.ObserveError("locked")
	r.ObserveError("locked")

	assert.Equal(t, float64(2), testutil.ToFloat64(r.errors.WithLabelValues("locked")))
}

func TestNewRecorder_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)

	_, err = NewRecorder(reg)
	assert.Error(t, err)
}
