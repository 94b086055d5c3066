package models

// NamespaceReport represents the unused secrets found in a single namespace
type NamespaceReport struct {
	Namespace     string   `json:"namespace"`      // Namespace name
	UnusedSecrets []string `json:"unused-secrets"` // Sorted secret names, never nil
	// UsedSecrets is only filled when the caller asks for usage details
	UsedSecrets []SecretUsage `json:"used-secrets,omitempty"`
}

// AuditReport represents the result of auditing several namespaces
type AuditReport struct {
	Namespaces []NamespaceReport `json:"namespaces"`
}

// HasUnused reports whether any namespace in the report has unused secrets.
func (r AuditReport) HasUnused() bool {
	for _, ns := range r.Namespaces {
		if len(ns.UnusedSecrets) > 0 {
			return true
		}
	}
	return false
}

// TotalUnused returns the number of unused secrets across all namespaces.
func (r AuditReport) TotalUnused() int {
	total := 0
	for _, ns := range r.Namespaces {
		total += len(ns.UnusedSecrets)
	}
	return total
}

// SecretUsage describes one secret referenced by a workload and how it is consumed
type SecretUsage struct {
	Name    string   `json:"name"`
	Sources []string `json:"sources"` // e.g. volume-secret, env-from-secret-ref
}
