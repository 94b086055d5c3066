package audit

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/sets"
)

// AggregateUsedSecrets unions the secrets referenced by all specs using the
// default reference sources.
func AggregateUsedSecrets(specs []*corev1.PodSpec) sets.Set[string] {
	return Extractor{}.Aggregate(specs)
}

// Aggregate unions the secret names referenced by all specs. The result does
// not depend on the order of specs or on repeated entries.
func (e Extractor) Aggregate(specs []*corev1.PodSpec) sets.Set[string] {
	used := sets.New[string]()
	for _, spec := range specs {
		used = used.Union(e.SecretNames(spec))
	}
	return used
}
