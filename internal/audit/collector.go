package audit

import (
	corev1 "k8s.io/api/core/v1"
	apiequality "k8s.io/apimachinery/pkg/api/equality"

	"secretsAuditor/internal/models"
)

// CollectPodSpecs returns the pod specs declared by every workload in w.
// Controllers whose template carries no spec are skipped. ReplicaSets owned by
// Deployments are scanned alongside their owner; the union downstream makes
// the duplicate harmless.
func CollectPodSpecs(w models.Workloads) []*corev1.PodSpec {
	specs := make([]*corev1.PodSpec, 0, w.Len())

	for i := range w.Deployments {
		specs = appendTemplate(specs, w.Deployments[i].Spec.Template)
	}
	for i := range w.StatefulSets {
		specs = appendTemplate(specs, w.StatefulSets[i].Spec.Template)
	}
	for i := range w.DaemonSets {
		specs = appendTemplate(specs, w.DaemonSets[i].Spec.Template)
	}
	for i := range w.ReplicaSets {
		specs = appendTemplate(specs, w.ReplicaSets[i].Spec.Template)
	}
	for i := range w.Pods {
		if spec := presentSpec(&w.Pods[i].Spec); spec != nil {
			specs = append(specs, spec)
		}
	}
	return specs
}

func appendTemplate(specs []*corev1.PodSpec, tmpl corev1.PodTemplateSpec) []*corev1.PodSpec {
	if spec := presentSpec(&tmpl.Spec); spec != nil {
		return append(specs, spec)
	}
	return specs
}

// presentSpec returns nil for a spec that was never filled in.
func presentSpec(spec *corev1.PodSpec) *corev1.PodSpec {
	if spec == nil || apiequality.Semantic.DeepEqual(*spec, corev1.PodSpec{}) {
		return nil
	}
	return spec
}
