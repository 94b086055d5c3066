package audit

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/sets"
)

// SourceKind names the pod spec field a secret reference was found in.
type SourceKind string

const (
	SourceVolumeSecret    SourceKind = "volume-secret"
	SourceEnvSecretKeyRef SourceKind = "env-secret-key-ref"
	SourceEnvFromSecret   SourceKind = "env-from-secret-ref"
	SourceVolumeMount     SourceKind = "volume-mount"
	SourceImagePullSecret SourceKind = "image-pull-secret"
	SourceProjectedSecret SourceKind = "projected-secret"
)

// SecretReference is a single place in a pod spec that names a secret.
type SecretReference struct {
	Source SourceKind
	Name   string
}

// Extractor walks pod specs and reports the secrets they reference.
// The zero value scans volumes, env, and envFrom of containers and init containers.
type Extractor struct {
	// IncludeImagePullSecrets also counts spec.imagePullSecrets as references.
	IncludeImagePullSecrets bool
	// IncludeProjected also counts secret sources of projected volumes.
	IncludeProjected bool
}

// ExtractSecretNames returns the names of all secrets referenced by spec using
// the default reference sources.
func ExtractSecretNames(spec *corev1.PodSpec) sets.Set[string] {
	return Extractor{}.SecretNames(spec)
}

// SecretNames returns the set of secret names referenced by spec. A nil spec
// references nothing.
func (e Extractor) SecretNames(spec *corev1.PodSpec) sets.Set[string] {
	names := sets.New[string]()
	for _, ref := range e.References(spec) {
		names.Insert(ref.Name)
	}
	return names
}

// References returns every secret reference in spec, in walk order. The same
// name may appear more than once when several fields point at it.
func (e Extractor) References(spec *corev1.PodSpec) []SecretReference {
	if spec == nil {
		return nil
	}

	var refs []SecretReference
	for _, vol := range spec.Volumes {
		if vol.Secret != nil && vol.Secret.SecretName != "" {
			refs = append(refs, SecretReference{Source: SourceVolumeSecret, Name: vol.Secret.SecretName})
		}
		if e.IncludeProjected && vol.Projected != nil {
			for _, src := range vol.Projected.Sources {
				if src.Secret != nil && src.Secret.Name != "" {
					refs = append(refs, SecretReference{Source: SourceProjectedSecret, Name: src.Secret.Name})
				}
			}
		}
	}

	if e.IncludeImagePullSecrets {
		for _, ps := range spec.ImagePullSecrets {
			if ps.Name != "" {
				refs = append(refs, SecretReference{Source: SourceImagePullSecret, Name: ps.Name})
			}
		}
	}

	containers := make([]corev1.Container, 0, len(spec.Containers)+len(spec.InitContainers))
	containers = append(containers, spec.Containers...)
	containers = append(containers, spec.InitContainers...)
	for i := range containers {
		refs = append(refs, containerReferences(&containers[i])...)
	}
	return refs
}

// containerReferences collects env and envFrom secret references of one container.
func containerReferences(c *corev1.Container) []SecretReference {
	var refs []SecretReference
	seen := sets.New[string]()

	for _, env := range c.Env {
		if env.ValueFrom == nil || env.ValueFrom.SecretKeyRef == nil || env.ValueFrom.SecretKeyRef.Name == "" {
			continue
		}
		refs = append(refs, SecretReference{Source: SourceEnvSecretKeyRef, Name: env.ValueFrom.SecretKeyRef.Name})
		seen.Insert(env.ValueFrom.SecretKeyRef.Name)
	}

	for _, envFrom := range c.EnvFrom {
		if envFrom.SecretRef == nil || envFrom.SecretRef.Name == "" {
			continue
		}
		refs = append(refs, SecretReference{Source: SourceEnvFromSecret, Name: envFrom.SecretRef.Name})
		seen.Insert(envFrom.SecretRef.Name)
	}

	// A mount name is not a secret name. It is only recorded when it matches a
	// secret this container already references, so it never adds a new name.
	for _, mount := range c.VolumeMounts {
		if seen.Has(mount.Name) {
			refs = append(refs, SecretReference{Source: SourceVolumeMount, Name: mount.Name})
		}
	}
	return refs
}
