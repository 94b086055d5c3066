package audit

import (
	"slices"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

// systemSecretPrefixes mark secrets the platform or Helm manage. They are
// expected to be unreferenced by pod specs and must never be reported.
var systemSecretPrefixes = []string{
	"default-token-",
	"kubernetes.io/service-account",
	"sh.helm.release.v1",
}

// IsSystemSecret reports whether name belongs to a platform-managed secret.
func IsSystemSecret(name string) bool {
	return hasAnyPrefix(name, systemSecretPrefixes)
}

// ResolveUnused returns the secrets in all that are not in used, minus system secrets.
func ResolveUnused(all, used sets.Set[string]) sets.Set[string] {
	return Resolver{}.Resolve(all, used)
}

// Resolver computes unused secrets. ExtraPrefixes are excluded in addition to
// the built-in system prefixes.
type Resolver struct {
	ExtraPrefixes []string
}

// Resolve returns all minus used, without any excluded secret.
func (r Resolver) Resolve(all, used sets.Set[string]) sets.Set[string] {
	unused := sets.New[string]()
	for name := range all.Difference(used) {
		if r.Excluded(name) {
			continue
		}
		unused.Insert(name)
	}
	return unused
}

// Excluded reports whether name is a system secret or matches an extra prefix.
func (r Resolver) Excluded(name string) bool {
	return IsSystemSecret(name) || hasAnyPrefix(name, r.ExtraPrefixes)
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// SortedNames returns the members of s in ascending order, never nil.
func SortedNames(s sets.Set[string]) []string {
	names := make([]string, 0, s.Len())
	for name := range s {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
