package audit

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/sets"

	"secretsAuditor/internal/k8s"
	"secretsAuditor/internal/logger"
	"secretsAuditor/internal/models"
)

// ErrNamespaceOutOfScope is returned when a namespace is excluded by the audit options.
var ErrNamespaceOutOfScope = errors.New("namespace is out of audit scope")

// Options controls which namespaces are audited and how references are resolved.
type Options struct {
	// Namespaces limits the audit to these namespaces. Empty means all.
	Namespaces []string
	// ExcludeNamespaces are skipped even when listed in Namespaces.
	ExcludeNamespaces []string
	// ExcludePrefixes hides secrets with these name prefixes, on top of system secrets.
	ExcludePrefixes         []string
	IncludeImagePullSecrets bool
	IncludeProjected        bool
	// Parallelism bounds concurrent namespace audits. Values below 1 mean 1.
	Parallelism int
}

// Recorder receives per-namespace audit outcomes, e.g. for metrics.
type Recorder interface {
	ObserveAudit(namespace string, unused int, elapsed time.Duration)
	ObserveError(namespace string)
}

// Auditor finds unused secrets using listings from a ClusterReader.
type Auditor struct {
	reader    k8s.ClusterReader
	extractor Extractor
	resolver  Resolver
	opts      Options
	log       *zap.SugaredLogger
	recorder  Recorder
}

// NewAuditor creates an Auditor. A nil logger discards output.
func NewAuditor(reader k8s.ClusterReader, opts Options, log *zap.SugaredLogger) *Auditor {
	if log == nil {
		log = logger.Nop()
	}
	return &Auditor{
		reader: reader,
		extractor: Extractor{
			IncludeImagePullSecrets: opts.IncludeImagePullSecrets,
			IncludeProjected:        opts.IncludeProjected,
		},
		resolver: Resolver{ExtraPrefixes: opts.ExcludePrefixes},
		opts:     opts,
		log:      log,
	}
}

// WithRecorder attaches a Recorder and returns the Auditor.
func (a *Auditor) WithRecorder(r Recorder) *Auditor {
	a.recorder = r
	return a
}

// InScope reports whether ns is audited under the configured options.
func (a *Auditor) InScope(ns string) bool {
	if slices.Contains(a.opts.ExcludeNamespaces, ns) {
		return false
	}
	return len(a.opts.Namespaces) == 0 || slices.Contains(a.opts.Namespaces, ns)
}

// Namespaces returns the sorted namespaces in scope.
func (a *Auditor) Namespaces(ctx context.Context) ([]string, error) {
	all, err := a.reader.ListNamespaces(ctx)
	if err != nil {
		return nil, err
	}

	scoped := make([]string, 0, len(all))
	for _, ns := range all {
		if a.InScope(ns) {
			scoped = append(scoped, ns)
		}
	}
	slices.Sort(scoped)
	return scoped, nil
}

// UnusedSecrets returns the secrets in ns that no workload references. An
// empty set is a normal result; a namespace that does not exist is a NotFound
// error.
func (a *Auditor) UnusedSecrets(ctx context.Context, ns string) (sets.Set[string], error) {
	if err := a.ensureNamespace(ctx, ns); err != nil {
		return nil, err
	}

	res, err := a.evaluate(ctx, ns, false)
	if err != nil {
		return nil, err
	}
	return res.unused, nil
}

// AuditNamespace audits a single, caller-named namespace. It must be in scope
// and exist. With withUsage the report also lists the referenced secrets,
// taken from the same snapshot as the unused ones.
func (a *Auditor) AuditNamespace(ctx context.Context, ns string, withUsage bool) (models.NamespaceReport, error) {
	if !a.InScope(ns) {
		return models.NamespaceReport{}, fmt.Errorf("%q: %w", ns, ErrNamespaceOutOfScope)
	}
	if err := a.ensureNamespace(ctx, ns); err != nil {
		return models.NamespaceReport{}, err
	}
	return a.namespaceReport(ctx, ns, withUsage)
}

// Audit audits every namespace in scope. Namespaces run concurrently up to
// Options.Parallelism; the first failure cancels the rest and is returned.
// Reports are ordered by namespace name. A namespace deleted after it was
// listed reports no secrets.
func (a *Auditor) Audit(ctx context.Context, withUsage bool) (models.AuditReport, error) {
	namespaces, err := a.Namespaces(ctx)
	if err != nil {
		return models.AuditReport{}, err
	}

	reports := make([]models.NamespaceReport, len(namespaces))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.opts.Parallelism, 1))

	for i, ns := range namespaces {
		g.Go(func() error {
			r, err := a.namespaceReport(gctx, ns, withUsage)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return models.AuditReport{}, err
	}

	a.log.Infow("audit finished", "namespaces", len(reports))
	return models.AuditReport{Namespaces: reports}, nil
}

func (a *Auditor) namespaceReport(ctx context.Context, ns string, withUsage bool) (models.NamespaceReport, error) {
	res, err := a.evaluate(ctx, ns, withUsage)
	if err != nil {
		return models.NamespaceReport{}, err
	}
	return models.NamespaceReport{
		Namespace:     ns,
		UnusedSecrets: SortedNames(res.unused),
		UsedSecrets:   res.usage,
	}, nil
}

// evaluation is the outcome of one namespace against a single snapshot.
type evaluation struct {
	unused sets.Set[string]
	usage  []models.SecretUsage
}

func (a *Auditor) evaluate(ctx context.Context, ns string, withUsage bool) (evaluation, error) {
	start := time.Now()

	all, specs, err := a.snapshot(ctx, ns)
	if err != nil {
		a.observeError(ns)
		return evaluation{}, err
	}

	used := a.extractor.Aggregate(specs)
	res := evaluation{unused: a.resolver.Resolve(all, used)}
	if withUsage {
		res.usage = a.usages(all, specs)
	}

	a.log.Debugw("audited namespace",
		"namespace", ns,
		"secrets", all.Len(),
		"templates", len(specs),
		"used", used.Len(),
		"unused", res.unused.Len(),
	)
	if a.recorder != nil {
		a.recorder.ObserveAudit(ns, res.unused.Len(), time.Since(start))
	}
	return res, nil
}

// usages lists the existing secrets referenced by specs with every source kind
// they are referenced through, sorted by name. It is never nil.
func (a *Auditor) usages(all sets.Set[string], specs []*corev1.PodSpec) []models.SecretUsage {
	sources := make(map[string]sets.Set[string])
	for _, spec := range specs {
		for _, ref := range a.extractor.References(spec) {
			if !all.Has(ref.Name) {
				continue
			}
			if sources[ref.Name] == nil {
				sources[ref.Name] = sets.New[string]()
			}
			sources[ref.Name].Insert(string(ref.Source))
		}
	}

	usages := make([]models.SecretUsage, 0, len(sources))
	for _, name := range SortedNames(sets.KeySet(sources)) {
		usages = append(usages, models.SecretUsage{Name: name, Sources: SortedNames(sources[name])})
	}
	return usages
}

func (a *Auditor) ensureNamespace(ctx context.Context, ns string) error {
	if err := a.reader.EnsureNamespace(ctx, ns); err != nil {
		a.observeError(ns)
		return err
	}
	return nil
}

func (a *Auditor) observeError(ns string) {
	if a.recorder != nil {
		a.recorder.ObserveError(ns)
	}
}

// snapshot fetches all listings of ns before any of them is evaluated.
func (a *Auditor) snapshot(ctx context.Context, ns string) (sets.Set[string], []*corev1.PodSpec, error) {
	secretNames, err := a.reader.ListSecretNames(ctx, ns)
	if err != nil {
		return nil, nil, err
	}
	workloads, err := a.reader.ListWorkloads(ctx, ns)
	if err != nil {
		return nil, nil, err
	}
	return sets.New(secretNames...), CollectPodSpecs(workloads), nil
}
