// Package cli wires the auditor into the secrets-auditor command line.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"secretsAuditor/internal/audit"
	"secretsAuditor/internal/config"
	"secretsAuditor/internal/k8s"
	"secretsAuditor/internal/logger"
)

// ErrUnusedSecrets is returned by the audit command with --fail-on-unused when
// the report is not clean.
var ErrUnusedSecrets = errors.New("unused secrets found")

// Replaced in tests.
var (
	newClusterReader = func(cfg config.Config) (k8s.ClusterReader, error) {
		client, err := k8s.NewClient(cfg.Kubeconfig, cfg.Context)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	newLogger = logger.New
)

// NewRootCmd creates the secrets-auditor command tree. Running the root
// command without a subcommand performs an audit.
func NewRootCmd() *cobra.Command {
	v := config.NewViper()

	rootCmd := &cobra.Command{
		Use:               "secrets-auditor",
		DisableAutoGenTag: true,
		Short:             "Find Kubernetes secrets that no workload references",
		Long: `secrets-auditor lists, per namespace, the secrets that exist in the cluster but
are not referenced by any Deployment, StatefulSet, DaemonSet, ReplicaSet or Pod.

Secrets managed by the platform (service account tokens and Helm release
records) are never reported. The cluster is only read, never modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAudit(cmd, v)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP(config.KeyConfig, "c", "", "Path to a YAML configuration file")
	flags.String(config.KeyKubeconfig, "", "Path to the kubeconfig file (defaults to in-cluster, then $KUBECONFIG or ~/.kube/config)")
	flags.String(config.KeyContext, "", "Kubeconfig context to use")
	flags.Bool(config.KeyDebug, false, "Enable debug logging")
	flags.StringSliceP(config.KeyNamespaces, "n", nil, "Namespaces to audit (default all)")
	flags.StringSlice(config.KeyExcludeNamespaces, nil, "Namespaces to skip")
	flags.StringSlice(config.KeyExcludePrefixes, nil, "Additional secret name prefixes to never report")
	flags.Bool(config.KeyIncludeImagePullSecrets, false, "Count imagePullSecrets as references")
	flags.Bool(config.KeyIncludeProjected, false, "Count projected volume secret sources as references")
	flags.Int(config.KeyParallelism, config.DefaultParallelism, "Number of namespaces audited concurrently")
	flags.Duration(config.KeyTimeout, config.DefaultTimeout, "Timeout for the whole audit")
	flags.StringP(config.KeyOutput, "o", config.OutputText, "Output format: text, table, json or yaml")
	flags.Bool(config.KeyShowUsed, false, "Also list used secrets with the way they are referenced")
	flags.Bool(config.KeyFailOnUnused, false, "Exit with an error when unused secrets are found")
	flags.String(config.KeyJWTSecret, "", "HMAC secret for report API bearer tokens")
	flags.Duration(config.KeyTokenTTL, config.DefaultTokenTTL, "Lifetime of minted bearer tokens")
	bindFlags(v, flags)

	rootCmd.AddCommand(newAuditCmd(v))
	rootCmd.AddCommand(newServeCmd(v))
	rootCmd.AddCommand(newTokenCmd(v))

	// Silence printing the usage on error
	rootCmd.SilenceUsage = true

	return rootCmd
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Lookup never fails for a flag we are visiting.
		_ = v.BindPFlag(f.Name, f)
	})
}

// setup loads the configuration and builds the logger shared by all commands.
func setup(v *viper.Viper) (config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := newLogger(cfg.Debug)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

func newAuditor(cfg config.Config, log *zap.SugaredLogger) (*audit.Auditor, error) {
	reader, err := newClusterReader(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return audit.NewAuditor(reader, audit.Options{
		Namespaces:              cfg.Namespaces,
		ExcludeNamespaces:       cfg.ExcludeNamespaces,
		ExcludePrefixes:         cfg.ExcludePrefixes,
		IncludeImagePullSecrets: cfg.IncludeImagePullSecrets,
		IncludeProjected:        cfg.IncludeProjected,
		Parallelism:             cfg.Parallelism,
	}, log), nil
}
