package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"secretsAuditor/internal/output"
)

func newAuditCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Report unused secrets per namespace",
		Long: `Audit every namespace in scope and print the secrets no workload references.

Use --namespace and --exclude-namespace to narrow the scope and --output to pick
text, table, json or yaml. With --fail-on-unused the command exits non-zero when
anything is reported, which makes it usable as a CI gate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAudit(cmd, v)
		},
	}
}

func runAudit(cmd *cobra.Command, v *viper.Viper) error {
	cfg, log, err := setup(v)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	printer, err := output.NewPrinter(cmd.OutOrStdout(), cfg.Output)
	if err != nil {
		return err
	}

	auditor, err := newAuditor(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	report, err := auditor.Audit(ctx, cfg.ShowUsed)
	if err != nil {
		return fmt.Errorf("failed to audit secrets: %w", err)
	}

	if err := printer.Print(report); err != nil {
		return err
	}

	log.Debugw("audit complete", "namespaces", len(report.Namespaces), "unused", report.TotalUnused())
	if cfg.FailOnUnused && report.HasUnused() {
		return fmt.Errorf("%d secrets: %w", report.TotalUnused(), ErrUnusedSecrets)
	}
	return nil
}
