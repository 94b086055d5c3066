package cli

import (
	"fmt"
	"net"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"secretsAuditor/internal/auth"
	"secretsAuditor/internal/config"
	"secretsAuditor/internal/handlers"
	"secretsAuditor/internal/metrics"
	"secretsAuditor/internal/server"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve audit reports over HTTP",
		Long: `Start the report API.

  GET /healthz            liveness probe
  GET /metrics            Prometheus metrics
  GET /audit              report for every namespace in scope
  GET /audit/{namespace}  report for one namespace, ?used=true adds used secrets

The /audit routes require a bearer token minted by "secrets-auditor token" when
--jwt-secret is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, v)
		},
	}

	serveCmd.Flags().String(config.KeyAddress, config.DefaultAddress, "Address to listen on")
	bindFlags(v, serveCmd.Flags())

	return serveCmd
}

func runServe(cmd *cobra.Command, v *viper.Viper) error {
	cfg, log, err := setup(v)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder, err := metrics.NewRecorder(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	auditor, err := newAuditor(cfg, log)
	if err != nil {
		return err
	}
	auditor.WithRecorder(recorder)

	var jwtManager auth.JWT
	if cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	}

	router := server.NewRouter(
		jwtManager,
		handlers.NewAuditHandler(auditor, log),
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		log,
	)

	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Address, err)
	}

	return server.Run(cmd.Context(), server.New(cfg.Address, router), ln, log)
}
