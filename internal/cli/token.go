package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"sigs.k8s.io/yaml"

	"secretsAuditor/internal/auth"
	"secretsAuditor/internal/config"
	"secretsAuditor/internal/models"
)

func newTokenCmd(v *viper.Viper) *cobra.Command {
	var subject string

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the report API",
		Long: `Mint an HS256 bearer token for the report API, signed with --jwt-secret and
valid for --token-ttl. With --output json or yaml the expiry is printed too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runToken(cmd, v, subject)
		},
	}

	tokenCmd.Flags().StringVar(&subject, "subject", "", "Identity recorded in the token")
	_ = tokenCmd.MarkFlagRequired("subject")

	return tokenCmd
}

func runToken(cmd *cobra.Command, v *viper.Viper, subject string) error {
	cfg, log, err := setup(v)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.JWTSecret == "" {
		return errors.New("jwt-secret is required to mint tokens")
	}

	manager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	token, err := manager.Generate(subject)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}
	claims, err := manager.Verify(token)
	if err != nil {
		return fmt.Errorf("failed to verify minted token: %w", err)
	}

	resp := models.TokenResponse{
		Token:     token,
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	log.Infow("minted token", "subject", resp.Subject, "expires-at", resp.ExpiresAt)

	out := cmd.OutOrStdout()
	switch cfg.Output {
	case config.OutputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case config.OutputYAML:
		b, err := yaml.Marshal(resp)
		if err != nil {
			return fmt.Errorf("failed to encode token as yaml: %w", err)
		}
		_, err = out.Write(b)
		return err
	default:
		_, err = fmt.Fprintln(out, resp.Token)
		return err
	}
}
