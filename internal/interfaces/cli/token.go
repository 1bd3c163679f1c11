package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/erp/ledgerreport/internal/infrastructure/auth"
	"github.com/spf13/cobra"
)

type tokenOutput struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newTokenCommand(a *app) *cobra.Command {
	var input auth.GenerateTokenInput

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API access token signed with auth.secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if cfg.Auth.Secret == "" {
				return fmt.Errorf("auth.secret is not configured")
			}
			if input.TTL <= 0 {
				return fmt.Errorf("--ttl must be positive")
			}

			token, expiresAt, err := auth.NewJWTService(cfg.Auth).GenerateToken(input)
			if err != nil {
				return fmt.Errorf("generating token: %w", err)
			}

			out := cmd.OutOrStdout()
			if a.renderer.Format == FormatJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(tokenOutput{Token: token, ExpiresAt: expiresAt.UTC()})
			}
			if _, err := fmt.Fprintln(out, token); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.ErrOrStderr(), messageStyle.Render("expires "+expiresAt.UTC().Format(time.RFC3339)))
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.Subject, "subject", "", "token subject, usually the client name (required)")
	flags.StringVar(&input.Username, "username", "", "display name carried in the token")
	flags.StringArrayVar(&input.Companies, "company", nil, "company the token may read, repeatable (default: all)")
	flags.DurationVar(&input.TTL, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
