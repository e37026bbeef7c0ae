package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	httpmiddleware "github.com/wolfman30/clinicdesk-ai/internal/http/middleware"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an admin API token",
	Long: `Sign a bearer token for /api/admin with ADMIN_JWT_SECRET.

Examples:
  clinicdesk token --subject front-desk --ttl 12h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _ := loadConfig()
		if cfg.AdminJWTSecret == "" {
			return errors.New("ADMIN_JWT_SECRET is not set")
		}
		token, err := httpmiddleware.IssueAdminToken(cfg.AdminJWTSecret, tokenSubject, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "staff", "token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 8*time.Hour, "token lifetime")
}
