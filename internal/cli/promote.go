package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/quizdesk/internal/app"
	"github.com/aussiebroadwan/quizdesk/internal/service"
)

// newPromoteCmd grants or revokes staff. There is no HTTP route for this.
func newPromoteCmd(configPath *string) *cobra.Command {
	var revoke bool

	cmd := &cobra.Command{
		Use:   "promote <username>",
		Short: "Grant staff to an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(app.RoleAuth, *configPath)
			if err != nil {
				return err
			}

			st, err := app.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.ApplyMigrations(); err != nil {
				return fmt.Errorf("failed to apply database migrations: %w", err)
			}

			ids := &service.IdentityService{Store: st, Timeout: cfg.StoreTimeout}
			if err := ids.SetStaff(cmd.Context(), args[0], !revoke); err != nil {
				return err
			}

			verb := "granted"
			if revoke {
				verb = "revoked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "staff %s for %s\n", verb, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&revoke, "revoke", false, "remove staff instead of granting it")
	return cmd
}
