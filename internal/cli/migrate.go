package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/quizdesk/internal/app"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(app.RoleAuth, *configPath)
			if err != nil {
				return err
			}
			logger := app.NewLogger(cfg)

			st, err := app.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.ApplyMigrations(); err != nil {
				return fmt.Errorf("failed to apply database migrations: %w", err)
			}
			logger.Info("migrations applied", "driver", st.Driver())
			return nil
		},
	}
}
