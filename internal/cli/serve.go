package cli

import (
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/quizdesk/internal/app"
)

func newServeCmd(configPath *string) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:       "serve auth|quiz|users",
		Short:     "Run one of the HTTP services",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(app.RoleAuth), string(app.RoleQuiz), string(app.RoleUsers)},
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := app.ParseRole(args[0])
			if err != nil {
				return err
			}
			cfg, err := app.LoadConfig(role, *configPath)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Port = port
			}

			application, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return application.Run(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (overrides PORT)")
	return cmd
}
