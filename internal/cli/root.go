package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/quizdesk/internal/app"
)

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func NewRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "quizdesk",
		Short:         "Quiz platform: auth, quiz and users services over one store",
		Version:       app.BuildVersion,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv(app.ConfigPathEnv), "path to YAML config")
	cmd.AddCommand(newServeCmd(&configPath))
	cmd.AddCommand(newMigrateCmd(&configPath))
	cmd.AddCommand(newPromoteCmd(&configPath))
	return cmd
}
