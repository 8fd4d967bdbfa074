package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mateusmacedo/go-transit/internal/config"
	pkgApp "github.com/mateusmacedo/go-transit/pkg/application"
	zapAdapter "github.com/mateusmacedo/go-transit/pkg/infrastructure/zaplogger/adapter"
)

var (
	cfg        *config.Config
	configFile string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:   "transit",
		Short: "Transit network registry: persons, titles and complaints",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $HOME/.transit/config.yaml or ./config.yaml)")

	rootCmd.AddCommand(
		serveCmd(),
		listCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() (pkgApp.AppLogger, error) {
	return zapAdapter.NewZapAppLogger(zapAdapter.Config{
		App:      "transit",
		Level:    cfg.Logging.Level,
		Encoding: cfg.Logging.Encoding,
	})
}
