package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kilianp07/conflow/app"
	"github.com/kilianp07/conflow/config"
	"github.com/kilianp07/conflow/infra/logger"
)

var (
	cfgPath string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:          "conflow",
	Short:        "Container flow and capacity previews for a terminal scenario",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file read before the configuration")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.ExecuteContext(context.Background()) }

func loadConfig() (*config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// withApp builds the App from the configuration and closes it once fn returns.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.New("main").Errorf("close: %v", err)
		}
	}()
	return fn(ctx, a)
}

var errMemoryStore = errors.New("the memory store does not keep changes between runs: set store.backend (CONFLOW_STORE__BACKEND) to sqlite or postgres")

// withWritableApp is withApp for commands that change the store.
func withWritableApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		if !a.Persistent() {
			return errMemoryStore
		}
		return fn(ctx, a)
	})
}
