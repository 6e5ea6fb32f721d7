package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pscheid92/smaas/internal/adapter/metrics"
	"github.com/pscheid92/smaas/internal/app"
	"github.com/pscheid92/smaas/internal/contract"
	"github.com/pscheid92/smaas/internal/platform/config"
	"github.com/pscheid92/smaas/internal/platform/logging"
	"github.com/pscheid92/smaas/internal/platform/version"
	"github.com/pscheid92/smaas/internal/smaas"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var (
	modelFlag      string
	contractFlag   string
	liveReloadFlag bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "smaas",
	Short: "Serve an SCXML statechart over HTTP",
	Long: `smaas exposes one SCXML statechart through the routes declared in an
API contract document. With live reload on, clients can follow edits of the
model file over a server-sent event stream.`,
	SilenceUsage: true,
	RunE:         runServer,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Get())
	},
}

func init() {
	rootCmd.Flags().StringVar(&modelFlag, "model", "", "path to the SCXML model (overrides MODEL_PATH)")
	rootCmd.Flags().StringVar(&contractFlag, "contract", "", "path to the API contract (overrides CONTRACT_PATH)")
	rootCmd.Flags().BoolVar(&liveReloadFlag, "live-reload", false, "stream model file changes (overrides LIVE_RELOAD)")

	rootCmd.AddCommand(versionCmd)
}

func setupConfig(cmd *cobra.Command) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}

	if modelFlag != "" {
		cfg.ModelPath = modelFlag
	}
	if contractFlag != "" {
		cfg.ContractPath = contractFlag
	}
	if cmd.Flags().Changed("live-reload") {
		cfg.LiveReload = liveReloadFlag
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	return cfg
}

func loadContract(cfg *config.Config) (*contract.Document, error) {
	if cfg.ContractPath == "" {
		return smaas.Contract()
	}
	return app.LoadContract(cfg.ContractPath)
}

func runGracefulShutdown(a *app.App) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg := setupConfig(cmd)

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Version)

	doc, err := loadContract(cfg)
	if err != nil {
		return err
	}

	a, err := app.New(cfg, doc, smaas.NewHandlers, app.WithMetrics(metrics.New()))
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return err
	}

	done := runGracefulShutdown(a)

	if err := a.Server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		return err
	}

	<-done
	return nil
}
