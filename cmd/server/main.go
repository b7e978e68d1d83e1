package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	crud "github.com/MahdiMohammadiha/CRUD"
)

var (
	configFile string
	port       int
)

var rootCmd = &cobra.Command{
	Use:   "crud-server",
	Short: "Reflective CRUD API over a relational database",
	Long: `Serves a relational database's schema and generic row-level CRUD
for any of its tables, discovered at runtime.`,
	RunE: runServe,
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "Optional YAML config file (overlays environment)")
	rootCmd.Flags().IntVar(&port, "port", 0, "HTTP port to listen on (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := crud.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if port != 0 {
		cfg.HTTPPort = port
	}

	app, err := crud.New(cfg)
	if err != nil {
		return err
	}
	if err := app.Connect(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer app.Close()

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := &http.Server{
		Addr:    addr,
		Handler: crud.RequestLogger(app.Handler()),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	slog.Info("listening", "addr", addr, "driver", cfg.Driver, "schema", cfg.Schema)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	return nil
}
