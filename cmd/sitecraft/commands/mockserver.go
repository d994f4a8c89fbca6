package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/utkarshverma439/SiteCraft-AI/internal/logging"
	"github.com/utkarshverma439/SiteCraft-AI/internal/mockapi"
)

var (
	mockAddr  string
	mockDelay time.Duration
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Run a local fake of the SiteCraft API",
	Long: `Run an in-memory stand-in for the SiteCraft backend.

It serves the same routes under /api, issues bearer tokens and returns
deterministic HTML instead of calling a model. Useful for trying the CLI
offline:

  sitecraft mock-server --addr 127.0.0.1:5000 &
  sitecraft --server http://127.0.0.1:5000/api auth register ...`,
	Args: cobra.NoArgs,
	RunE: runMockServer,
}

func init() {
	mockServerCmd.Flags().StringVar(&mockAddr, "addr", "127.0.0.1:5000", "Address to listen on")
	mockServerCmd.Flags().DurationVar(&mockDelay, "delay", 0, "Simulated generation latency")
}

func runMockServer(cmd *cobra.Command, args []string) error {
	if _, _, err := loadConfig(); err != nil {
		return err
	}

	cfg := mockapi.DefaultConfig()
	cfg.Addr = mockAddr
	cfg.GenerationDelay = mockDelay
	srv := mockapi.New(cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Mock API listening on http://%s%s\n", mockAddr, cfg.Prefix)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logging.Info().Msg("shutting down mock API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
