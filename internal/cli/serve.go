package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/heimdex/bsi-exporter/internal/api"
	"github.com/heimdex/bsi-exporter/internal/config"
	"github.com/heimdex/bsi-exporter/internal/settings"
	"github.com/heimdex/bsi-exporter/internal/ui"
)

const serveShortDescription = `Serve the export API on localhost`
const serveLongDescription = `Command "serve"

Expose the scene over a local HTTP API so an external UI can list clips and
trigger exports. Requests other than /health and /metrics need the bearer
token printed at startup. Unless BSI_HEADLESS is true a tray icon shows
export progress.
`

func serveCommand(root *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: serveShortDescription,
		Long:  serveLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.serve(cmd.Context())
		},
	}
}

func (root *rootCommand) serve(ctx context.Context) error {
	startTime := time.Now()
	logger := root.logger

	s, err := root.loadScene()
	if err != nil {
		return err
	}

	database, repo, err := root.openRepository()
	if err != nil {
		return err
	}
	defer database.Close()

	authToken, err := ensureAuthToken(ctx, repo)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}

	fmt.Fprintln(root.out)
	fmt.Fprintf(root.out, "  BSI EXPORTER v%s\n", config.Version)
	fmt.Fprintf(root.out, "  API URL:    http://127.0.0.1:%d\n", root.cfg.Port())
	fmt.Fprintf(root.out, "  Auth Token: %s\n", authToken)
	fmt.Fprintf(root.out, "  Clips:      %d\n", len(s.Clips()))
	fmt.Fprintln(root.out)

	quitCh := make(chan struct{})
	var tray *ui.Tray
	if root.cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray = ui.NewTray(ui.TrayConfig{
			Logger: logger,
			OnQuit: func() {
				close(quitCh)
			},
		})
	}

	serverCfg := api.ServerConfig{
		Port:       root.cfg.Port(),
		Repository: repo,
		Logger:     logger,
		StartTime:  startTime,
		Version:    config.Version,
	}
	if tray != nil {
		serverCfg.Exporter = root.newExporter(s, tray)
		serverCfg.OnExport = tray.SetResult
	} else {
		serverCfg.Exporter = root.newExporter(s, nil)
	}
	apiServer := api.NewServer(serverCfg)

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
		case <-ctx.Done():
		case <-quitCh:
		}
		close(done)
	}()

	if tray != nil {
		go tray.Run()
	}

	<-done

	logger.Info("initiating graceful shutdown")
	if tray != nil {
		tray.Quit()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func ensureAuthToken(ctx context.Context, repo settings.Repository) (string, error) {
	existing, err := repo.GetConfig(ctx, settings.AuthTokenKey)
	if err == nil && existing != "" {
		return existing, nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	if err := repo.SetConfig(ctx, settings.AuthTokenKey, token); err != nil {
		return "", err
	}

	return token, nil
}
