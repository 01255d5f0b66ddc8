package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/devproxy/rewriteproxy/internal/ruleset"
	"github.com/devproxy/rewriteproxy/pkg/adminapi"
	"github.com/devproxy/rewriteproxy/pkg/clientid"
	"github.com/devproxy/rewriteproxy/pkg/config"
	"github.com/devproxy/rewriteproxy/pkg/forwarder"
	"github.com/devproxy/rewriteproxy/pkg/logging"
	"github.com/devproxy/rewriteproxy/pkg/publisher"
	"github.com/devproxy/rewriteproxy/pkg/rewrite"
)

type serveFlags struct {
	configFile     string
	listenAddr     string
	requestTimeout int
	logLevel       string
	logFormat      string
	rulesDir       string
}

var sFlags serveFlags

func init() {
	serveCmd.Flags().StringVar(&sFlags.configFile, "config", "", "path to a YAML config file")
	serveCmd.Flags().StringVar(&sFlags.listenAddr, "listen", "", "address to listen on (overrides config)")
	serveCmd.Flags().IntVar(&sFlags.requestTimeout, "request-timeout", 0, "upstream request timeout in seconds (overrides config)")
	serveCmd.Flags().StringVar(&sFlags.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	serveCmd.Flags().StringVar(&sFlags.logFormat, "log-format", "", "text or json (overrides config)")
	serveCmd.Flags().StringVar(&sFlags.rulesDir, "rules-dir", "", "directory the admin API writes per-client rule snapshots to on PUT (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the rewrite proxy server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()
		if sFlags.configFile != "" {
			loaded, err := config.LoadFromFile(sFlags.configFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg = loaded
		}
		applyServeOverrides(&cfg)

		log := logging.New(logging.Config{
			Level:  logging.ParseLevel(cfg.LogLevel),
			Format: logging.ParseFormat(cfg.LogFormat),
		})

		store := ruleset.New()
		fwd := forwarder.New(cfg.RequestTimeout())
		hub := publisher.New()

		rewriteHandler := rewrite.New(store, fwd, hub)
		rewriteHandler.SetLogger(log)

		wsServer := publisher.NewWSServer(hub)
		wsServer.SetLogger(log)

		adminHandler := adminapi.New(store, cfg.RulesDir)

		mux := http.NewServeMux()
		mux.Handle("/api/rewrite", rewriteHandler)
		mux.Handle("/api/observe", wsServer)
		mux.Handle("/api/rules", adminHandler)

		srv := &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      mux,
			ReadTimeout:  cfg.RequestTimeout(),
			WriteTimeout: cfg.RequestTimeout() + 5*time.Second,
		}

		log.Info("rewrite proxy listening",
			"addr", cfg.ListenAddr,
			"requestTimeout", cfg.RequestTimeout(),
			"clientIdCookie", clientid.CookieName,
		)

		return runUntilSignal(cmd, srv, log)
	},
}

func applyServeOverrides(cfg *config.ServerConfig) {
	if sFlags.listenAddr != "" {
		cfg.ListenAddr = sFlags.listenAddr
	}
	if sFlags.requestTimeout > 0 {
		cfg.RequestTimeoutSeconds = sFlags.requestTimeout
	}
	if sFlags.logLevel != "" {
		cfg.LogLevel = sFlags.logLevel
	}
	if sFlags.logFormat != "" {
		cfg.LogFormat = sFlags.logFormat
	}
	if sFlags.rulesDir != "" {
		cfg.RulesDir = sFlags.rulesDir
	}
}

func runUntilSignal(cmd *cobra.Command, srv *http.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
			return err
		}
		return nil
	}
}
