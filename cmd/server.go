package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/callsched/internal/mcp"
	"github.com/example/callsched/internal/web"
)

func newServerCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the HTTP server (MCP tools, REST endpoints, metrics)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a.log.Info("configuration",
				zap.Bool("vapi_key", cfg.VapiAPIKey.IsSet()),
				zap.Bool("vapi_phone", cfg.VapiPhoneID != ""),
				zap.Bool("vapi_assistant", cfg.VapiAssistantID != ""),
				zap.Bool("poke_key", cfg.PokeAPIKey.IsSet()),
			)
			if !cfg.HasVapi() {
				a.log.Warn("vapi credentials incomplete, calls will be rejected")
			}

			tools := mcp.NewServer(mcp.Config{Version: Version, Logger: a.log.Named("mcp")}, a.calls)
			ws, err := web.NewServer(web.Config{
				Version: Version,
				Credentials: web.Credentials{
					VapiKey:       cfg.VapiAPIKey.IsSet(),
					VapiPhone:     cfg.VapiPhoneID != "",
					VapiAssistant: cfg.VapiAssistantID != "",
					PokeKey:       cfg.PokeAPIKey.IsSet(),
				},
				RateLimit: cfg.RateLimit,
				RateBurst: cfg.RateBurst,
				Logger:    a.log.Named("http"),
			}, a.calls, a.monitor.Registry(), tools.Handler())
			if err != nil {
				return err
			}

			if addr == "" {
				addr = cfg.ListenAddr()
			}
			serveErr := ws.Start(ctx, addr)

			shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
			defer stop()
			if err := a.monitor.Shutdown(shutdownCtx); err != nil {
				a.log.Warn("monitors still running at exit", zap.Error(err))
			}
			return serveErr
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default HOST:PORT from config)")
	return cmd
}
