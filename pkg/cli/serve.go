package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/cli/config"
	controller "github.com/m-mizutani/unidl/pkg/controller/http"
	"github.com/m-mizutani/unidl/pkg/usecase"
	"github.com/m-mizutani/unidl/pkg/utils/i18n"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg  config.Server
		ytdlpCfg   config.YtDlp
		policyCfg  config.Policy
		sessionCfg config.Session
		slackCfg   config.Slack
		sentryCfg  config.Sentry
	)

	var flags []cli.Flag
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, ytdlpCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)
	flags = append(flags, sessionCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the web downloader",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting unidl server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("ytdlp", ytdlpCfg),
				slog.Any("policy", policyCfg),
				slog.Any("session", sessionCfg),
				slog.Any("slack", slackCfg),
				slog.Any("sentry", sentryCfg),
			)

			sentryEnabled, flush, err := sentryCfg.Configure()
			if err != nil {
				return err
			}
			defer flush()

			extractor, err := ytdlpCfg.Build(ctx)
			if err != nil {
				return err
			}

			store, closeStore, err := sessionCfg.Build(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			policyOpts, err := policyCfg.Options()
			if err != nil {
				return err
			}

			bundle, err := i18n.NewBundle(serverCfg.Lang)
			if err != nil {
				return err
			}

			// Create use cases
			mediaOpts := policyOpts
			if notifier := slackCfg.Build(); notifier != nil {
				mediaOpts = append(mediaOpts, usecase.WithNotifier(notifier))
			}
			mediaUC := usecase.NewMedia(extractor, store, mediaOpts...)

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				mediaUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithBundle(bundle),
				controller.WithSecureCookie(serverCfg.SecureCookie),
				controller.WithSentry(sentryEnabled),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Downloads stream over open responses, so give them longer than plain requests
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
