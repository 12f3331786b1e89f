package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/sprintdeck/sprintdeck/pkg/cli/config"
	httpctrl "github.com/sprintdeck/sprintdeck/pkg/controller/http"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/usecase"
	"github.com/sprintdeck/sprintdeck/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var noAuthUID string
	var repoCfg config.Repository
	var slackCfg config.Slack
	var storageCfg config.Storage
	var sentryCfg config.Sentry
	var seedCfg config.Seed

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("SPRINTDECK_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run every request as the given user ID (development only). Example: --no-auth=U1234567890",
			Category:    "Authentication",
			Sources:     cli.EnvVars("SPRINTDECK_NO_AUTH"),
			Destination: &noAuthUID,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, seedCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			sentryCloser, err := sentryCfg.Configure(c.Root().Version)
			if err != nil {
				return goerr.Wrap(err, "failed to configure sentry")
			}
			defer sentryCloser()

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			var ucOpts []usecase.Option

			slackClient, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize slack client")
			}
			if slackClient != nil {
				ucOpts = append(ucOpts,
					usecase.WithNotifier(slackClient),
					usecase.WithIdentityGroup(slackClient),
				)
				logger.Info("Slack integration enabled", "slack", slackCfg)
			} else {
				logger.Info("Slack bot token not configured, notifications stay inbox-only")
			}

			blobs, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize blob store")
			}
			if blobs != nil {
				ucOpts = append(ucOpts, usecase.WithBlobStore(blobs))
			}

			uc := usecase.New(repo, ucOpts...)

			if seed, err := seedCfg.Load(); err != nil {
				return err
			} else if seed != nil {
				if err := seed.Apply(ctx, uc); err != nil {
					return err
				}
			}

			var httpOpts []httpctrl.Options
			if noAuthUID != "" {
				logger.Warn("Running in no-auth mode (development only)", "user_id", noAuthUID)
				httpOpts = append(httpOpts, httpctrl.WithNoAuth(types.UserID(noAuthUID)))
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpOpts...),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to listen and serve")
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("Shutting down", "signal", sig.String())
			case <-ctx.Done():
				logger.Info("Shutting down", "reason", "context canceled")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shut down HTTP server")
			}

			return nil
		},
	}
}
