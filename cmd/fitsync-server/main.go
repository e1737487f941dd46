package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/fitsync/internal/config"
	"github.com/iudanet/fitsync/internal/logging"
	"github.com/iudanet/fitsync/internal/server"
	"github.com/iudanet/fitsync/internal/server/jwt"
	"github.com/iudanet/fitsync/pkg/api"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "fitsync-server",
		Short:         "Reference record server for fitsync clients",
		Version:       fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to YAML config file")

	root.AddCommand(newServeCommand(&configFile), newTokenCommand(&configFile))
	return root
}

// loadConfig флаги команды важнее окружения и файла
func loadConfig(cmd *cobra.Command, configFile string, bind map[string]string) (*config.Server, error) {
	v := config.NewServerViper()
	for key, flag := range bind {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}
	return config.LoadServer(v, configFile)
}

func newLogger(cfg *config.Server) (*slog.Logger, io.Closer, error) {
	return logging.New(logging.Options{
		Level:  cfg.Level,
		Format: cfg.Format,
		File:   cfg.File,
	})
}

func newServeCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, err := loadConfig(cmd, *configFile, map[string]string{
				"addr":      "addr",
				"db_driver": "db-driver",
				"db_dsn":    "db-dsn",
				"log_level": "log-level",
			})
			if err != nil {
				return err
			}

			logger, logCloser, err := newLogger(cfg)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer logCloser.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := server.OpenStorage(ctx, cfg, logger)
			if err != nil {
				logger.Error("Failed to open storage", "driver", cfg.Driver, "error", err)
				return err
			}
			defer func() {
				err = errors.Join(err, store.Close())
			}()

			logger.Info("Starting fitsync server", "version", Version, "addr", cfg.Addr, "driver", cfg.Driver)
			return server.New(cfg, store, logger).Run(ctx)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", "", "listen address")
	flags.String("db-driver", "", "storage driver (sqlite|postgres)")
	flags.String("db-dsn", "", "sqlite file or postgres DSN")
	flags.String("log-level", "", "log level (debug|info|warn|error)")
	return cmd
}

// newTokenCommand выпускает токен для пользователя. Заменяет сервис авторизации
// в локальной разработке и тестах.
func newTokenCommand(configFile *string) *cobra.Command {
	var (
		userID string
		ttl    time.Duration
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token signed with jwt_secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configFile, nil)
			if err != nil {
				return err
			}

			token, expiresIn, err := jwt.NewService(cfg.JWTSecret, server.DefaultTokenTTL).Issue(userID, ttl)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(api.TokenResponse{AccessToken: token, UserID: userID, ExpiresIn: expiresIn})
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires in %s; use: fitsync login --user-id %s --token <token> --expires-in %ds\n",
				time.Duration(expiresIn)*time.Second, userID, expiresIn)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default 24h)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print token response as JSON")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
