package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iudanet/fitsync/internal/client/iocli"
	"github.com/iudanet/fitsync/internal/config"
	"github.com/iudanet/fitsync/internal/logging"
)

type rootOptions struct {
	configFile string
	serverURL  string
	dataDir    string
	logLevel   string
}

// NewRootCommand собирает дерево команд fitsync. Хранилища открываются
// на время выполнения одной команды.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "fitsync",
		Short:         "Offline-first sync client for training data",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "path to YAML config file")
	flags.StringVar(&opts.serverURL, "server", "", "sync server URL")
	flags.StringVar(&opts.dataDir, "data-dir", "", "directory for local databases")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug|info|warn|error)")

	run := func(cmd *cobra.Command, fn func(c *Cli) error) (err error) {
		app, closeAll, err := opts.open(cmd)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, closeAll())
		}()
		return fn(app.Cli)
	}

	root.AddCommand(
		newLoginCommand(run),
		newLogoutCommand(run),
		newSyncCommand(run),
		newStatusCommand(run),
		newAddCommand(run),
		newDeleteCommand(run),
		newRetryFailedCommand(run),
		newDaemonCommand(run),
	)
	return root
}

type runner func(cmd *cobra.Command, fn func(c *Cli) error) error

// open читает конфигурацию (флаги важнее окружения и файла), создает логгер и App
func (o *rootOptions) open(cmd *cobra.Command) (*App, func() error, error) {
	v := config.NewClientViper()
	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"server_url": "server",
		"data_dir":   "data-dir",
		"log_level":  "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return nil, nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	cfg, err := config.LoadClient(v, o.configFile)
	if err != nil {
		return nil, nil, err
	}

	logger, logCloser, err := logging.New(logging.Options{
		Output: cmd.ErrOrStderr(),
		Level:  cfg.Level,
		Format: cfg.Format,
		File:   cfg.File,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	app, err := Open(cmd.Context(), cfg, terminal(cmd), logger)
	if err != nil {
		_ = logCloser.Close()
		return nil, nil, err
	}

	return app, func() error {
		return errors.Join(app.Close(), logCloser.Close())
	}, nil
}

// terminal вывод команды: на настоящем терминале с цветом
func terminal(cmd *cobra.Command) iocli.IO {
	if cmd.OutOrStdout() == os.Stdout && cmd.InOrStdin() == os.Stdin {
		return iocli.NewStdio()
	}
	return iocli.NewStream(cmd.OutOrStdout(), cmd.InOrStdin())
}

func newLoginCommand(run runner) *cobra.Command {
	opts := loginOptions{}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the session issued by the auth service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(c *Cli) error {
				return c.runLogin(cmd.Context(), opts)
			})
		},
	}
	cmd.Flags().StringVar(&opts.userID, "user-id", "", "user id")
	cmd.Flags().StringVar(&opts.token, "token", "", "access token (prompted when empty)")
	cmd.Flags().DurationVar(&opts.expiresIn, "expires-in", 0, "token lifetime, 0 = no expiry")
	return cmd
}

func newLogoutCommand(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(c *Cli) error {
				return c.runLogout(cmd.Context())
			})
		},
	}
}

func newSyncCommand(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push local changes and pull remote ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(c *Cli) error {
				return c.runSync(cmd.Context())
			})
		},
	}
}

func newStatusCommand(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync state and pending records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(c *Cli) error {
				return c.runStatus(cmd.Context())
			})
		},
	}
}

func newAddCommand(run runner) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:     "add <entity>",
		Short:   "Save a record from a JSON file",
		Example: "  fitsync add runs --file run.json\n  cat set.json | fitsync add sets --file -",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			return run(cmd, func(c *Cli) error {
				return c.runAdd(cmd.Context(), args[0], raw)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the record, - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readInput(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return raw, nil
}

func newDeleteCommand(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entity> <id>",
		Short: "Mark a record deleted",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(c *Cli) error {
				return c.runDelete(cmd.Context(), args[0], args[1])
			})
		},
	}
}

func newRetryFailedCommand(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "retry-failed [entity]",
		Short: "Send records rejected by the server again",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity := ""
			if len(args) == 1 {
				entity = args[0]
			}
			return run(cmd, func(c *Cli) error {
				return c.runRetryFailed(cmd.Context(), entity)
			})
		},
	}
}

func newDaemonCommand(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Sync periodically and import files from the inbox until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(cmd, func(c *Cli) error {
				return c.runDaemon(ctx)
			})
		},
	}
}
