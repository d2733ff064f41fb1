// Package node contains the main executable of a profilesync node.
package node

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/profilesync/cmd"
	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/config"
	"github.com/spacemeshos/profilesync/config/presets"
	"github.com/spacemeshos/profilesync/log"
	"github.com/spacemeshos/profilesync/node"
)

// Cmd is the root command of the node executable.
var Cmd = GetCommand()

type appFunc func(ctx context.Context, c *cobra.Command, app *node.App, args []string) error

type runner func(fn appFunc) func(*cobra.Command, []string) error

// GetCommand returns the root command with all subcommands.
func GetCommand() *cobra.Command {
	conf := config.DefaultConfig()
	c := &cobra.Command{
		Use:          "profilesync",
		Short:        "profile synchronization node",
		SilenceUsage: true,
	}
	configPath := cmd.AddFlags(c.PersistentFlags(), &conf)

	var run runner = func(fn appFunc) func(*cobra.Command, []string) error {
		return func(c *cobra.Command, args []string) error {
			if err := configure(c, *configPath, &conf); err != nil {
				return err
			}
			logger, err := newLogger(&conf)
			if err != nil {
				return err
			}
			defer logger.Sync()
			app := node.New(node.WithConfig(&conf), node.WithLog(logger))
			if err := app.Lock(); err != nil {
				return fmt.Errorf("getting exclusive file lock: %w", err)
			}
			defer app.Unlock()

			// os.Interrupt for all systems, syscall.SIGTERM is mainly for docker.
			ctx, cancel := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			err = fn(ctx, c, app, args)

			cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
			defer cleanupCancel()
			if cerr := app.Cleanup(cleanupCtx); cerr != nil {
				logger.Error("app failed to clean up", zap.Error(cerr))
				err = errors.Join(err, cerr)
			}
			return err
		}
	}

	c.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the node",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, _ *cobra.Command, app *node.App, _ []string) error {
			// This blocks until the context is finished or until an error is produced
			return app.Start(ctx)
		}),
	})

	c.AddCommand(&cobra.Command{
		Use:   "submit <address>...",
		Short: "Fetch profiles into the local store",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(func(ctx context.Context, c *cobra.Command, app *node.App, args []string) error {
			dropped, err := app.Submit(ctx, args)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "submitted %d addresses, %d dropped\n", len(args)-dropped, dropped)
			return nil
		}),
	})

	c.AddCommand(partnerCommand(run))

	c.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, args []string) {
			if cmd.Commit == "" {
				fmt.Fprintln(c.OutOrStdout(), cmd.Version)
				return
			}
			fmt.Fprintf(c.OutOrStdout(), "%s+%s\n", cmd.Version, cmd.Commit)
		},
	})
	return c
}

// withTrust opens the database for partner administration.
func withTrust(run runner, fn func(ctx context.Context, c *cobra.Command, app *node.App, name string) error) func(*cobra.Command, []string) error {
	return run(func(ctx context.Context, c *cobra.Command, app *node.App, args []string) error {
		if err := app.Open(); err != nil {
			return err
		}
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return fn(ctx, c, app, name)
	})
}

func partnerCommand(run runner) *cobra.Command {
	c := &cobra.Command{
		Use:   "partner",
		Short: "Manage partners",
	}

	var partner types.Partner
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a partner",
		Args:  cobra.ExactArgs(1),
		RunE: withTrust(run, func(_ context.Context, _ *cobra.Command, app *node.App, name string) error {
			partner.Name = name
			return app.Trust().AddPartner(partner)
		}),
	}
	add.Flags().StringVar(&partner.AcceptPassword, "accept-password", "", "password the partner authenticates with")
	add.Flags().StringVar(&partner.BaseURL, "url", "", "address of the partner, host:port or quic://host:port")
	add.Flags().Float64Var(&partner.ControlProbability, "control-probability", 0.1,
		"probability that a claim of the partner is audited")
	add.Flags().StringVar(&partner.ConnectionSchedule, "schedule", "*/10 * * * *",
		"cron schedule of sessions with the partner, empty to never connect")
	add.Flags().StringVar(&partner.ProvideUsername, "username", "", "name to authenticate with at the partner")
	add.Flags().StringVar(&partner.ProvidePassword, "password", "", "password to authenticate with at the partner")
	c.AddCommand(add)

	c.AddCommand(&cobra.Command{
		Use:   "kick <name>",
		Short: "Stop synchronizing with a partner",
		Args:  cobra.ExactArgs(1),
		RunE: withTrust(run, func(ctx context.Context, _ *cobra.Command, app *node.App, name string) error {
			return app.Trust().Kick(ctx, name)
		}),
	})

	var reset bool
	unkick := &cobra.Command{
		Use:   "unkick <name>",
		Short: "Resume synchronizing with a kicked partner",
		Args:  cobra.ExactArgs(1),
		RunE: withTrust(run, func(ctx context.Context, _ *cobra.Command, app *node.App, name string) error {
			return app.Trust().Unkick(ctx, name, reset)
		}),
	}
	unkick.Flags().BoolVar(&reset, "reset", false, "forget the samples collected for the partner")
	c.AddCommand(unkick)

	c.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List partners",
		Args:  cobra.NoArgs,
		RunE: withTrust(run, func(_ context.Context, c *cobra.Command, app *node.App, _ string) error {
			partners, err := app.Trust().Partners()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tURL\tSCHEDULE\tCONTROL\tLAST CONNECTION\tKICKED")
			for _, p := range partners {
				last := "never"
				if !p.LastConnection.IsZero() {
					last = p.LastConnection.Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%t\n",
					p.Name, p.BaseURL, p.ConnectionSchedule, p.ControlProbability, last, p.Kicked)
			}
			return w.Flush()
		}),
	})
	return c
}

func configure(c *cobra.Command, configPath string, conf *config.Config) error {
	return cmd.Reapply(c.Flags(), func() error {
		if err := config.Load(conf, configPath, presets.Get); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	})
}

func newLogger(conf *config.Config) (*zap.Logger, error) {
	root, err := log.New(conf.LOGGING.Encoder)
	if err != nil {
		return nil, err
	}
	return log.Module(root, "app", conf.LOGGING.AppLoggerLevel)
}
