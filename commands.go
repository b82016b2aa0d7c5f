package main

import (
	"io"

	"github.com/arenainfra/podctl/app"
	"github.com/arenainfra/podctl/config"
	"github.com/arenainfra/podctl/errs"
	"github.com/arenainfra/podctl/pkg/logger"
	"github.com/arenainfra/podctl/render"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	global GlobalOptions
	cfg    config.Config
}

func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	c := &cli{in: in, out: out, errOut: errOut}
	cmd := &cobra.Command{
		Use:   "podctl [sub-command]",
		Short: "Manage the lifecycle of RunPod GPU pods",
		Long: `podctl lists RunPod pods, stops and deletes selected running pods behind
confirmation prompts, and distributes API keys to pod hosts over ssh.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: c.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	c.global.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(c.newKillCommand())
	cmd.AddCommand(c.newListCommand())
	cmd.AddCommand(c.newKeysCommand())
	return cmd
}

// setup loads the configuration and installs the run-scoped logger.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.global.ConfigPath)
	if err != nil {
		return errors.WithMessage(err, "load configuration")
	}
	if c.global.LogLevel != "" {
		cfg.Logging.Level = c.global.LogLevel
	}
	c.cfg = cfg

	logger.InitLogger(c.errOut, cfg.Logging.Level)
	ctx, runID := logger.WithRunID(cmd.Context())
	cmd.SetContext(ctx)
	logger.Logger(ctx).Debug().Msgf("podctl %s run %s", cmd.Name(), runID)
	PrintConfig(ctx, cfg)
	return nil
}

func (c *cli) streams() app.Streams {
	return app.Streams{In: c.in, Out: c.out}
}

// requireCredential fails before any network call when no API key is configured.
func (c *cli) requireCredential() error {
	if c.cfg.Runpod.APIKey.Value() == "" {
		return errs.ErrMissingCredential
	}
	return nil
}

func (c *cli) newKillCommand() *cobra.Command {
	opts := &KillCommandOptions{}
	cmd := &cobra.Command{
		Use:   "kill",
		Short: "Stop and delete running pods",
		Long: `Stop the selected running pods, wait until they report EXITED, then delete
them. Both phases ask for confirmation. Pods that do not stop before the
timeout are left alone.`,
		Example: `  podctl kill --exclude keeper
  podctl kill --include trainer-a trainer-b --timeout 600`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.TimeoutSet = cmd.Flags().Changed("timeout")
			if err := opts.Validate(); err != nil {
				return err
			}
			if err := c.requireCredential(); err != nil {
				return err
			}
			svc, metrics, err := app.BuildService(app.ServiceModule(c.cfg, c.streams(), app.ProviderModule()))
			if err != nil {
				return err
			}

			report, err := svc.KillPods(cmd.Context(), opts.KillOptions())
			if err != nil {
				return err
			}
			render.KillSummary(c.out, report)

			if opts.MetricsFile != "" {
				return metrics.WriteTextfile(opts.MetricsFile)
			}
			return nil
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func (c *cli) newListCommand() *cobra.Command {
	opts := &ListCommandOptions{}
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List pods with their public ssh endpoint, cost and status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			if err := c.requireCredential(); err != nil {
				return err
			}
			svc, _, err := app.BuildService(app.ServiceModule(c.cfg, c.streams(), app.ProviderModule()))
			if err != nil {
				return err
			}

			rows, err := svc.ListPods(cmd.Context())
			if err != nil {
				return err
			}
			return render.Pods(c.out, rows, render.EncodingType(opts.Output))
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func (c *cli) newKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys on pod hosts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	opts := &KeysCommandOptions{}
	distribute := &cobra.Command{
		Use:   "distribute",
		Short: "Append API key exports to the shell rc files of each host",
		Long: `Read hostname,key CSV files from the keys directory and append an
export line for each key to the rc files of its host over ssh. Keys are
appended, never replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := app.BuildService(app.ServiceModule(c.cfg, c.streams()))
			if err != nil {
				return err
			}

			report, err := svc.DistributeKeys(cmd.Context(), opts.KeyOptions())
			if report != nil {
				render.KeySummary(c.out, report)
			}
			return err
		},
	}
	opts.AddFlags(distribute.Flags())
	cmd.AddCommand(distribute)
	return cmd
}
