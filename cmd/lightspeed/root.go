package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ygrebnov/lightspeed"
	"github.com/ygrebnov/lightspeed/internal/config"
	"github.com/ygrebnov/lightspeed/internal/logger"
)

// app carries the state resolved before any subcommand runs.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	closer io.Closer
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "lightspeed",
		Short:         "Run commands once or many times in parallel on a bounded worker pool",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newRunCommand(a),
		newMultiplyCommand(a),
		newFormatCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.NewLoader().Load(cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}

	a.cfg, a.log, a.closer = cfg, log, closer
	a.log.Debug("configuration loaded",
		"max_workers", cfg.MaxWorkers,
		"serial", cfg.Serial,
		"output", cfg.Output,
		"config_file", cfg.ConfigFile,
	)
	return nil
}

// teardown closes the log output. It is safe to call more than once.
func (a *app) teardown() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

func (a *app) dispatcher() (*lightspeed.Dispatcher[Result], error) {
	opts := []lightspeed.Option{lightspeed.WithLogger(a.log)}
	if a.cfg.MaxWorkers > 0 {
		opts = append(opts, lightspeed.WithMaxWorkers(a.cfg.MaxWorkers))
	}
	// Child processes share no state with this process, so they need no lock
	// unless serial execution is asked for.
	if !a.cfg.Serial {
		opts = append(opts, lightspeed.WithUnlockedExecution())
	}
	return lightspeed.New[Result](opts...)
}
