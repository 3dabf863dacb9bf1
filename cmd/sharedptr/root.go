package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kolkov/sharedptr"
)

// app carries state resolved once by the root command for every
// subcommand.
type app struct {
	configFile string
	cfg        *config
	log        *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "sharedptr",
		Short: "Demonstrate, benchmark and check sharedptr pointer kinds",
		Long: `sharedptr works with the reference-counted pointer library of the same
name: it walks through the pointer operations for a chosen kind, runs
micro-benchmarks for every kind, checks a module's go.mod against the
library and shows what the leak tracker reports.`,
		Version:       sharedptr.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "YAML config file")
	pf.String("log-level", defaultLogLevel, "log level: debug, info, warn or error")
	pf.String("debug", "", "debug tracking: comma list of owner, leaks, panic, all")
	pf.String("format", defaultFormat, "output format: table, json or yaml")

	root.AddCommand(
		newDemoCmd(a),
		newBenchCmd(a),
		newModcheckCmd(a),
		newLeaksCmd(a),
		newVersionCmd(a),
	)
	return root
}

// init loads configuration and installs the logger and debug options.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	sharedptr.SetLogger(a.log)

	debug := cfg.Debug
	debug.Logger = a.log
	sharedptr.Configure(debug)

	a.log.Debug("configuration loaded",
		slog.String("config", a.configFile),
		slog.String("kind", cfg.Kind),
		slog.String("format", cfg.Format),
		slog.Bool("check_owner", debug.CheckOwner),
		slog.Bool("track_leaks", debug.TrackLeaks),
	)
	return nil
}
