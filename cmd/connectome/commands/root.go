// Package commands implements the connectome command line.
package commands

import (
	"fmt"
	"time"

	"github.com/dd0wney/connectome-metrics/pkg/analysis"
	"github.com/dd0wney/connectome-metrics/pkg/config"
	"github.com/dd0wney/connectome-metrics/pkg/loader"
	"github.com/dd0wney/connectome-metrics/pkg/logging"
	"github.com/dd0wney/connectome-metrics/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is set at build time with -ldflags "-X .../commands.Version=..."
var Version = "dev"

// app carries the state shared by every subcommand of one invocation
type app struct {
	cfgFile    string
	logLevel   string
	metricsOut string

	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	started time.Time
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree with fresh state
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "connectome",
		Short: "Connectome cleaning and metrics pipeline",
		Long: `connectome - structural metrics for neuronal wiring diagrams

Clean. Measure. Export.`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.writeMetrics()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "Config file (YAML, JSON or TOML)")
	flags.StringVar(&a.logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")
	flags.StringVar(&a.metricsOut, "metrics-out", "", "Write Prometheus metrics to this file after the run")

	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd)
	})

	root.AddCommand(newAnalyzeCmd(a), newExportCmd(a), newValidateCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.started = time.Now()

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.logger = logging.NewJSONLogger(cmd.ErrOrStderr(), cfg.LogLevel())
	a.metrics = metrics.NewRegistry()
	return nil
}

func (a *app) writeMetrics() error {
	if a.metricsOut == "" || a.metrics == nil {
		return nil
	}
	a.metrics.UpdateSystemMetrics(a.started)
	if err := prometheus.WriteToTextfile(a.metricsOut, a.metrics.GetPrometheusRegistry()); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// openSession loads a graph document and prepares its snapshots
func (a *app) openSession(path string) (*analysis.Session, error) {
	g, err := loader.LoadFile(path, a.logger)
	if err != nil {
		return nil, err
	}

	cleaningOpts, err := a.cfg.CleaningOptions(a.logger)
	if err != nil {
		return nil, err
	}

	return analysis.NewSession(g, analysis.Options{
		Cleaning: cleaningOpts,
		Workers:  a.cfg.Analysis.Workers,
		Logger:   a.logger,
		Metrics:  a.metrics,
	})
}

func renderHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("CONNECTOME %s", Version)))
	if cmd.Long != "" {
		fmt.Fprintln(out, cmd.Long)
	} else {
		fmt.Fprintln(out, cmd.Short)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, titleStyle.Render("USAGE"))
	fmt.Fprintf(out, "  %s\n\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(out, titleStyle.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Fprintf(out, "  %-12s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, titleStyle.Render("FLAGS"))
	visit := func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		line := fmt.Sprintf("  --%-15s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			line += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Fprintln(out, mutedStyle.Render(line))
	}
	cmd.LocalFlags().VisitAll(visit)
	cmd.InheritedFlags().VisitAll(visit)
	fmt.Fprintln(out)
}
