package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"familytree/internal/codec"
	"familytree/internal/config"
	"familytree/internal/logger"
	"familytree/internal/service"
	"familytree/internal/watcher"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type globalFlags struct {
	configPath string
	logLevel   string
}

// app bundles everything a command needs
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	svc      *service.FamilyService
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Family tree relationship inference",
		Long: `familytree loads a population of person records, completes the
relationships they imply (children, parents, partners, siblings) and
prints the resulting family tree.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(reportCmd(&flags))
	cmd.AddCommand(watchCmd(&flags))
	cmd.AddCommand(statsCmd(&flags))
	cmd.AddCommand(initCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

// newApp loads config, looking beside dataFile as well, and wires the service
func newApp(flags *globalFlags, dataFile string) (*app, error) {
	// A missing .env file is not an error
	_ = godotenv.Load()

	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, _, err = config.LoadFromPath(flags.configPath)
	} else {
		cfg, _, err = config.Load(filepath.Dir(dataFile))
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Debug("Configuration loaded", zap.String("summary", cfg.Summary()))

	registry := prometheus.NewRegistry()
	svc := service.NewFamilyService(service.Options{
		Policy:           cfg.Inference.PartnerPolicy,
		RederiveOnImport: cfg.Inference.RederiveOnImport,
		Logger:           log,
		Metrics:          service.NewMetrics(registry),
	})

	return &app{cfg: cfg, logger: log, registry: registry, svc: svc}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func (a *app) importFile(path string) (*service.ImportResult, error) {
	c, err := codec.ForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open population: %w", err)
	}
	defer f.Close()

	return a.svc.ImportFrom(f, c)
}

func (a *app) reloadFile(path string) (*service.ImportResult, error) {
	c, err := codec.ForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open population: %w", err)
	}
	defer f.Close()

	fragment, err := c.Parse(f)
	if err != nil {
		return nil, err
	}
	return a.svc.Reload(fragment)
}

func (a *app) writeReport(w io.Writer, format string) error {
	if format == "text" {
		_, err := io.WriteString(w, a.svc.Report())
		return err
	}
	exporter, err := codec.ForFormat(format)
	if err != nil {
		return err
	}
	return a.svc.Export(w, exporter)
}

func reportCmd(flags *globalFlags) *cobra.Command {
	var (
		file     string
		format   string
		rederive bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Load a population file and print the inferred family tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, file)
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := a.importFile(file); err != nil {
				return err
			}
			if rederive {
				a.svc.Rederive()
			}
			if format == "" {
				format = a.cfg.Report.Format
			}
			return a.writeReport(cmd.OutOrStdout(), format)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Population file (.yaml or .json)")
	cmd.Flags().StringVar(&format, "format", "", "Output format (text, yaml, json); defaults to report.format")
	cmd.Flags().BoolVar(&rederive, "rederive", false, "Run a full inference pass after loading")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func watchCmd(flags *globalFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint the family tree whenever the population file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, file)
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			if _, err := a.importFile(file); err != nil {
				return err
			}
			if err := a.writeReport(out, a.cfg.Report.Format); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := watcher.New(file, func() {
				if _, err := a.reloadFile(file); err != nil {
					a.logger.Error("Reload failed", zap.String("path", file), zap.Error(err))
					return
				}
				if err := a.writeReport(out, a.cfg.Report.Format); err != nil {
					a.logger.Error("Report failed", zap.Error(err))
				}
			}).WithDebounce(a.cfg.WatchDebounce()).WithLogger(a.logger)

			if err := w.Watch(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Population file (.yaml or .json)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func statsCmd(flags *globalFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Load a population file and print inference metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, file)
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := a.importFile(file); err != nil {
				return err
			}
			return a.writeStats(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Population file (.yaml or .json)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// writeStats prints one line per metric sample, sorted by name
func (a *app) writeStats(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, lp := range m.GetLabel() {
				name += fmt.Sprintf("{%s=%q}", lp.GetName(), lp.GetValue())
			}
			value := m.GetCounter().GetValue()
			if g := m.GetGauge(); g != nil {
				value = g.GetValue()
			}
			lines = append(lines, fmt.Sprintf("%s %g", name, value))
		}
	}
	sort.Strings(lines)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, c := range a.svc.Conflicts() {
		if _, err := fmt.Fprintln(w, c.String()); err != nil {
			return err
		}
	}
	return nil
}

func initCmd() *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Destination (default: XDG config directory)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}
