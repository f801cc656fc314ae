// Command drift runs the particle views in a desktop window and hosts the
// chat assistant on the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phanxgames/drift"
	"github.com/phanxgames/drift/analytics"
	"github.com/phanxgames/drift/internal/config"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	verbose    bool

	cfg       *config.Config
	logger    *zap.Logger
	analytics *analytics.Dispatcher
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "drift",
		Short: "Decorative interactive particle views",
		Long: `drift renders an ambient particle background and a draggable physics
footer in a scrolling window.

Run without arguments to open the full page.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.shutdown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPage(modePage)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "drift.yaml", "path to the YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "page",
			Short: "Open the full page: ambient background and footer playground",
			RunE:  func(cmd *cobra.Command, args []string) error { return a.runPage(modePage) },
		},
		&cobra.Command{
			Use:   "arena",
			Short: "Open only the draggable footer playground",
			RunE:  func(cmd *cobra.Command, args []string) error { return a.runPage(modeArena) },
		},
		&cobra.Command{
			Use:   "ambient",
			Short: "Open only the ambient background",
			RunE:  func(cmd *cobra.Command, args []string) error { return a.runPage(modeAmbient) },
		},
		newChatCmd(a),
	)
	return root
}

func (a *app) init() error {
	zcfg := zap.NewProductionConfig()
	if a.verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	drift.SetLogger(logger.Named("drift"))

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	a.analytics = analytics.NewDispatcher(analytics.Options{
		Endpoint:  cfg.Analytics.Endpoint,
		QueueSize: cfg.Analytics.QueueSize,
		Timeout:   cfg.AnalyticsTimeout(),
		Logger:    logger.Named("analytics"),
	})
	return nil
}

func (a *app) shutdown() {
	if a.analytics != nil {
		a.analytics.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
