package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ib-77/chartflow/internal/config"
	"github.com/ib-77/chartflow/internal/logging"
	"github.com/ib-77/chartflow/pkg/registry"
	"github.com/ib-77/chartflow/pkg/unit"
)

// app is the state shared by every command once the root has run.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "chartflow",
		Short: "Turn business datasets into chart-ready data",
		Long: `chartflow runs chart transforms inside isolated execution units and
talks to them over a correlated request/reply channel.

Every command that computes something starts the unit for one chart type,
sends it JSON requests and prints the JSON replies.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg

			a.logger, err = logging.New(cfg.Logging, a.verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "chartflow.yaml", "Config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newTypesCmd(a),
		newRunCmd(a),
		newBatchCmd(a),
		newSampleCmd(a),
		newInitConfigCmd(a),
	)
	return root
}

// registry builds the chart type registry described by the loaded config.
func (a *app) registry() (*registry.Registry, error) {
	opts := []registry.Option{
		registry.WithLogger(a.logger),
		registry.WithUnitOptions(
			unit.WithWorkers(a.cfg.Execution.Workers),
			unit.WithQueueSize(a.cfg.Execution.QueueSize),
		),
	}
	for name, actions := range a.cfg.Endpoints {
		ct, err := registry.ParseChartType(name)
		if err != nil {
			return nil, fmt.Errorf("config endpoints: %w", err)
		}
		ep := unit.Endpoint{Name: string(ct)}
		for _, action := range actions {
			ep.Actions = append(ep.Actions, unit.Action(action))
		}
		if err := ep.Validate(context.Background()); err != nil {
			return nil, fmt.Errorf("config endpoints: %w", err)
		}
		opts = append(opts, registry.WithEndpoint(ct, ep))
	}
	return registry.New(opts...), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
