package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ib-77/chartflow/pkg/registry"
	"github.com/ib-77/chartflow/pkg/rop"
	"github.com/ib-77/chartflow/pkg/unit"
)

type batchItem struct {
	Action  unit.Action     `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type batchResult struct {
	Action unit.Action     `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		input    string
		failFast bool
	)

	cmd := &cobra.Command{
		Use:   "batch <chart-type>",
		Short: "Send many requests concurrently over one shared channel",
		Long: `Reads a JSON array of {"action": ..., "payload": {...}} items from --input
and sends them all at once through a single correlated channel. Replies are
printed in input order whatever order the unit answered in.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := registry.ParseChartType(args[0])
			if err != nil {
				return err
			}

			raw, err := readInput(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}
			var items []batchItem
			if raw != nil {
				if err := json.Unmarshal(raw, &items); err != nil {
					return fmt.Errorf("batch input must be an array of items: %w", err)
				}
			}

			reg, err := a.registry()
			if err != nil {
				return err
			}

			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			client, err := reg.Open(ctx, ct)
			if err != nil {
				return err
			}
			defer client.Close()

			results := make([]batchResult, len(items))
			failures := make([]error, len(items))
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(a.cfg.Execution.Workers)
			for i, item := range items {
				g.Go(func() error {
					results[i].Action = item.Action
					data, err := client.Call(gctx, item.Action, item.Payload)
					if err != nil {
						if failFast {
							return fmt.Errorf("item %d (%s): %w", i, item.Action, err)
						}
						results[i].Error = err.Error()
						failures[i] = fmt.Errorf("item %d (%s): %w", i, item.Action, err)
						return nil
					}
					results[i].Data = data
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			failed := rop.Errors(errors.Join(failures...))
			for _, err := range failed {
				a.logger.Warn("batch item failed", zap.Error(err))
			}
			a.logger.Info("batch complete",
				zap.String("chart_type", string(ct)),
				zap.Int("items", len(items)),
				zap.Int("failed", len(failed)))
			return writeJSON(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "JSON array file, - for stdin")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first failed item")
	return cmd
}
