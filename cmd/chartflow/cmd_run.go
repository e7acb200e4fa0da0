package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ib-77/chartflow/pkg/correlate"
	"github.com/ib-77/chartflow/pkg/registry"
	"github.com/ib-77/chartflow/pkg/unit"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		input  string
		legacy bool
	)

	cmd := &cobra.Command{
		Use:   "run <chart-type> <action>",
		Short: "Send one request to a chart unit and print the reply",
		Long: `Starts the unit for chart-type, sends action with the payload read from
--input and prints the chart data. Without --input the unit falls back to its
built-in sample dataset.

Example:
  chartflow run growth calculateCAGR --input - <<< '{"startValue":100,"endValue":800,"years":3}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := registry.ParseChartType(args[0])
			if err != nil {
				return err
			}
			action := unit.Action(args[1])

			payload, err := readInput(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}

			reg, err := a.registry()
			if err != nil {
				return err
			}

			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			var data json.RawMessage
			if legacy {
				u, err := reg.Create(ctx, ct)
				if err != nil {
					return err
				}
				defer drainUnit(u)
				defer u.Terminate()
				data, err = correlate.Request(ctx, u, action, payload)
				if err != nil {
					return err
				}
			} else {
				client, err := reg.Open(ctx, ct)
				if err != nil {
					return err
				}
				defer client.Close()
				data, err = client.Call(ctx, action, payload)
				if err != nil {
					return err
				}
			}

			a.logger.Debug("reply received",
				zap.String("chart_type", string(ct)),
				zap.String("action", string(action)),
				zap.Int("bytes", len(data)))
			return writeJSON(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON payload file, - for stdin")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "Use the uncorrelated one-shot exchange")
	return cmd
}

func drainUnit(u *unit.Unit) {
	for range u.Replies() {
	}
}
