package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List chart types and the actions their units serve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CHART TYPE\tACTIONS")
			for _, ct := range reg.Types() {
				ep, err := reg.Endpoint(ct)
				if err != nil {
					return err
				}
				names := make([]string, len(ep.Actions))
				for i, action := range ep.Actions {
					names[i] = string(action)
				}
				fmt.Fprintf(w, "%s\t%s\n", ct, strings.Join(names, ", "))
			}
			return w.Flush()
		},
	}
}
