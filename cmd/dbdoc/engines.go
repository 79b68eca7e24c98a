package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/redbco/redb-dbdoc/internal/catalog"
)

func newEnginesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List supported database engines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPORT\tDRIVER\tALIASES")
			for _, id := range catalog.ListRegistered() {
				engine, err := catalog.GlobalRegistry().Get(id)
				if err != nil {
					return err
				}
				c := engine.Capabilities()
				driver := c.DefaultDriver
				if c.BuildTag != "" {
					driver += " (-tags " + c.BuildTag + ")"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", c.ID, c.Name, c.DefaultPort, driver, strings.Join(c.Aliases, ", "))
			}
			return w.Flush()
		},
	}
}
