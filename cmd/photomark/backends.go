package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/photomark/surface"
)

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List registered rendering backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			available := surface.Available()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPRIORITY\tAVAILABLE")
			for _, name := range surface.List() {
				entry, _ := surface.Default().Get(name)
				fmt.Fprintf(tw, "%s\t%d\t%t\n", name, entry.Priority, slices.Contains(available, name))
			}
			return tw.Flush()
		},
	}
}
