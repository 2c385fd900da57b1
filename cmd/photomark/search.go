package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/photomark/search"
)

func newSearchCmd(flags *rootFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Search the photo catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			provider, err := newProvider(cfg)
			if err != nil {
				return err
			}
			s := search.NewSearcher(provider, search.WithPerPage(cfg.Pexels.PerPage))
			defer s.Close()

			results, err := s.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPHOTOGRAPHER\tURL")
			for _, r := range results {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", r.ID, r.PhotographerName, r.FullSizeURL)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}
