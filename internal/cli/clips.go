package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/heimdex/bsi-exporter/internal/export"
	"github.com/heimdex/bsi-exporter/internal/settings"
)

const clipsShortDescription = `List the clips of a scene`
const clipsLongDescription = `Command "clips"

List every clip of the scene with its frame span, whether a bulk export
picks it up, and the path it was last exported to.
`

func clipsCommand(root *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "clips",
		Short: clipsShortDescription,
		Long:  clipsLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.loadScene()
			if err != nil {
				return err
			}

			database, repo, err := root.openRepository()
			if err != nil {
				return err
			}
			defer database.Close()

			w := tabwriter.NewWriter(root.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CLIP\tSTART\tSTOP\tFRAMES\tBULK\tLAST EXPORT")
			for _, c := range s.Clips() {
				start, stop := c.Span()
				frames := max(stop-start+1, 1)

				bulk := "no"
				if export.ShouldExport(c.Name()) {
					bulk = "yes"
				}

				last, err := repo.GetConfig(cmd.Context(), settings.ExportPathKey(c.Name()))
				if err != nil {
					return err
				}
				if last == "" {
					last = "-"
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\n", c.Name(), start, stop, frames, bulk, last)
			}
			return w.Flush()
		},
	}
}
