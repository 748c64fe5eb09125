package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inodb/genoloc/internal/location"
)

func newParseCmd() *cobra.Command {
	var circular int

	cmd := &cobra.Command{
		Use:   "parse <location>...",
		Short: "Parse and normalize feature locations",
		Long: `Parse EMBL/GenBank location strings and print their canonical form with
strand, bounds, length, and segments.`,
		Example: `  genoloc parse 'complement(<1..>3)'
  genoloc parse '1..6,6..11'
  genoloc parse --circular 12 '11..4'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "#Input\tLocation\tStrand\tMin\tMax\tLength\tSegments")
			for _, text := range args {
				loc, err := parseLocation(text, circular)
				if err != nil {
					return err
				}
				segs := make([]string, loc.Len())
				for i, s := range loc.Segments() {
					segs[i] = s.String()
				}
				fmt.Fprintf(out, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					text, location.Format(loc), loc.Strand(), loc.Min(), loc.Max(), loc.Length(),
					strings.Join(segs, ";"))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&circular, "circular", 0, "Length of the circular sequence the location is drawn against")

	return cmd
}

func parseLocation(text string, circular int) (location.Location, error) {
	if circular > 0 {
		return location.ParseCircular(text, circular)
	}
	return location.Parse(text)
}
