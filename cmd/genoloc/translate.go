package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/genoloc/internal/codon"
	"github.com/inodb/genoloc/internal/feature"
	"github.com/inodb/genoloc/internal/sequence"
)

func newTranslateCmd() *cobra.Command {
	var (
		fastaPath   string
		seqID       string
		circular    bool
		nucleotides bool
	)

	cmd := &cobra.Command{
		Use:   "translate --fasta <ref.fa> --seq-id <id> <location>",
		Short: "Extract and translate the residues a location covers",
		Example: `  genoloc translate --fasta ref.fa --seq-id NC_000913.3 'join(1..6,9..11)'
  genoloc translate --fasta plasmid.fa --seq-id p1 --circular '10..3'
  genoloc translate --fasta ref.fa --seq-id chr1 --nucleotides 'complement(1..30)'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fastaPath == "" || seqID == "" {
				return usageError{fmt.Errorf("--fasta and --seq-id are required")}
			}

			seqs, err := loadFASTA(fastaPath)
			if err != nil {
				return err
			}
			seq := seqs.GetSequence(seqID)
			if seq == "" {
				return fmt.Errorf("sequence %q not found in %s", seqID, fastaPath)
			}

			circularLength := 0
			if circular {
				circularLength = len(seq)
			}
			loc, err := parseLocation(args[0], circularLength)
			if err != nil {
				return err
			}

			if nucleotides {
				nt, err := sequence.Extract(seq, loc)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), nt)
				return nil
			}

			g, err := codon.Load(viper.GetInt(keyGeneticCode))
			if err != nil {
				return err
			}
			protein, err := sequence.Translate(seq, loc, g)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), protein)
			return nil
		},
	}

	cmd.Flags().StringVar(&fastaPath, "fasta", "", "Reference FASTA file (plain or .gz)")
	cmd.Flags().StringVar(&seqID, "seq-id", "", "Sequence ID within the FASTA file")
	cmd.Flags().BoolVar(&circular, "circular", false, "Treat the sequence as circular")
	cmd.Flags().BoolVar(&nucleotides, "nucleotides", false, "Print the extracted nucleotides instead of the protein")

	return cmd
}

func loadFASTA(path string) (*feature.FASTALoader, error) {
	loader := feature.NewFASTALoader(path)
	if err := loader.Load(); err != nil {
		return nil, err
	}
	return loader, nil
}
