package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/genoloc/internal/feature"
	"github.com/inodb/genoloc/internal/index"
	"github.com/inodb/genoloc/internal/output"
)

func newOverlapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overlaps <features.tsv>",
		Short: "Report overlapping pairs of distinct features",
		Long: `Index every feature in a feature table and report each pair of distinct
features on the same sequence that share a coordinate, flagging pairs that
read the shared residues in the same frame.`,
		Example: `  genoloc overlaps features.tsv
  zcat features.tsv.gz | genoloc overlaps -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()
			return runOverlaps(args[0], cmd.OutOrStdout(), logger)
		},
	}
}

func runOverlaps(inputPath string, out io.Writer, logger *zap.Logger) error {
	reader, err := feature.NewReader(inputPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	idx := index.New()
	idx.SetLogger(logger)
	for {
		f, err := reader.Next()
		if err != nil {
			return err
		}
		if f == nil {
			break
		}
		loc, err := parseLocation(f.Location, f.CircularLength)
		if err != nil {
			logger.Warn("skipping feature",
				zap.String("feature", f.ID),
				zap.String("location", f.Location),
				zap.Error(err))
			continue
		}
		if err := idx.Add(f.ID, f.SeqID, loc); err != nil {
			return err
		}
	}

	w := output.NewPairWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	for _, p := range idx.Pairs() {
		if err := w.Write(p); err != nil {
			return err
		}
	}
	return w.Flush()
}
