package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/genoloc/internal/codon"
	"github.com/inodb/genoloc/internal/duckdb"
	"github.com/inodb/genoloc/internal/feature"
	"github.com/inodb/genoloc/internal/output"
	"github.com/inodb/genoloc/internal/resolve"
)

func newResolveCmd() *cobra.Command {
	var (
		fastaPath  string
		outputFile string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "resolve --fasta <ref.fa> <features.tsv>",
		Short: "Resolve self-overlapping feature locations",
		Long: `Resolve every feature in a tab-delimited feature table against a reference
FASTA. Features whose adjacent segments overlap are trimmed back to codon
boundaries (exact overlap for non-coding features); coding features are
translated and checked for internal stop codons.

The feature table needs the columns id, seq_id and location; kind,
circular_length and genetic_code are optional. Use '-' to read from stdin.`,
		Example: `  genoloc resolve --fasta ref.fa features.tsv
  genoloc resolve --fasta ref.fa.gz -o resolved.tsv features.tsv.gz
  genoloc resolve --fasta ref.fa --cache ~/.genoloc/cache.duckdb features.tsv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fastaPath == "" {
				return usageError{fmt.Errorf("--fasta is required")}
			}
			logger, err := newLogger()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			cachePath := viper.GetString(keyCachePath)
			if noCache {
				cachePath = ""
			}
			return runResolve(args[0], fastaPath, cachePath, outputFile, cmd.OutOrStdout(), logger)
		},
	}

	cmd.Flags().StringVar(&fastaPath, "fasta", "", "Reference FASTA file (plain or .gz)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().Int("workers", 0, "Number of resolver workers (default: number of CPUs)")
	cmd.Flags().String("cache", "", "DuckDB file caching resolution results")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Ignore the configured cache")
	viper.BindPFlag(keyWorkers, cmd.Flags().Lookup("workers"))
	viper.BindPFlag(keyCachePath, cmd.Flags().Lookup("cache"))

	return cmd
}

func runResolve(inputPath, fastaPath, cachePath, outputFile string, stdout io.Writer, logger *zap.Logger) error {
	seqs, err := loadFASTA(fastaPath)
	if err != nil {
		return err
	}
	logger.Info("loaded reference", zap.String("path", fastaPath), zap.Int("sequences", seqs.SequenceCount()))

	code, err := codon.Load(viper.GetInt(keyGeneticCode))
	if err != nil {
		return err
	}
	r := resolve.NewResolver(seqs, code)
	r.SetLogger(logger)
	for id := 1; id <= 33; id++ {
		// per-feature overrides may pick any table poly knows
		if g, err := codon.Load(id); err == nil && id != code.ID() {
			r.AddGeneticCode(g)
		}
	}

	var store *duckdb.Store
	if cachePath != "" {
		store, err = openCache(cachePath, fastaPath, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		r.SetCache(store)
	}

	reader, err := feature.NewReader(inputPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	out := stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var fresh []*resolve.Result
	var collect func(*resolve.Result)
	if store != nil {
		collect = func(res *resolve.Result) {
			if !res.FromCache {
				fresh = append(fresh, res)
			}
		}
	}

	stats, err := r.ResolveAll(reader, output.NewTabWriter(out), viper.GetInt(keyWorkers), collect)
	if err != nil {
		return err
	}

	if store != nil && len(fresh) > 0 {
		if err := store.WriteResults(fresh); err != nil {
			logger.Warn("could not write cache", zap.String("path", cachePath), zap.Error(err))
		}
	}

	logger.Info("resolved features",
		zap.Int("features", stats.Features),
		zap.Int("resolved", stats.Resolved),
		zap.Int("failed", stats.Failed),
		zap.Int("internal_stop", stats.InternalStop),
		zap.Int("cached", stats.Cached))
	return nil
}

func openCache(cachePath, fastaPath string, logger *zap.Logger) (*duckdb.Store, error) {
	store, err := duckdb.Open(cachePath)
	if err != nil {
		return nil, err
	}
	fp, err := duckdb.StatFile(fastaPath)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("stat reference: %w", err)
	}
	stale, err := store.SyncSource(fp)
	if err != nil {
		store.Close()
		return nil, err
	}
	if stale {
		logger.Info("reference changed, cleared cached results", zap.String("cache", cachePath))
	}
	return store, nil
}
