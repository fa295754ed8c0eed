// Package cmd implements the ebd command-line front end: a cobra-based CLI
// over the tree/sampletable/vectorize/diversity/cluster/correlate packages,
// following the teacher's package-level flag-variable convention (flag
// targets declared here, bound to their command in each subcommand's
// init()).
package cmd

import (
	"fmt"
	"os"

	"github.com/evolbioinfo/ebd/ebderr"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	treePath    string
	tablePath   string
	weighted    bool
	useCounts   bool
	mrcaMode    string
	maxDataVecs int
	verbose     bool
	outputPath  string
)

var rootCmd = &cobra.Command{
	Use:   "ebd",
	Short: "Computes ecological β-diversity dissimilarities between samples",
	Long: `ebd compares microbial community samples in a taxon-count table,
optionally weighting the comparison by a phylogenetic tree, using any of a
catalogue of dissimilarity measures (Bray-Curtis, UniFrac, and others).`,
	SilenceUsage: true,
}

// Execute runs the root command; main() calls this and exits non-zero on
// error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&tablePath, "table", "s", "", "sample×taxon count table (TSV, required)")
	rootCmd.PersistentFlags().StringVarP(&treePath, "tree", "i", "", "Newick phylogenetic tree (omit for unweighted/star-tree mode)")
	rootCmd.PersistentFlags().BoolVarP(&weighted, "weighted", "w", true, "use abundance-weighted branch vectors instead of presence/absence")
	rootCmd.PersistentFlags().BoolVar(&useCounts, "use-counts", false, "use raw counts instead of normalizing to proportions")
	rootCmd.PersistentFlags().StringVar(&mrcaMode, "mrca", "none", "MRCA restriction mode: none, restrict, strict")
	rootCmd.PersistentFlags().IntVar(&maxDataVecs, "max-data-vecs", 0, "block size for streaming evaluation (0: load every sample)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
}

func buildLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func openOutput() (*os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, ebderr.Wrapf(ebderr.IO, err, "creating output file %q", outputPath)
	}
	return f, nil
}

func requireTable() error {
	if tablePath == "" {
		return ebderr.New(ebderr.Config, "--table is required")
	}
	return nil
}
