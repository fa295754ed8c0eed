package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/evolbioinfo/ebd/diversity"
	"github.com/evolbioinfo/ebd/ebderr"
	"github.com/evolbioinfo/ebd/newick"
	"github.com/evolbioinfo/ebd/sampletable"
	"github.com/evolbioinfo/ebd/tree"
	"github.com/rs/zerolog"
)

func loadTable(log zerolog.Logger) (*sampletable.Table, error) {
	if err := requireTable(); err != nil {
		return nil, err
	}
	f, err := os.Open(tablePath)
	if err != nil {
		return nil, ebderr.Wrapf(ebderr.IO, err, "opening sample table %q", tablePath)
	}
	// f is never closed: Table.Row reads from it for the lifetime of the
	// process, exactly like the table package's own streaming contract.
	return sampletable.Open(f, f, log)
}

func loadTree(log zerolog.Logger) (*tree.Tree, error) {
	if treePath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(treePath)
	if err != nil {
		return nil, ebderr.Wrapf(ebderr.IO, err, "reading tree %q", treePath)
	}
	r := newick.Reader{Log: log}
	t, err := r.Read(string(data))
	if err != nil {
		return nil, ebderr.Wrapf(ebderr.InputFormat, err, "parsing tree %q", treePath)
	}
	return t, nil
}

func resolveMRCA() (diversity.MRCAMode, error) {
	switch mrcaMode {
	case "", "none":
		return diversity.NoMRCA, nil
	case "restrict":
		return diversity.RestrictMRCA, nil
	case "strict":
		return diversity.StrictMRCA, nil
	default:
		return 0, ebderr.Newf(ebderr.Config, "unknown --mrca mode %q", mrcaMode)
	}
}

// writeMatrix writes a labeled symmetric matrix as a TSV: a header row of
// sample names, then one row per sample.
func writeMatrix(w io.Writer, labels []string, m [][]float64) error {
	if _, err := fmt.Fprintf(w, "\t%s\n", joinTab(labels)); err != nil {
		return ebderr.Wrap(ebderr.IO, err, "writing matrix header")
	}
	for i, name := range labels {
		row := make([]string, len(m[i]))
		for j, v := range m[i] {
			row[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", name, joinTab(row)); err != nil {
			return ebderr.Wrap(ebderr.IO, err, "writing matrix row")
		}
	}
	return nil
}

func joinTab(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += "\t"
		}
		out += s
	}
	return out
}
