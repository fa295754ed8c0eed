package cmd

import (
	"fmt"

	"github.com/evolbioinfo/ebd/diversity"
	"github.com/spf13/cobra"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Computes every calculator compatible with the given inputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := buildLogger()
		tbl, err := loadTable(log)
		if err != nil {
			return err
		}
		t, err := loadTree(log)
		if err != nil {
			return err
		}
		mrca, err := resolveMRCA()
		if err != nil {
			return err
		}
		out, err := openOutput()
		if err != nil {
			return err
		}
		defer out.Close()

		for _, k := range diversity.All() {
			if k.RequiresTree() && t == nil {
				log.Debug().Str("calculator", k.Name()).Msg("skipping: requires a phylogenetic tree")
				continue
			}
			w := weighted
			if !k.SupportsUnweighted() {
				w = true
			}
			e, err := diversity.Open(tbl, t, k, diversity.Options{
				Weighted: w, UseCounts: useCounts, MRCA: mrca, MaxDataVecs: maxDataVecs,
			}, log)
			if err != nil {
				return err
			}
			m, err := e.All()
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(out, "# %s\n", k.Name()); err != nil {
				return err
			}
			if err := writeMatrix(out, tbl.SampleNames(), m); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(allCmd)
}
