package cmd

import (
	"github.com/evolbioinfo/ebd/diversity"
	"github.com/spf13/cobra"
)

var dissimCalc string

var dissimCmd = &cobra.Command{
	Use:   "dissim",
	Short: "Computes one calculator's full pairwise dissimilarity matrix",
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
		k, err := diversity.ByName(dissimCalc)
		if err != nil {
			return err
		}
		mrca, err := resolveMRCA()
		if err != nil {
			return err
		}
		e, err := diversity.Open(tbl, t, k, diversity.Options{
			Weighted: weighted, UseCounts: useCounts, MRCA: mrca, MaxDataVecs: maxDataVecs,
		}, log)
		if err != nil {
			return err
		}
		m, err := e.All()
		if err != nil {
			return err
		}
		out, err := openOutput()
		if err != nil {
			return err
		}
		defer out.Close()
		return writeMatrix(out, tbl.SampleNames(), m)
	},
}

func init() {
	dissimCmd.Flags().StringVarP(&dissimCalc, "calculator", "c", "bray-curtis", "calculator name or alias (see `ebd list`)")
	rootCmd.AddCommand(dissimCmd)
}
