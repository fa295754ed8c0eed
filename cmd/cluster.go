package cmd

import (
	"fmt"

	"github.com/evolbioinfo/ebd/cluster"
	"github.com/evolbioinfo/ebd/diversity"
	"github.com/evolbioinfo/ebd/newick"
	"github.com/evolbioinfo/ebd/tree"
	"github.com/spf13/cobra"
)

var (
	clusterCalc   string
	clusterMethod string
	clusterNJ     bool
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Clusters samples by their pairwise dissimilarity into a dendrogram",
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
		k, err := diversity.ByName(clusterCalc)
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

		labels := tbl.SampleNames()
		var dendro *tree.Tree
		if clusterNJ {
			dendro, err = cluster.NeighborJoin(m, labels, log)
		} else {
			method, mErr := cluster.ByName(clusterMethod)
			if mErr != nil {
				return mErr
			}
			dendro, err = cluster.Agglomerative(m, labels, method, log)
		}
		if err != nil {
			return err
		}

		out, err := openOutput()
		if err != nil {
			return err
		}
		defer out.Close()
		_, err = fmt.Fprintln(out, newick.Write(dendro))
		return err
	},
}

func init() {
	clusterCmd.Flags().StringVarP(&clusterCalc, "calculator", "c", "bray-curtis", "calculator name or alias (see `ebd list`)")
	clusterCmd.Flags().StringVarP(&clusterMethod, "method", "m", "average", "linkage method: single, complete, average (upgma)")
	clusterCmd.Flags().BoolVar(&clusterNJ, "nj", false, "use neighbour joining instead of agglomerative clustering")
	rootCmd.AddCommand(clusterCmd)
}
