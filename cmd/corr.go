package cmd

import (
	"fmt"
	"strings"

	"github.com/evolbioinfo/ebd/correlate"
	"github.com/evolbioinfo/ebd/diversity"
	"github.com/spf13/cobra"
)

var (
	corrCalcs     []string
	corrThreshold float64
)

var corrCmd = &cobra.Command{
	Use:   "corr",
	Short: "Correlates several calculators' outputs and groups the redundant ones",
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

		var kinds []diversity.Kind
		if len(corrCalcs) == 0 {
			kinds = diversity.All()
		} else {
			for _, name := range corrCalcs {
				k, err := diversity.ByName(name)
				if err != nil {
					return err
				}
				kinds = append(kinds, k)
			}
		}
		usable := kinds[:0:0]
		for _, k := range kinds {
			if k.RequiresTree() && t == nil {
				log.Debug().Str("calculator", k.Name()).Msg("skipping: requires a phylogenetic tree")
				continue
			}
			usable = append(usable, k)
		}

		res, err := correlate.Run(tbl, t, usable, correlate.Options{
			Weighted: weighted, MRCA: mrca, MaxDataVecs: maxDataVecs, Threshold: corrThreshold,
		}, log)
		if err != nil {
			return err
		}

		out, err := openOutput()
		if err != nil {
			return err
		}
		defer out.Close()
		for _, g := range res.Groups {
			names := make([]string, len(g))
			for i, k := range g {
				names[i] = k.Name()
			}
			if _, err := fmt.Fprintln(out, strings.Join(names, "\t")); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	corrCmd.Flags().StringSliceVarP(&corrCalcs, "calculators", "c", nil, "calculators to correlate (default: every calculator compatible with the given inputs)")
	corrCmd.Flags().Float64Var(&corrThreshold, "threshold", 0.05, "1-r distance below which calculators are grouped together")
	rootCmd.AddCommand(corrCmd)
}
