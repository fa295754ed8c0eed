package cmd

import (
	"github.com/evolbioinfo/ebd/ebderr"
	"github.com/spf13/cobra"
)

var consistencyCmd = &cobra.Command{
	Use:    "consistency",
	Short:  "Computes a per-character consistency index (not implemented)",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ebderr.New(ebderr.Config, "consistency index is not implemented by this core")
	},
}

func init() {
	rootCmd.AddCommand(consistencyCmd)
}
