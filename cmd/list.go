package cmd

import (
	"fmt"

	"github.com/evolbioinfo/ebd/diversity"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists every calculator in the catalogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := openOutput()
		if err != nil {
			return err
		}
		defer out.Close()
		for _, line := range diversity.List() {
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
