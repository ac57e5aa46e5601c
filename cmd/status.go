package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/placelink-cli/internal/verify"
)

var statusProgress string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved progress of a verification run",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := verify.LoadProgress(statusProgress)
		if err != nil {
			return err
		}
		verify.RenderProgress(os.Stdout, st)
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVarP(&statusProgress, "progress", "p", "progress.json", "progress checkpoint file")
	rootCmd.AddCommand(statusCmd)
}
