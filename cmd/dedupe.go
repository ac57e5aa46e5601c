package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/placelink-cli/internal/verify"
)

var (
	dedupeInput  string
	dedupeOutput string
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Run the dedup pass over an existing verified output file",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := verify.LoadOutput(dedupeInput)
		if err != nil {
			return err
		}

		cleaned := verify.Clean(records, cfg.Match.CloseM/1000)

		out := dedupeOutput
		if out == "" {
			out = dedupeInput
		}
		if err := verify.SaveOutput(out, cleaned); err != nil {
			return err
		}

		zap.L().Info("deduplicated output written",
			zap.Int("input", len(records)),
			zap.Int("survivors", len(cleaned)),
			zap.String("path", out))
		return nil
	},
}

func init() {
	dedupeCmd.Flags().StringVarP(&dedupeInput, "input", "i", "", "verified output file to clean (required)")
	dedupeCmd.Flags().StringVarP(&dedupeOutput, "output", "o", "", "destination file (defaults to rewriting the input)")
	_ = dedupeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(dedupeCmd)
}
