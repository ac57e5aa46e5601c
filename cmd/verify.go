package main

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/placelink-cli/internal/store"
	"github.com/sells-group/placelink-cli/internal/verify"
	"github.com/sells-group/placelink-cli/pkg/places"
)

var (
	verifyInput    string
	verifyOutput   string
	verifyProgress string
	verifyResume   bool
	verifyDedupe   bool
	verifyCache    string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify local records against the place directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Places.APIKey == "" {
			return eris.New("places api key not configured (PLACELINK_PLACES_API_KEY)")
		}

		client := places.NewClient(cfg.Places.APIKey,
			places.WithBaseURL(cfg.Places.BaseURL),
			places.WithIncludedTypes(cfg.Places.IncludedTypes),
			places.WithMaxResults(cfg.Places.MaxResults),
		)

		cachePath := verifyCache
		if cachePath == "" {
			cachePath = cfg.Cache.Path
		}
		if cachePath != "" {
			cache, err := store.Open(cachePath, time.Duration(cfg.Cache.TTLHours)*time.Hour)
			if err != nil {
				return eris.Wrap(err, "open lookup cache")
			}
			defer cache.Close()
			if err := cache.Migrate(ctx); err != nil {
				return err
			}
			client = verify.WithCache(client, cache)
		}

		runner := verify.NewRunner(cfg, client, verify.Options{
			InputPath:    verifyInput,
			OutputPath:   verifyOutput,
			ProgressPath: verifyProgress,
			Resume:       verifyResume,
		})

		summary, err := runner.Run(ctx)
		if err != nil {
			return err
		}
		verify.RenderSummary(os.Stdout, summary)

		if verifyDedupe {
			records, err := verify.LoadOutput(verifyOutput)
			if err != nil {
				return err
			}
			cleaned := verify.Clean(records, cfg.Match.CloseM/1000)
			if err := verify.SaveOutput(verifyOutput, cleaned); err != nil {
				return err
			}
			zap.L().Info("deduplicated output written",
				zap.Int("records", len(cleaned)),
				zap.String("path", verifyOutput))
		}

		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyInput, "input", "i", "", "input JSON file of local records (required)")
	verifyCmd.Flags().StringVarP(&verifyOutput, "output", "o", "verified.json", "output JSON file of verified records")
	verifyCmd.Flags().StringVarP(&verifyProgress, "progress", "p", "progress.json", "progress checkpoint file")
	verifyCmd.Flags().BoolVar(&verifyResume, "resume", false, "resume from the saved progress file")
	verifyCmd.Flags().BoolVar(&verifyDedupe, "dedupe", false, "run the dedup pass after verification")
	verifyCmd.Flags().StringVar(&verifyCache, "cache", "", "path to the lookup cache database (overrides config)")
	_ = verifyCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(verifyCmd)
}
