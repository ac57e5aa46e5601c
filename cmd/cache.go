package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/placelink-cli/internal/store"
)

var cachePath string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or purge the lookup cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lookup cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := openCache()
		if err != nil {
			return err
		}
		defer cache.Close()

		stats, err := cache.CollectStats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("entries: %d\n", stats.Entries)
		if stats.Entries > 0 {
			fmt.Printf("oldest:  %s\n", stats.Oldest.Format(time.RFC3339))
			fmt.Printf("newest:  %s\n", stats.Newest.Format(time.RFC3339))
		}
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all cached lookups",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := openCache()
		if err != nil {
			return err
		}
		defer cache.Close()

		n, err := cache.Purge(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("purged %d entries\n", n)
		return nil
	},
}

func openCache() (*store.Cache, error) {
	path := cachePath
	if path == "" {
		path = cfg.Cache.Path
	}
	if path == "" {
		return nil, eris.New("no cache path configured (set cache.path or --cache)")
	}
	cache, err := store.Open(path, time.Duration(cfg.Cache.TTLHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	if err := cache.Migrate(context.Background()); err != nil {
		cache.Close()
		return nil, err
	}
	return cache, nil
}

func init() {
	cacheCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "path to the lookup cache database (overrides config)")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
