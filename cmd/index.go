package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ashaai/asha-server/internal/listings"
	"github.com/ashaai/asha-server/internal/vectordb"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the listings index from the CSV datasets",
	Long: `Reads the job and event CSV datasets, formats and chunks each record,
embeds the chunks and writes the index snapshot to the data directory.
The serve command loads this snapshot at startup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		store, err := vectordb.NewChromemStore(embedder)
		if err != nil {
			return fmt.Errorf("creating vector store: %w", err)
		}

		ctx := context.Background()
		if err := buildIndex(ctx, cfg, store, true, log); err != nil {
			return err
		}

		if err := store.Persist(ctx, vectorDir(cfg)); err != nil {
			return fmt.Errorf("persisting index: %w", err)
		}

		log.Info().
			Int("jobs", store.Count(listings.CategoryJobs)).
			Int("events", store.Count(listings.CategoryEvents)).
			Str("dir", vectorDir(cfg)).
			Msg("index written")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
