package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ashaai/asha-server/internal/mcpserver"
	"github.com/ashaai/asha-server/internal/vectordb"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts an MCP server on stdio exposing the listings index as tools.
Run ` + "`asha index`" + ` first so there is a snapshot to serve.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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
		if err := store.Load(context.Background(), vectorDir(cfg)); err != nil {
			return fmt.Errorf("loading index from %s (run `asha index` first): %w", vectorDir(cfg), err)
		}

		// Stdout carries the MCP protocol; nothing may log there.
		return mcpserver.NewServer(store, cfg.Index.TopK).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
