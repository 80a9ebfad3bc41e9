package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ashaai/asha-server/internal/chat"
	"github.com/ashaai/asha-server/internal/server"
	"github.com/ashaai/asha-server/internal/vectordb"
	"github.com/ashaai/asha-server/internal/websearch"
)

var (
	servePort    int
	serveRebuild bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Asha HTTP server",
	Long: `Starts the Asha server. The listings index is loaded from disk when a
snapshot exists; otherwise it is built from the CSV datasets on the
first query. Pass --rebuild to force a fresh build at startup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.Server.Port = servePort
		}

		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		store, err := vectordb.NewChromemStore(embedder)
		if err != nil {
			return fmt.Errorf("creating vector store: %w", err)
		}

		loaded := false
		if !serveRebuild {
			if err := store.Load(context.Background(), vectorDir(cfg)); err != nil {
				log.Warn().Err(err).Str("dir", vectorDir(cfg)).Msg("no usable index snapshot, will build from datasets")
			} else {
				loaded = true
			}
		}

		llmProvider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}

		searcher, err := websearch.NewSearcher(string(cfg.SearchProvider))
		if err != nil {
			return fmt.Errorf("creating web search client: %w", err)
		}

		sessions, closeSessions, err := createSessionStore(cfg)
		if err != nil {
			return err
		}
		defer closeSessions()

		var indexFn func(ctx context.Context) error
		if !loaded {
			indexFn = func(ctx context.Context) error {
				return buildIndex(ctx, cfg, store, false, log)
			}
		}

		engine := chat.NewEngine(chat.Options{
			Store:       store,
			Provider:    llmProvider,
			Searcher:    searcher,
			Sessions:    sessions,
			Model:       cfg.Model,
			TopK:        cfg.Index.TopK,
			CallTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			IndexFn:     indexFn,
			Logger:      log,
		})

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			Timeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			AllowAll: cfg.Server.AllowAllCORS,
		}, engine, sessions, store, log)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Build the index before accepting traffic so the first query
		// does not pay the build cost.
		if err := engine.EnsureIndex(ctx); err != nil {
			return fmt.Errorf("building index: %w", err)
		}

		go func() {
			<-ctx.Done()
			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("shutdown")
			}
		}()

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveRebuild, "rebuild", false, "rebuild the index from datasets at startup")
	rootCmd.AddCommand(serveCmd)
}
