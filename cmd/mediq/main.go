package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"mediq/internal/agent"
	"mediq/internal/config"
	"mediq/internal/directory"
	"mediq/internal/livestatus"
	"mediq/internal/llm"
	"mediq/internal/observability"
	"mediq/internal/orchestrator"
	"mediq/internal/rag"
	"mediq/internal/server"
	"mediq/internal/service"
	"mediq/internal/synthesis"
	"mediq/internal/websearch"
)

func main() {
	root := &cobra.Command{
		Use:   "mediq",
		Short: "Hospital outpatient query service",
		Long:  "mediq answers natural-language questions about hospital staff and live outpatient queue status.",
	}

	root.AddCommand(newServeCommand(), newAskCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newServeCommand() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			logger := observability.NewLogger(observability.LogConfig{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
			})

			registry := prometheus.NewRegistry()
			metrics := observability.NewMetrics(registry)

			svc, err := buildService(cmd.Context(), cfg, logger, metrics)
			if err != nil {
				return err
			}

			serverCfg := server.DefaultConfig()
			serverCfg.Host = cfg.Server.Host
			serverCfg.Port = cfg.Server.Port
			srv := server.New(svc, serverCfg, registry, logger)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-stop:
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Stop(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "listen address")
	cmd.Flags().IntVar(&port, "port", 3001, "listen port")
	return cmd
}

func newAskCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "ask [query]",
		Short: "Answer a single query from the command line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := observability.NewLogger(observability.LogConfig{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				Output: os.Stderr,
			})

			svc, err := buildService(cmd.Context(), cfg, logger, nil)
			if err != nil {
				return err
			}

			answer, err := svc.Process(cmd.Context(), args[0], service.Mode(mode))
			if err != nil {
				return err
			}
			fmt.Println(answer.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(service.ModeFull), "pipeline mode: simple, full or agentic")
	return cmd
}

// buildService wires the whole pipeline from configuration. Optional
// sources that are unconfigured or fail to come up are left nil and
// the pipeline degrades around them.
func buildService(ctx context.Context, cfg *config.Config, logger *observability.Logger, metrics *observability.Metrics) (*service.Service, error) {
	dir := directory.Load(cfg.Directory.Path, logger)
	keyword := directory.NewKeywordRetriever(dir)

	llmClient := llm.NewOpenAIClient(llm.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
		Timeout: cfg.OpenAI.Timeout,
	}, logger)

	var vector orchestrator.VectorSearcher
	if dir.Len() > 0 {
		embedder, err := rag.NewEmbedder(rag.EmbedderConfig{
			Model:   cfg.OpenAI.EmbeddingModel,
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		store, err := rag.NewStore("staff-profiles", embedder)
		if err != nil {
			return nil, err
		}
		if err := rag.IndexDirectory(ctx, store, dir); err != nil {
			logger.Warn("vector index build failed, embedding retrieval disabled", "error", err)
		} else {
			vector = rag.NewVectorRetriever(store, logger)
		}
	}

	var web orchestrator.WebSearcher
	if cfg.WebSearchEnabled() {
		web = websearch.NewClient(websearch.Config{APIKey: cfg.Serper.APIKey}, logger)
	} else {
		logger.Warn("web search key not configured, web search disabled")
	}

	var live orchestrator.LiveFetcher
	if cfg.LiveStatusEnabled() {
		renderer := livestatus.NewRenderer(livestatus.RendererConfig{APIKey: cfg.Scraping.APIKey})
		live = livestatus.NewExtractor(renderer, logger)
	} else {
		logger.Warn("page rendering key not configured, live queue status disabled")
	}

	orch := orchestrator.New(keyword, vector, web, live, logger, metrics)
	synth := synthesis.New(llmClient, logger)
	agentRunner := agent.New(llmClient, keyword, vector, web, service.ExpandSearchQuery, logger)

	return service.New(orch, synth, agentRunner, logger, metrics), nil
}
