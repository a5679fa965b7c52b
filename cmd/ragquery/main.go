package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopassist/rag/internal/bootstrap"
	"github.com/shopassist/rag/internal/config"
	"github.com/shopassist/rag/internal/core/domain"
)

func main() {
	var (
		model      = flag.String("model", "", "generation model override")
		strategy   = flag.String("strategy", "", "retrieval strategy: bm25, semantic or hybrid")
		topK       = flag.Int("top-k", 0, "number of results to retrieve")
		noRAG      = flag.Bool("no-rag", false, "skip retrieval and build a plain prompt")
		simplified = flag.Bool("simplified", false, "simplified mode (reduced prompts, no filter extraction)")
		metrics    = flag.Bool("metrics", false, "serve /metrics while the query runs")
	)
	flag.Parse()

	query := flag.Arg(0)
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: ragquery [flags] \"query text\"")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if *strategy == "" {
		*strategy = cfg.RetrievalStrategy
	}
	if *topK == 0 {
		*topK = cfg.RetrievalTopK
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	if *metrics {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", app.Metrics.Handler())
			if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil && err != http.ErrServerClosed {
				log.Printf("metrics server error: %v", err)
			}
		}()
	}

	opts := domain.QueryOptions{
		Model:  *model,
		UseRAG: !*noRAG,
		Retrieval: domain.RetrievalConfig{
			RetrieverType: domain.RetrieverType(*strategy),
			TopK:          *topK,
			Alpha:         cfg.RetrievalAlpha,
			K:             cfg.RetrievalRRFK,
			Simplified:    *simplified,
			UseReranker:   cfg.RerankerURL != "",
		},
	}

	result, err := app.Answerer.AnswerQuery(ctx, query, opts)
	if err != nil {
		log.Fatalf("answer query: %v", err)
	}

	fmt.Printf("route: %s\nmodel: %s\npreparation tokens: %d\n\n%s\n",
		result.Route, result.Model, result.TotalTokens, result.Prompt)
}
