// Command backfill runs the monetization engine across a batch of existing
// articles, throttling between iterations so the storage backend is not
// overwhelmed. Failures are recorded per article; the run always continues.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"MonetizationEngine/internal/config"
	"MonetizationEngine/internal/domain"
	"MonetizationEngine/internal/engine"
	"MonetizationEngine/internal/infrastructure/storage"
	"MonetizationEngine/internal/logging"
)

type batchArticle struct {
	ArticleID       string `json:"articleId"`
	CategoryID      int    `json:"categoryId"`
	ConcentrationID int    `json:"concentrationId"`
	DegreeLevelCode int    `json:"degreeLevelCode"`
	ArticleType     string `json:"articleType"`
}

type batchOutcome struct {
	ArticleID string                 `json:"articleId"`
	Error     string                 `json:"error,omitempty"`
	Result    *domain.GenerateResult `json:"result,omitempty"`
}

func main() {
	var (
		articlesPath string
		outPath      string
		delay        time.Duration
	)

	root := &cobra.Command{
		Use:   "backfill",
		Short: "Generate monetization for a batch of articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), articlesPath, outPath, delay)
		},
	}
	root.Flags().StringVar(&articlesPath, "articles", "", "path to a JSON array of articles to process")
	root.Flags().StringVar(&outPath, "out", "", "path for JSON-lines outcomes (default stdout)")
	root.Flags().DurationVar(&delay, "delay", 500*time.Millisecond, "pause between articles")
	_ = root.MarkFlagRequired("articles")

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, articlesPath, outPath string, delay time.Duration) error {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format).With("component", "backfill")

	raw, err := os.ReadFile(articlesPath)
	if err != nil {
		return fmt.Errorf("read articles: %w", err)
	}
	var articles []batchArticle
	if err := json.Unmarshal(raw, &articles); err != nil {
		return fmt.Errorf("parse articles: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	catalog := storage.NewPostgresCatalog(db)
	taxonomy, err := catalog.ListTaxonomy(ctx)
	if err != nil {
		return fmt.Errorf("load taxonomy: %w", err)
	}
	levels, err := catalog.ListDegreeLevels(ctx)
	if err != nil {
		return fmt.Errorf("load degree levels: %w", err)
	}

	eng := engine.New(cfg.Engine, catalog, taxonomy, levels, logger)

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	encoder := json.NewEncoder(out)

	failures := 0
	for i, article := range articles {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled after %d of %d articles: %w", i, len(articles), err)
		}

		result := eng.Generate(ctx, domain.MonetizationRequest{
			ArticleID:       article.ArticleID,
			CategoryID:      article.CategoryID,
			ConcentrationID: article.ConcentrationID,
			DegreeLevelCode: article.DegreeLevelCode,
			ArticleType:     article.ArticleType,
		})

		outcome := batchOutcome{ArticleID: article.ArticleID}
		if result.Success {
			outcome.Result = &result
			logger.Info("article processed",
				"article", article.ArticleID,
				"programs", result.TotalProgramsSelected)
		} else {
			failures++
			outcome.Error = result.Error
			logger.Warn("article failed", "article", article.ArticleID, "error", result.Error)
		}
		if err := encoder.Encode(outcome); err != nil {
			return fmt.Errorf("write outcome for %s: %w", article.ArticleID, err)
		}

		// Throttle between iterations; the rate limit belongs to the
		// storage backend, not the engine.
		if i < len(articles)-1 && delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("cancelled during throttle: %w", ctx.Err())
			}
		}
	}

	logger.Info("backfill finished", "articles", len(articles), "failures", failures)
	return nil
}
