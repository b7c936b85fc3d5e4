package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arnavasoni/tango/internal/classify"
	"github.com/arnavasoni/tango/internal/common"
	"github.com/arnavasoni/tango/internal/config"
	"github.com/arnavasoni/tango/internal/engine"
	"github.com/arnavasoni/tango/internal/match"
	"github.com/arnavasoni/tango/internal/similarity"
	"github.com/arnavasoni/tango/internal/storage"
)

// openStorage opens the configured database and applies migrations.
func openStorage(ctx context.Context, settings *config.Settings) (*storage.SQLiteStorage, error) {
	db, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, common.NewUserError("failed to open database", err)
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, common.NewUserError("failed to run migrations", err)
	}
	return db, nil
}

func closeStorage(db *storage.SQLiteStorage) {
	if err := db.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
}

// buildMatchConfig assembles the matcher configuration from settings,
// selecting the semantic scorer provider.
func buildMatchConfig(ctx context.Context, settings *config.Settings) (match.Config, error) {
	cfg := match.Config{
		NameScorer: similarity.NewTokenScorer(),
		Thresholds: settings.Thresholds,
		Tolerance:  settings.Tolerance,
	}

	if settings.SimilarityProvider == "gemini" {
		scorer, err := similarity.NewEmbeddingScorer(ctx, settings.GeminiAPIKey, settings.GeminiModel)
		if err != nil {
			return match.Config{}, fmt.Errorf("failed to create embedding scorer: %w", err)
		}
		cfg.SemanticScorer = scorer
	}

	return cfg, nil
}

// buildReconciler wires the classifier and matcher registry into an engine.
func buildReconciler(ctx context.Context, settings *config.Settings) (*engine.Reconciler, error) {
	cfg, err := buildMatchConfig(ctx, settings)
	if err != nil {
		return nil, err
	}
	return engine.New(classify.New(), match.NewRegistry(cfg)), nil
}
