// Command leaderboard rebuilds the cross-day leaderboard workbook from the
// stored summaries and optionally pushes it to the shared repository.
package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/padmanaresh1986/fitness-app/internal/config"
	"github.com/padmanaresh1986/fitness-app/internal/domain"
	"github.com/padmanaresh1986/fitness-app/internal/excel"
	"github.com/padmanaresh1986/fitness-app/internal/github"
	"github.com/padmanaresh1986/fitness-app/internal/logging"
	persistence "github.com/padmanaresh1986/fitness-app/internal/persistence/postgres"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		logger.Fatal("connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	repo := persistence.NewRepository(pool)

	summaries, err := repo.AllDailySummaries(ctx)
	if err != nil {
		logger.Fatal("load daily summaries", zap.Error(err))
	}

	entries, err := domain.BuildLeaderboard(summaries)
	if err != nil {
		logger.Fatal("build leaderboard", zap.Error(err))
	}

	exporter := excel.NewExporter(cfg.DataDir)
	path, err := exporter.WriteLeaderboardWorkbook("", entries)
	if err != nil {
		logger.Fatal("write leaderboard workbook", zap.Error(err))
	}
	logger.Info("leaderboard workbook written",
		zap.String("path", path),
		zap.Int("participants", len(entries)),
	)

	for i, entry := range entries {
		if i == 3 {
			break
		}
		logger.Info("leaderboard standing",
			zap.Int("rank", entry.Rank),
			zap.String("user", entry.UserID),
			zap.Int("total_points", entry.TotalPoints),
		)
	}

	if cfg.GitHubToken == "" {
		return
	}

	uploader := github.NewUploader(cfg.GitHubToken, cfg.GitHubOwner, cfg.GitHubRepo, cfg.GitHubBranch, cfg.CommitMessage)
	url, err := uploader.Upload(ctx, path, "data/leaderboard.xlsx")
	if err != nil {
		logger.Fatal("push leaderboard workbook", zap.Error(err))
	}
	logger.Info("leaderboard workbook pushed", zap.String("url", url))
}
