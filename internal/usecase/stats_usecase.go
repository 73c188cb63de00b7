package usecase

import (
	"context"

	repo "shopbot/internal/repository"
)

// 管理者向けレポート。
type StatsUsecase struct {
	statsRepo  repo.StatsRepository
	reviewRepo repo.ReviewRepository
}

func NewStatsUsecase(statsRepo repo.StatsRepository, reviewRepo repo.ReviewRepository) *StatsUsecase {
	return &StatsUsecase{statsRepo: statsRepo, reviewRepo: reviewRepo}
}

type StatsOutput struct {
	repo.StoreStats
	ReviewCount int64
	AvgRating   float64
}

func (u *StatsUsecase) Report(ctx context.Context) (StatsOutput, error) {
	stats, err := u.statsRepo.Summary(ctx)
	if err != nil {
		return StatsOutput{}, err
	}

	avg, count, err := u.reviewRepo.AverageRating(ctx)
	if err != nil {
		return StatsOutput{}, err
	}

	return StatsOutput{StoreStats: stats, ReviewCount: count, AvgRating: avg}, nil
}
