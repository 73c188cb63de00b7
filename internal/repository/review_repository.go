package repository

import (
	"context"

	"shopbot/internal/domain/model"
)

type ReviewRepository interface {
	// 追記のみ。
	Create(ctx context.Context, review model.Review) (model.Review, error)

	// 新しい順にlimit件。
	ListRecent(ctx context.Context, limit int) ([]model.Review, error)

	// 平均評価と件数。0件なら avg=0, count=0。
	AverageRating(ctx context.Context) (float64, int64, error)
}
