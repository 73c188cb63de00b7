package usecase

import (
	"context"

	"shopbot/internal/domain/model"
	repo "shopbot/internal/repository"
)

type ReviewUsecase struct {
	reviewRepo repo.ReviewRepository
}

func NewReviewUsecase(reviewRepo repo.ReviewRepository) *ReviewUsecase {
	return &ReviewUsecase{reviewRepo: reviewRepo}
}

// 評価は1〜5。コメントは任意。
func (u *ReviewUsecase) Leave(ctx context.Context, userID int64, authorName string, rating int, comment string) (model.Review, error) {
	if rating < 1 || rating > 5 {
		return model.Review{}, ErrValidation
	}

	return u.reviewRepo.Create(ctx, model.Review{
		UserID:     userID,
		AuthorName: authorName,
		Rating:     rating,
		Comment:    comment,
	})
}

type RecentReviewsOutput struct {
	Reviews   []model.Review
	AvgRating float64
	Count     int64
}

func (u *ReviewUsecase) Recent(ctx context.Context, limit int) (RecentReviewsOutput, error) {
	reviews, err := u.reviewRepo.ListRecent(ctx, limit)
	if err != nil {
		return RecentReviewsOutput{}, err
	}

	avg, count, err := u.reviewRepo.AverageRating(ctx)
	if err != nil {
		return RecentReviewsOutput{}, err
	}

	return RecentReviewsOutput{Reviews: reviews, AvgRating: avg, Count: count}, nil
}
