package usecase

import (
	"context"
	"errors"

	"shopbot/internal/domain/model"
	repo "shopbot/internal/repository"
)

// 読み取り専用のカタログ閲覧。
type CatalogUsecase struct {
	productRepo repo.ProductRepository
}

func NewCatalogUsecase(productRepo repo.ProductRepository) *CatalogUsecase {
	return &CatalogUsecase{productRepo: productRepo}
}

// カテゴリ名の一覧（辞書順）。
func (u *CatalogUsecase) Categories(ctx context.Context) ([]string, error) {
	return u.productRepo.ListCategories(ctx)
}

// カテゴリ内の性別タグ。2種類以上あれば呼び出し側は
// 「раздел選択」メニューを先に出す。
func (u *CatalogUsecase) Subdivisions(ctx context.Context, category string) ([]*model.Gender, error) {
	return u.productRepo.ListGenders(ctx, category)
}

// カテゴリ（＋任意で性別）の商品。名前昇順。
func (u *CatalogUsecase) Products(ctx context.Context, category string, gender *model.Gender) ([]model.Product, error) {
	return u.productRepo.ListByCategory(ctx, category, gender)
}

// 全商品。カテゴリ順→名前順（「Все товары」疑似カテゴリ用）。
func (u *CatalogUsecase) AllProducts(ctx context.Context) ([]model.Product, error) {
	return u.productRepo.ListAll(ctx)
}

func (u *CatalogUsecase) ProductByID(ctx context.Context, id int64) (model.Product, error) {
	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// カテゴリ名が実在するか（Idle中の動的コマンド照合用）。
func (u *CatalogUsecase) CategoryExists(ctx context.Context, name string) (bool, error) {
	categories, err := u.productRepo.ListCategories(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range categories {
		if c == name {
			return true, nil
		}
	}
	return false, nil
}
