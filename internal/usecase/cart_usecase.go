package usecase

import (
	"context"
	"errors"

	"shopbot/internal/domain/model"
	repo "shopbot/internal/repository"

	"github.com/shopspring/decimal"
)

// カートの業務ロジック。
// 在庫チェックはその時点の値に対するもので、予約ではない。
type CartUsecase struct {
	cartRepo    repo.CartRepository
	productRepo repo.ProductRepository
}

func NewCartUsecase(cartRepo repo.CartRepository, productRepo repo.ProductRepository) *CartUsecase {
	return &CartUsecase{cartRepo: cartRepo, productRepo: productRepo}
}

type AddToCartOutput struct {
	ProductName string
	// 追加後のカート合計点数。
	Units int64
}

// 名前の完全一致で商品を解決して1点追加する。
// 既存明細があれば quantity+1（在庫上限はSQL側で同時判定）、
// 無ければ quantity=1 で新規作成。
func (u *CartUsecase) Add(ctx context.Context, userID int64, productName string) (AddToCartOutput, error) {
	p, err := u.productRepo.FindByName(ctx, productName)
	if errors.Is(err, repo.ErrNotFound) {
		return AddToCartOutput{}, ErrNotFound
	}
	if err != nil {
		return AddToCartOutput{}, err
	}

	if p.InStock == 0 {
		return AddToCartOutput{}, ErrOutOfStock
	}

	item, err := u.cartRepo.FindItem(ctx, userID, p.ID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		if err := u.cartRepo.Insert(ctx, model.CartItem{
			UserID:    userID,
			ProductID: p.ID,
			Quantity:  1,
		}); err != nil {
			return AddToCartOutput{}, err
		}

	case err != nil:
		return AddToCartOutput{}, err

	default:
		ok, err := u.cartRepo.IncrementIfWithin(ctx, item.ID, p.InStock)
		if err != nil {
			return AddToCartOutput{}, err
		}
		if !ok {
			//数量は変えない
			return AddToCartOutput{}, &CapacityError{ProductName: p.Name, InStock: p.InStock}
		}
	}

	units, err := u.cartRepo.CountUnits(ctx, userID)
	if err != nil {
		return AddToCartOutput{}, err
	}

	return AddToCartOutput{ProductName: p.Name, Units: units}, nil
}

// 商品とJOINした明細一覧。各行は「今の」在庫との比較でOK/超過が判る。
func (u *CartUsecase) List(ctx context.Context, userID int64) ([]repo.CartRow, error) {
	return u.cartRepo.ListRows(ctx, userID)
}

func (u *CartUsecase) Clear(ctx context.Context, userID int64) error {
	return u.cartRepo.Clear(ctx, userID)
}

// 全明細の合計金額。表示用（超過行も含めて足す）。
func Subtotal(rows []repo.CartRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.LineTotal())
	}
	return total
}

// 数量が今の在庫を超えている行。
func Unavailable(rows []repo.CartRow) []repo.CartRow {
	var bad []repo.CartRow
	for _, r := range rows {
		if !r.WithinStock() {
			bad = append(bad, r)
		}
	}
	return bad
}
