package repository

import (
	"context"

	"shopbot/internal/domain/model"

	"github.com/shopspring/decimal"
)

// カート表示・確定判定で使うJOIN済みの行。
// InStockは「今の」在庫（追加時点と違うことがある）。
type CartRow struct {
	CartItemID int64
	ProductID  int64
	Name       string
	Price      decimal.Decimal
	Quantity   int64
	InStock    int64
}

// 数量が今の在庫に収まっているか。
func (r CartRow) WithinStock() bool {
	return r.Quantity <= r.InStock
}

func (r CartRow) LineTotal() decimal.Decimal {
	return r.Price.Mul(decimal.NewFromInt(r.Quantity))
}

type CartRepository interface {
	// 商品とJOINした明細一覧。
	ListRows(ctx context.Context, userID int64) ([]CartRow, error)

	FindItem(ctx context.Context, userID int64, productID int64) (model.CartItem, error)

	// 新規明細（quantity=1）。
	Insert(ctx context.Context, item model.CartItem) error

	// quantity+1 が maxQty 以下のときだけ加算する（1文のUPDATEで判定込み）。
	// 加算できなければ false、数量は変えない。
	IncrementIfWithin(ctx context.Context, cartItemID int64, maxQty int64) (bool, error)

	// ユーザーの明細を全削除。
	Clear(ctx context.Context, userID int64) error

	// カート内の合計点数（quantityの合計）。
	CountUnits(ctx context.Context, userID int64) (int64, error)
}
