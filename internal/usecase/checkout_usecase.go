package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopbot/internal/domain/model"
	repo "shopbot/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// 配送料ポリシー。
// 住所に市内トークンが含まれ、かつ小計が閾値未満なら市内料金、
// 閾値以上なら無料。トークンが無ければ小計に関わらず市外料金。
type DeliveryPolicy struct {
	CityToken     string
	InCityFee     decimal.Decimal
	OutOfCityFee  decimal.Decimal
	FreeThreshold decimal.Decimal
}

func (p DeliveryPolicy) Fee(address string, subtotal decimal.Decimal) decimal.Decimal {
	if strings.Contains(strings.ToLower(address), strings.ToLower(p.CityToken)) {
		if subtotal.GreaterThanOrEqual(p.FreeThreshold) {
			return decimal.Zero
		}
		return p.InCityFee
	}
	return p.OutOfCityFee
}

// チェックアウト。入口ガードと確定処理。
type CheckoutUsecase struct {
	tx       repo.TransactionManager
	cartRepo repo.CartRepository
	policy   DeliveryPolicy

	// 確定時に在庫を減らすか。既定はfalse：在庫は管理者が
	// 編集ウィザードで手動調整する運用（出荷可能な現物数を表す）。
	deductStock bool
}

func NewCheckoutUsecase(tx repo.TransactionManager, cartRepo repo.CartRepository, policy DeliveryPolicy, deductStock bool) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx, cartRepo: cartRepo, policy: policy, deductStock: deductStock}
}

// 入口ガード：カートが空でなく、全行が在庫内であること。
// 在庫超過行があれば UnavailableError（現在の在庫数つき）。
func (u *CheckoutUsecase) CheckCart(ctx context.Context, userID int64) ([]repo.CartRow, error) {
	rows, err := u.cartRepo.ListRows(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrCartEmpty
	}
	if bad := Unavailable(rows); len(bad) > 0 {
		return nil, &UnavailableError{Rows: bad}
	}
	return rows, nil
}

type FinalizeInput struct {
	UserID        int64
	CustomerName  string
	Phone         string
	PaymentMethod string
	Address       string
}

type FinalizeOutput struct {
	OrderID  int64
	Snapshot string
	Subtotal decimal.Decimal
	Fee      decimal.Decimal
	Total    decimal.Decimal
}

// 注文確定。1トランザクションで
// 在庫の再チェック（行ロック）→注文作成→カート全削除を行う。
func (u *CheckoutUsecase) Finalize(ctx context.Context, in FinalizeInput) (FinalizeOutput, error) {
	var out FinalizeOutput

	key := uuid.NewString()

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		rows, err := r.Carts().ListRows(ctx, in.UserID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return ErrCartEmpty
		}

		// 行ロックを取って入口ガードからの在庫変動を締め出す
		var bad []repo.CartRow
		for i, row := range rows {
			p, err := r.Products().LockByID(ctx, row.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return ErrNotFound
			}
			if err != nil {
				return err
			}
			rows[i].InStock = p.InStock
			if row.Quantity > p.InStock {
				bad = append(bad, rows[i])
			}
		}
		if len(bad) > 0 {
			return &UnavailableError{Rows: bad}
		}

		//スナップショットと小計
		lines := make([]string, 0, len(rows))
		subtotal := decimal.Zero
		for _, row := range rows {
			lines = append(lines, fmt.Sprintf("%s x%d = %s сом", row.Name, row.Quantity, row.LineTotal().String()))
			subtotal = subtotal.Add(row.LineTotal())
		}
		snapshot := strings.Join(lines, "; ")

		fee := u.policy.Fee(in.Address, subtotal)
		total := subtotal.Add(fee)

		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:          in.UserID,
			CustomerName:    in.CustomerName,
			CustomerPhone:   in.Phone,
			ItemsSnapshot:   snapshot,
			TotalPrice:      total,
			PaymentMethod:   in.PaymentMethod,
			DeliveryAddress: in.Address,
			Status:          model.OrderStatusPending,
			IdempotencyKey:  key,
		})
		if err != nil {
			return err
		}

		if u.deductStock {
			for _, row := range rows {
				ok, err := r.Products().DecreaseStockIfEnough(ctx, row.ProductID, row.Quantity)
				if err != nil {
					return err
				}
				if !ok {
					return &UnavailableError{Rows: []repo.CartRow{row}}
				}
			}
		}

		if err := r.Carts().Clear(ctx, in.UserID); err != nil {
			return err
		}

		out = FinalizeOutput{
			OrderID:  orderID,
			Snapshot: snapshot,
			Subtotal: subtotal,
			Fee:      fee,
			Total:    total,
		}
		return nil
	})

	if err != nil {
		return FinalizeOutput{}, err
	}
	return out, nil
}
