package usecase

import (
	"errors"
	"fmt"

	repo "shopbot/internal/repository"
)

var (
	//入力値が不正（価格・在庫・評価など）
	ErrValidation = errors.New("validation error")
	//対象が見つからない（一覧表示後に消えた場合を含む）
	ErrNotFound = errors.New("not found")
	//在庫ゼロの商品をカートに入れようとした
	ErrOutOfStock = errors.New("out of stock")
	//カートが空
	ErrCartEmpty = errors.New("cart empty")
	//許可されない注文ステータス遷移
	ErrIllegalTransition = errors.New("illegal status transition")
)

// カートの数量が在庫上限に達していて加算できない。
type CapacityError struct {
	ProductName string
	InStock     int64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded: %s (in stock: %d)", e.ProductName, e.InStock)
}

// 在庫不足の明細がありチェックアウト全体をブロックした。
// 部分確定はしない。
type UnavailableError struct {
	Rows []repo.CartRow
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("checkout blocked: %d unavailable line(s)", len(e.Rows))
}
