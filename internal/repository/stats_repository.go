package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

type CategoryStats struct {
	Category string
	Count    int64
	Stock    int64
	AvgPrice decimal.Decimal
}

// 管理者向けレポートの集計値。
type StoreStats struct {
	TotalProducts     int64
	AvailableProducts int64
	TotalStock        int64
	InventoryValue    decimal.Decimal
	TotalOrders       int64
	TotalSales        decimal.Decimal
	Categories        []CategoryStats
}

type StatsRepository interface {
	// 件数・合計・カテゴリ別平均をまとめて取る。
	Summary(ctx context.Context) (StoreStats, error)
}
