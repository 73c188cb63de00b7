package repository

import (
	"context"

	"shopbot/internal/domain/model"
	repo "shopbot/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StatsGormRepository struct {
	db *gorm.DB
}

// DI
func NewStatsGormRepository(db *gorm.DB) *StatsGormRepository {
	return &StatsGormRepository{db: db}
}

// レポート用の集計をまとめて取る。
func (r *StatsGormRepository) Summary(ctx context.Context) (repo.StoreStats, error) {
	var stats repo.StoreStats

	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return repo.StoreStats{}, err
	}
	if err := db.Model(&model.Product{}).
		Where("in_stock > 0").
		Count(&stats.AvailableProducts).Error; err != nil {
		return repo.StoreStats{}, err
	}

	type invRow struct {
		Stock *int64
		Value decimal.NullDecimal
	}
	var inv invRow
	if err := db.Model(&model.Product{}).
		Select("SUM(in_stock) as stock, SUM(price * in_stock) as value").
		Scan(&inv).Error; err != nil {
		return repo.StoreStats{}, err
	}
	if inv.Stock != nil {
		stats.TotalStock = *inv.Stock
	}
	if inv.Value.Valid {
		stats.InventoryValue = inv.Value.Decimal
	}

	if err := db.Model(&model.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return repo.StoreStats{}, err
	}

	var sales decimal.NullDecimal
	if err := db.Model(&model.Order{}).
		Select("SUM(total_price)").
		Scan(&sales).Error; err != nil {
		return repo.StoreStats{}, err
	}
	if sales.Valid {
		stats.TotalSales = sales.Decimal
	}

	//カテゴリ別（件数の多い順）
	type catRow struct {
		Category string
		Count    int64
		Stock    *int64
		AvgPrice decimal.NullDecimal
	}
	var cats []catRow
	if err := db.Model(&model.Product{}).
		Select("category, COUNT(*) as count, SUM(in_stock) as stock, AVG(price) as avg_price").
		Group("category").
		Order("count DESC").
		Scan(&cats).Error; err != nil {
		return repo.StoreStats{}, err
	}

	stats.Categories = make([]repo.CategoryStats, 0, len(cats))
	for _, c := range cats {
		cs := repo.CategoryStats{Category: c.Category, Count: c.Count}
		if c.Stock != nil {
			cs.Stock = *c.Stock
		}
		if c.AvgPrice.Valid {
			cs.AvgPrice = c.AvgPrice.Decimal
		}
		stats.Categories = append(stats.Categories, cs)
	}

	return stats, nil
}
