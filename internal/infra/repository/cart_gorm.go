package repository

import (
	"context"
	"errors"

	"shopbot/internal/domain/model"
	repo "shopbot/internal/repository"

	"gorm.io/gorm"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// 商品とJOINした明細一覧。在庫は「今の」値を返す。
func (r *CartGormRepository) ListRows(ctx context.Context, userID int64) ([]repo.CartRow, error) {
	var rows []repo.CartRow
	err := r.db.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.id as cart_item_id, cart_items.product_id, products.name, products.price, cart_items.quantity, products.in_stock").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.added_at asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CartGormRepository) FindItem(ctx context.Context, userID int64, productID int64) (model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

func (r *CartGormRepository) Insert(ctx context.Context, item model.CartItem) error {
	return r.db.WithContext(ctx).Create(&item).Error
}

// quantity+1 <= maxQty の判定を加算と同じUPDATE文で行う。
// 別々に読んで書くと同時更新で上限を突き抜けるため。
func (r *CartGormRepository) IncrementIfWithin(ctx context.Context, cartItemID int64, maxQty int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("id = ? AND quantity + 1 <= ?", cartItemID, maxQty).
		Update("quantity", gorm.Expr("quantity + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CartGormRepository) Clear(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}

// カート内の合計点数。
func (r *CartGormRepository) CountUnits(ctx context.Context, userID int64) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("user_id = ?", userID).
		Select("SUM(quantity)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
