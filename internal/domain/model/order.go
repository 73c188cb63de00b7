package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// completed / cancelled は終端。
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

type Order struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64  `gorm:"not null;index" json:"user_id"`
	CustomerName  string `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone string `gorm:"type:varchar(64);not null" json:"customer_phone"`
	// 確定時点の明細をテキストで固定する（商品が後で変わっても不変）。
	ItemsSnapshot   string          `gorm:"type:text;not null" json:"items_snapshot"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	PaymentMethod   string          `gorm:"type:varchar(64);not null" json:"payment_method"`
	DeliveryAddress string          `gorm:"type:text;not null" json:"delivery_address"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	IdempotencyKey  string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
