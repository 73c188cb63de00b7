package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 性別タグ（任意）。NULLは未指定。
type Gender string

const (
	GenderMale   Gender = "Мужское"
	GenderFemale Gender = "Женское"
	GenderKids   Gender = "Детское"
	GenderUnisex Gender = "Унисекс"
)

type Product struct {
	ID       int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Category string          `gorm:"type:varchar(255);not null;index" json:"category"`
	Gender   *Gender         `gorm:"type:varchar(30)" json:"gender,omitempty"`
	Name     string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	InStock  int64           `gorm:"not null;default:0" json:"in_stock"`
	// メッセージ基盤のファイル参照（不透明トークン）。NULLは写真なし。
	Photo     *string   `gorm:"type:text" json:"photo,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (p Product) Available() bool {
	return p.InStock > 0
}
