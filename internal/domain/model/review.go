package model

import "time"

// 追記専用。編集・削除のAPIは無い。
type Review struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"not null;index" json:"user_id"`
	AuthorName string    `gorm:"type:varchar(255);not null" json:"author_name"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
