package repository

import (
	"context"
	"errors"

	"shopbot/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 編集ウィザードで1項目だけ更新するためのカラム指定。
// SQLに埋め込むのでホワイトリストで縛る。
type ProductField string

const (
	ProductFieldName     ProductField = "name"
	ProductFieldPrice    ProductField = "price"
	ProductFieldStock    ProductField = "in_stock"
	ProductFieldCategory ProductField = "category"
	ProductFieldGender   ProductField = "gender"
	ProductFieldPhoto    ProductField = "photo"
)

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	// カテゴリ名の一覧（重複なし、辞書順）。
	ListCategories(ctx context.Context) ([]string, error)

	// カテゴリ内の性別タグ一覧（重複なし）。
	ListGenders(ctx context.Context, category string) ([]*model.Gender, error)

	// カテゴリ（＋任意で性別）で絞り込み、名前昇順。
	ListByCategory(ctx context.Context, category string, gender *model.Gender) ([]model.Product, error)

	// 全商品。カテゴリ順→名前順。
	ListAll(ctx context.Context) ([]model.Product, error)

	FindByID(ctx context.Context, id int64) (model.Product, error)

	// 名前の完全一致で1件。
	FindByName(ctx context.Context, name string) (model.Product, error)

	// トランザクション内で行ロック付き取得（確定時の再チェック用）。
	LockByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)

	// 1カラムだけ更新する。
	UpdateField(ctx context.Context, id int64, field ProductField, value any) error

	// 即時・無条件の物理削除。カートや注文の参照は掃除しない。
	Delete(ctx context.Context, id int64) error

	// 在庫が足りるときだけ減算。
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)
}
