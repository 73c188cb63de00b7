package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"shopbot/internal/domain/model"
	repo "shopbot/internal/repository"

	"github.com/shopspring/decimal"
)

// 商品の追加・編集・削除（管理者ウィザードの確定側）。
// 権限チェックは呼び出し側（ハンドラ）が済ませている。
type ProductAdminUsecase struct {
	productRepo repo.ProductRepository
	auditRepo   repo.AuditLogRepository
}

func NewProductAdminUsecase(productRepo repo.ProductRepository, auditRepo repo.AuditLogRepository) *ProductAdminUsecase {
	return &ProductAdminUsecase{productRepo: productRepo, auditRepo: auditRepo}
}

type AddProductInput struct {
	Category string
	Gender   *model.Gender
	Name     string
	Price    decimal.Decimal
	InStock  int64
	Photo    *string
}

// 下書きを1商品として保存する。
func (u *ProductAdminUsecase) AddProduct(ctx context.Context, adminID int64, in AddProductInput) (model.Product, error) {
	if in.Category == "" || in.Name == "" {
		return model.Product{}, ErrValidation
	}
	if !in.Price.IsPositive() {
		return model.Product{}, ErrValidation
	}
	if in.InStock < 0 {
		return model.Product{}, ErrValidation
	}

	created, err := u.productRepo.Create(ctx, model.Product{
		Category: in.Category,
		Gender:   in.Gender,
		Name:     in.Name,
		Price:    in.Price,
		InStock:  in.InStock,
		Photo:    in.Photo,
	})
	if err != nil {
		return model.Product{}, err
	}

	u.audit(ctx, adminID, model.AuditActionCreateProduct, created.ID, nil, &created)
	return created, nil
}

// 1項目だけ更新する（編集ウィザードは1回の実行で1項目）。
func (u *ProductAdminUsecase) UpdateField(ctx context.Context, adminID int64, productID int64, field repo.ProductField, value any) error {
	before, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := u.productRepo.UpdateField(ctx, productID, field, value); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	after, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		// 更新自体は成功している。監査は before のみで残す。
		u.audit(ctx, adminID, model.AuditActionUpdateProduct, productID, &before, nil)
		return nil
	}

	u.audit(ctx, adminID, model.AuditActionUpdateProduct, productID, &before, &after)
	return nil
}

// 即時・無条件の削除。カートや注文の参照は残る（孤児になる）。
func (u *ProductAdminUsecase) DeleteProduct(ctx context.Context, adminID int64, productID int64) (model.Product, error) {
	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}

	if err := u.productRepo.Delete(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, ErrNotFound
		}
		return model.Product{}, err
	}

	u.audit(ctx, adminID, model.AuditActionDeleteProduct, productID, &p, nil)
	return p, nil
}

// 直近の管理操作。新しい順にlimit件。
func (u *ProductAdminUsecase) RecentActions(ctx context.Context, limit int) ([]model.AuditLog, error) {
	return u.auditRepo.List(ctx, repo.AuditLogFilter{Limit: limit})
}

// 監査ログは本処理を失敗させない。
func (u *ProductAdminUsecase) audit(ctx context.Context, adminID int64, action model.AuditAction, productID int64, before, after *model.Product) {
	entry := model.AuditLog{
		ActorUserID:  adminID,
		Action:       action,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   productID,
	}
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			entry.BeforeJSON = string(b)
		}
	}
	if after != nil {
		if a, err := json.Marshal(after); err == nil {
			entry.AfterJSON = string(a)
		}
	}
	_ = u.auditRepo.Create(ctx, entry)
}
