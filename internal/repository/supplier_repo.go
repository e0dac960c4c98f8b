package repository

import (
	"context"

	"localprice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	List(ctx context.Context, limit, offset int) ([]model.Supplier, int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error

	CreatePrice(ctx context.Context, sp *model.SupplierPrice) error
	ListPrices(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]model.SupplierPrice, int64, error)

	// CheapestCandidates returns, for every product, the wholesale offers that
	// hold the product's minimum amount. Ties are NOT resolved here — the
	// service applies the deterministic tie-break so it stays unit-testable.
	CheapestCandidates(ctx context.Context) ([]model.SupplierPrice, error)

	SetAvailability(ctx context.Context, a *model.SupplierAvailability) error
	ListAvailability(ctx context.Context, supplierID uuid.UUID) ([]model.SupplierAvailability, error)
}

type supplierRepo struct{ db *gorm.DB }

func NewSupplierRepository(db *gorm.DB) SupplierRepository { return &supplierRepo{db: db} }

func (r *supplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *supplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var s model.Supplier
	err := r.db.WithContext(ctx).Preload("Locality").First(&s, "id = ?", id).Error
	return &s, err
}

func (r *supplierRepo) List(ctx context.Context, limit, offset int) ([]model.Supplier, int64, error) {
	var suppliers []model.Supplier
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Supplier{}).Where("active = true")
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("name ASC").Limit(limit).Offset(offset).Preload("Locality").Find(&suppliers).Error
	return suppliers, total, err
}

func (r *supplierRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Supplier{}).Where("id = ?", id).Update("active", false).Error
}

func (r *supplierRepo) CreatePrice(ctx context.Context, sp *model.SupplierPrice) error {
	return r.db.WithContext(ctx).Create(sp).Error
}

func (r *supplierRepo) ListPrices(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]model.SupplierPrice, int64, error) {
	var prices []model.SupplierPrice
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SupplierPrice{}).Where("supplier_id = ?", supplierID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("observed_at DESC").Limit(limit).Offset(offset).
		Preload("Supplier").Preload("Product").Preload("Unit").
		Find(&prices).Error
	return prices, total, err
}

func (r *supplierRepo) CheapestCandidates(ctx context.Context) ([]model.SupplierPrice, error) {
	var rows []model.SupplierPrice
	err := r.db.WithContext(ctx).
		Where(`amount = (SELECT MIN(sp2.amount) FROM supplier_prices sp2
		                 WHERE sp2.product_id = supplier_prices.product_id)`).
		Preload("Supplier").Preload("Product").Preload("Unit").
		Find(&rows).Error
	return rows, err
}

// SetAvailability upserts the availability window for one supplier/product pair.
func (r *supplierRepo) SetAvailability(ctx context.Context, a *model.SupplierAvailability) error {
	var existing model.SupplierAvailability
	err := r.db.WithContext(ctx).
		Where("supplier_id = ? AND product_id = ?", a.SupplierID, a.ProductID).
		First(&existing).Error
	if err == nil {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
		return r.db.WithContext(ctx).Save(a).Error
	}
	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(a).Error
	}
	return err
}

func (r *supplierRepo) ListAvailability(ctx context.Context, supplierID uuid.UUID) ([]model.SupplierAvailability, error) {
	var rows []model.SupplierAvailability
	err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Preload("Supplier").Preload("Product").
		Find(&rows).Error
	return rows, err
}
