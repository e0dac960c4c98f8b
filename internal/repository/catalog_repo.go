package repository

import (
	"context"

	"localprice/internal/dto"
	"localprice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository covers the product/category/unit reference entities.
// FindOrCreate* back the webhook "other" path and are idempotent on slug.
type CatalogRepository interface {
	CreateProduct(ctx context.Context, p *model.Product) error
	FindProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindProductBySlug(ctx context.Context, s string) (*model.Product, error)
	FindOrCreateProduct(ctx context.Context, p *model.Product) error
	ListProducts(ctx context.Context, f dto.ProductFilter) ([]model.Product, int64, error)
	UpdateProduct(ctx context.Context, p *model.Product) error
	SoftDeleteProduct(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, c *model.ProductCategory) error
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*model.ProductCategory, error)
	FindCategoryBySlug(ctx context.Context, s string) (*model.ProductCategory, error)
	ListCategories(ctx context.Context) ([]model.ProductCategory, error)

	CreateUnit(ctx context.Context, u *model.Unit) error
	FindUnitByID(ctx context.Context, id uuid.UUID) (*model.Unit, error)
	FindUnitByName(ctx context.Context, name string) (*model.Unit, error)
	FindOrCreateUnit(ctx context.Context, u *model.Unit) error
	ListUnits(ctx context.Context) ([]model.Unit, error)
}

type catalogRepo struct{ db *gorm.DB }

func NewCatalogRepository(db *gorm.DB) CatalogRepository { return &catalogRepo{db: db} }

// ── Products ─────────────────────────────────────────────────────────────────

func (r *catalogRepo) CreateProduct(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *catalogRepo) FindProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *catalogRepo) FindProductBySlug(ctx context.Context, s string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("slug = ?", s).First(&p).Error
	return &p, err
}

func (r *catalogRepo) FindOrCreateProduct(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Where("slug = ?", p.Slug).FirstOrCreate(p).Error
}

func (r *catalogRepo) ListProducts(ctx context.Context, f dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("active = true")
	if f.Name != "" {
		q = q.Where("name ILIKE ?", "%"+f.Name+"%")
	}
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Essential != "" {
		q = q.Where("essential = ?", f.Essential == "true")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("name ASC").Limit(f.Limit).Offset(f.Offset).Preload("Category").Find(&products).Error
	return products, total, err
}

func (r *catalogRepo) UpdateProduct(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *catalogRepo) SoftDeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("active", false).Error
}

// ── Categories ───────────────────────────────────────────────────────────────

func (r *catalogRepo) CreateCategory(ctx context.Context, c *model.ProductCategory) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *catalogRepo) FindCategoryByID(ctx context.Context, id uuid.UUID) (*model.ProductCategory, error) {
	var c model.ProductCategory
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *catalogRepo) FindCategoryBySlug(ctx context.Context, s string) (*model.ProductCategory, error) {
	var c model.ProductCategory
	err := r.db.WithContext(ctx).Where("slug = ?", s).First(&c).Error
	return &c, err
}

func (r *catalogRepo) ListCategories(ctx context.Context) ([]model.ProductCategory, error) {
	var cats []model.ProductCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&cats).Error
	return cats, err
}

// ── Units ────────────────────────────────────────────────────────────────────

func (r *catalogRepo) CreateUnit(ctx context.Context, u *model.Unit) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *catalogRepo) FindUnitByID(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	var u model.Unit
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *catalogRepo) FindUnitByName(ctx context.Context, name string) (*model.Unit, error) {
	var u model.Unit
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&u).Error
	return &u, err
}

func (r *catalogRepo) FindOrCreateUnit(ctx context.Context, u *model.Unit) error {
	return r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", u.Name).FirstOrCreate(u).Error
}

func (r *catalogRepo) ListUnits(ctx context.Context) ([]model.Unit, error) {
	var units []model.Unit
	err := r.db.WithContext(ctx).Order("name ASC").Find(&units).Error
	return units, err
}
