package service

import (
	"context"
	"errors"

	"localprice/internal/dto"
	"localprice/internal/model"
	"localprice/internal/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type CatalogService interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, f dto.ProductFilter) ([]dto.ProductResponse, int64, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)

	CreateUnit(ctx context.Context, req dto.CreateUnitRequest) (*dto.UnitResponse, error)
	ListUnits(ctx context.Context) ([]dto.UnitResponse, error)
}

type catalogService struct {
	catalog repository.CatalogRepository
}

func NewCatalogService(catalog repository.CatalogRepository) CatalogService {
	return &catalogService{catalog: catalog}
}

// ── Products ─────────────────────────────────────────────────────────────────

func (s *catalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	productSlug := slug.Make(req.Name)
	if _, err := s.catalog.FindProductBySlug(ctx, productSlug); err == nil {
		return nil, ErrDuplicate
	}

	p := &model.Product{
		Name:      req.Name,
		Slug:      productSlug,
		Essential: req.Essential,
		Active:    true,
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, ErrInvalidReference
		}
		if _, err := s.catalog.FindCategoryByID(ctx, cid); err != nil {
			return nil, ErrInvalidReference
		}
		p.CategoryID = &cid
	}

	if err := s.catalog.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, p.ID)
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.catalog.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := toProductResponse(p)
	return &resp, nil
}

func (s *catalogService) ListProducts(ctx context.Context, f dto.ProductFilter) ([]dto.ProductResponse, int64, error) {
	f.Clamp()
	products, total, err := s.catalog.ListProducts(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ProductResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	return out, total, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.catalog.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
		p.Slug = slug.Make(*req.Name)
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, ErrInvalidReference
		}
		if _, err := s.catalog.FindCategoryByID(ctx, cid); err != nil {
			return nil, ErrInvalidReference
		}
		p.CategoryID = &cid
	}
	if req.Essential != nil {
		p.Essential = *req.Essential
	}

	if err := s.catalog.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, p.ID)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.catalog.FindProductByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	// Soft delete — historical validated prices keep pointing at the row
	return s.catalog.SoftDeleteProduct(ctx, id)
}

// ── Categories ───────────────────────────────────────────────────────────────

func (s *catalogService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	catSlug := slug.Make(req.Name)
	if _, err := s.catalog.FindCategoryBySlug(ctx, catSlug); err == nil {
		return nil, ErrDuplicate
	}

	c := &model.ProductCategory{Name: req.Name, Slug: catSlug}
	if err := s.catalog.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: c.ID.String(), Name: c.Name, Slug: c.Slug}, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	cats, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, len(cats))
	for i, c := range cats {
		out[i] = dto.CategoryResponse{ID: c.ID.String(), Name: c.Name, Slug: c.Slug}
	}
	return out, nil
}

// ── Units ────────────────────────────────────────────────────────────────────

func (s *catalogService) CreateUnit(ctx context.Context, req dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	if _, err := s.catalog.FindUnitByName(ctx, req.Name); err == nil {
		return nil, ErrDuplicate
	}

	u := &model.Unit{Name: req.Name, Abbrev: req.Abbrev}
	if err := s.catalog.CreateUnit(ctx, u); err != nil {
		return nil, err
	}
	return &dto.UnitResponse{ID: u.ID.String(), Name: u.Name, Abbrev: u.Abbrev}, nil
}

func (s *catalogService) ListUnits(ctx context.Context) ([]dto.UnitResponse, error) {
	units, err := s.catalog.ListUnits(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, len(units))
	for i, u := range units {
		out[i] = dto.UnitResponse{ID: u.ID.String(), Name: u.Name, Abbrev: u.Abbrev}
	}
	return out, nil
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Slug:      p.Slug,
		Essential: p.Essential,
		Active:    p.Active,
	}
	if p.Category != nil {
		name := p.Category.Name
		resp.Category = &name
	}
	return resp
}
