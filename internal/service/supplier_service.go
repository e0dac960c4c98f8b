package service

import (
	"context"
	"errors"
	"time"

	"localprice/internal/dto"
	"localprice/internal/model"
	"localprice/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierService interface {
	Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error)
	List(ctx context.Context, p dto.Pagination) ([]dto.SupplierResponse, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddPrice(ctx context.Context, supplierID uuid.UUID, req dto.CreateSupplierPriceRequest) (*dto.SupplierPriceResponse, error)
	ListPrices(ctx context.Context, supplierID uuid.UUID, p dto.Pagination) ([]dto.SupplierPriceResponse, int64, error)

	SetAvailability(ctx context.Context, supplierID uuid.UUID, req dto.SetAvailabilityRequest) (*dto.AvailabilityResponse, error)
	ListAvailability(ctx context.Context, supplierID uuid.UUID) ([]dto.AvailabilityResponse, error)
}

type supplierService struct {
	suppliers repository.SupplierRepository
	catalog   repository.CatalogRepository
	geo       repository.GeoRepository
}

func NewSupplierService(suppliers repository.SupplierRepository, catalog repository.CatalogRepository, geo repository.GeoRepository) SupplierService {
	return &supplierService{suppliers: suppliers, catalog: catalog, geo: geo}
}

func (s *supplierService) Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	sup := &model.Supplier{Name: req.Name, Phone: req.Phone, Active: true}
	if req.LocalityID != nil {
		lid, err := uuid.Parse(*req.LocalityID)
		if err != nil {
			return nil, ErrInvalidReference
		}
		if _, err := s.geo.FindLocalityByID(ctx, lid); err != nil {
			return nil, ErrInvalidReference
		}
		sup.LocalityID = &lid
	}

	if err := s.suppliers.Create(ctx, sup); err != nil {
		return nil, err
	}
	return s.Get(ctx, sup.ID)
}

func (s *supplierService) Get(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error) {
	sup, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := toSupplierResponse(sup)
	return &resp, nil
}

func (s *supplierService) List(ctx context.Context, p dto.Pagination) ([]dto.SupplierResponse, int64, error) {
	p.Clamp()
	suppliers, total, err := s.suppliers.List(ctx, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.SupplierResponse, len(suppliers))
	for i := range suppliers {
		out[i] = toSupplierResponse(&suppliers[i])
	}
	return out, total, nil
}

func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.suppliers.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.suppliers.SoftDelete(ctx, id)
}

func (s *supplierService) AddPrice(ctx context.Context, supplierID uuid.UUID, req dto.CreateSupplierPriceRequest) (*dto.SupplierPriceResponse, error) {
	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, ErrInvalidReference
	}
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		return nil, ErrInvalidReference
	}
	if _, err := s.catalog.FindProductByID(ctx, productID); err != nil {
		return nil, ErrInvalidReference
	}
	if _, err := s.catalog.FindUnitByID(ctx, unitID); err != nil {
		return nil, ErrInvalidReference
	}

	observedAt, err := time.Parse("2006-01-02", req.ObservedAt)
	if err != nil {
		return nil, err
	}

	sp := &model.SupplierPrice{
		SupplierID: supplierID,
		ProductID:  productID,
		UnitID:     unitID,
		Amount:     req.Amount,
		ObservedAt: observedAt,
	}
	if err := s.suppliers.CreatePrice(ctx, sp); err != nil {
		return nil, err
	}

	// Re-read through the list path to get the preloaded names
	prices, _, err := s.suppliers.ListPrices(ctx, supplierID, 1, 0)
	if err != nil || len(prices) == 0 {
		return &dto.SupplierPriceResponse{
			ID:         sp.ID.String(),
			SupplierID: supplierID.String(),
			ProductID:  productID.String(),
			Amount:     sp.Amount,
			ObservedAt: req.ObservedAt,
		}, nil
	}
	resp := toSupplierPriceResponse(&prices[0])
	return &resp, nil
}

func (s *supplierService) ListPrices(ctx context.Context, supplierID uuid.UUID, p dto.Pagination) ([]dto.SupplierPriceResponse, int64, error) {
	p.Clamp()
	prices, total, err := s.suppliers.ListPrices(ctx, supplierID, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.SupplierPriceResponse, len(prices))
	for i := range prices {
		out[i] = toSupplierPriceResponse(&prices[i])
	}
	return out, total, nil
}

func (s *supplierService) SetAvailability(ctx context.Context, supplierID uuid.UUID, req dto.SetAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, ErrInvalidReference
	}
	if _, err := s.catalog.FindProductByID(ctx, productID); err != nil {
		return nil, ErrInvalidReference
	}

	a := &model.SupplierAvailability{
		SupplierID: supplierID,
		ProductID:  productID,
		InStock:    req.InStock,
	}
	if req.From != nil {
		t, err := time.Parse("2006-01-02", *req.From)
		if err != nil {
			return nil, err
		}
		a.From = &t
	}
	if req.Until != nil {
		t, err := time.Parse("2006-01-02", *req.Until)
		if err != nil {
			return nil, err
		}
		a.Until = &t
	}

	if err := s.suppliers.SetAvailability(ctx, a); err != nil {
		return nil, err
	}

	rows, err := s.suppliers.ListAvailability(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ProductID == productID {
			resp := toAvailabilityResponse(&rows[i])
			return &resp, nil
		}
	}
	resp := toAvailabilityResponse(a)
	return &resp, nil
}

func (s *supplierService) ListAvailability(ctx context.Context, supplierID uuid.UUID) ([]dto.AvailabilityResponse, error) {
	rows, err := s.suppliers.ListAvailability(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AvailabilityResponse, len(rows))
	for i := range rows {
		out[i] = toAvailabilityResponse(&rows[i])
	}
	return out, nil
}

func toSupplierResponse(sup *model.Supplier) dto.SupplierResponse {
	resp := dto.SupplierResponse{
		ID:     sup.ID.String(),
		Name:   sup.Name,
		Phone:  sup.Phone,
		Active: sup.Active,
	}
	if sup.Locality != nil {
		name := sup.Locality.Name
		resp.Locality = &name
	}
	return resp
}

func toSupplierPriceResponse(sp *model.SupplierPrice) dto.SupplierPriceResponse {
	return dto.SupplierPriceResponse{
		ID:         sp.ID.String(),
		SupplierID: sp.SupplierID.String(),
		Supplier:   sp.Supplier.Name,
		ProductID:  sp.ProductID.String(),
		Product:    sp.Product.Name,
		Unit:       sp.Unit.Name,
		Amount:     sp.Amount,
		ObservedAt: sp.ObservedAt.Format("2006-01-02"),
	}
}

func toAvailabilityResponse(a *model.SupplierAvailability) dto.AvailabilityResponse {
	resp := dto.AvailabilityResponse{
		ID:       a.ID.String(),
		Supplier: a.Supplier.Name,
		Product:  a.Product.Name,
		InStock:  a.InStock,
	}
	if a.From != nil {
		v := a.From.Format("2006-01-02")
		resp.From = &v
	}
	if a.Until != nil {
		v := a.Until.Format("2006-01-02")
		resp.Until = &v
	}
	return resp
}
