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

type GeoService interface {
	CreateRegion(ctx context.Context, req dto.CreateRegionRequest) (*dto.RegionResponse, error)
	ListRegions(ctx context.Context) ([]dto.RegionResponse, error)

	CreateLocality(ctx context.Context, req dto.CreateLocalityRequest) (*dto.LocalityResponse, error)
	GetLocality(ctx context.Context, id uuid.UUID) (*dto.LocalityResponse, error)
	ListLocalities(ctx context.Context, regionID string, p dto.Pagination) ([]dto.LocalityResponse, int64, error)
	UpdateLocality(ctx context.Context, id uuid.UUID, req dto.UpdateLocalityRequest) (*dto.LocalityResponse, error)
}

type geoService struct {
	geo repository.GeoRepository
}

func NewGeoService(geo repository.GeoRepository) GeoService {
	return &geoService{geo: geo}
}

func (s *geoService) CreateRegion(ctx context.Context, req dto.CreateRegionRequest) (*dto.RegionResponse, error) {
	regionSlug := slug.Make(req.Name)
	if _, err := s.geo.FindRegionBySlug(ctx, regionSlug); err == nil {
		return nil, ErrDuplicate
	}

	reg := &model.Region{Name: req.Name, Slug: regionSlug}
	if err := s.geo.CreateRegion(ctx, reg); err != nil {
		return nil, err
	}
	return &dto.RegionResponse{ID: reg.ID.String(), Name: reg.Name, Slug: reg.Slug}, nil
}

func (s *geoService) ListRegions(ctx context.Context) ([]dto.RegionResponse, error) {
	regions, err := s.geo.ListRegions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RegionResponse, len(regions))
	for i, r := range regions {
		out[i] = dto.RegionResponse{ID: r.ID.String(), Name: r.Name, Slug: r.Slug}
	}
	return out, nil
}

func (s *geoService) CreateLocality(ctx context.Context, req dto.CreateLocalityRequest) (*dto.LocalityResponse, error) {
	localitySlug := slug.Make(req.Name)
	if _, err := s.geo.FindLocalityBySlug(ctx, localitySlug); err == nil {
		return nil, ErrDuplicate
	}

	l := &model.Locality{
		Name:      req.Name,
		Slug:      localitySlug,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if req.RegionID != nil {
		rid, err := uuid.Parse(*req.RegionID)
		if err != nil {
			return nil, ErrInvalidReference
		}
		if _, err := s.geo.FindRegionByID(ctx, rid); err != nil {
			return nil, ErrInvalidReference
		}
		l.RegionID = &rid
	}

	if err := s.geo.CreateLocality(ctx, l); err != nil {
		return nil, err
	}
	return s.GetLocality(ctx, l.ID)
}

func (s *geoService) GetLocality(ctx context.Context, id uuid.UUID) (*dto.LocalityResponse, error) {
	l, err := s.geo.FindLocalityByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := toLocalityResponse(l)
	return &resp, nil
}

func (s *geoService) ListLocalities(ctx context.Context, regionID string, p dto.Pagination) ([]dto.LocalityResponse, int64, error) {
	p.Clamp()
	localities, total, err := s.geo.ListLocalities(ctx, regionID, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.LocalityResponse, len(localities))
	for i := range localities {
		out[i] = toLocalityResponse(&localities[i])
	}
	return out, total, nil
}

func (s *geoService) UpdateLocality(ctx context.Context, id uuid.UUID, req dto.UpdateLocalityRequest) (*dto.LocalityResponse, error) {
	l, err := s.geo.FindLocalityByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		l.Name = *req.Name
		l.Slug = slug.Make(*req.Name)
	}
	if req.RegionID != nil {
		rid, err := uuid.Parse(*req.RegionID)
		if err != nil {
			return nil, ErrInvalidReference
		}
		if _, err := s.geo.FindRegionByID(ctx, rid); err != nil {
			return nil, ErrInvalidReference
		}
		l.RegionID = &rid
	}
	if req.Latitude != nil {
		l.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		l.Longitude = req.Longitude
	}

	if err := s.geo.UpdateLocality(ctx, l); err != nil {
		return nil, err
	}
	return s.GetLocality(ctx, l.ID)
}

func toLocalityResponse(l *model.Locality) dto.LocalityResponse {
	resp := dto.LocalityResponse{
		ID:        l.ID.String(),
		Name:      l.Name,
		Slug:      l.Slug,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
	}
	if l.Region != nil {
		name := l.Region.Name
		resp.Region = &name
	}
	return resp
}
