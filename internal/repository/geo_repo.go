package repository

import (
	"context"

	"localprice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GeoRepository interface {
	CreateRegion(ctx context.Context, reg *model.Region) error
	FindRegionByID(ctx context.Context, id uuid.UUID) (*model.Region, error)
	FindRegionBySlug(ctx context.Context, s string) (*model.Region, error)
	ListRegions(ctx context.Context) ([]model.Region, error)

	CreateLocality(ctx context.Context, l *model.Locality) error
	FindLocalityByID(ctx context.Context, id uuid.UUID) (*model.Locality, error)
	FindLocalityBySlug(ctx context.Context, s string) (*model.Locality, error)
	FindOrCreateLocality(ctx context.Context, l *model.Locality) error
	ListLocalities(ctx context.Context, regionID string, limit, offset int) ([]model.Locality, int64, error)
	UpdateLocality(ctx context.Context, l *model.Locality) error
}

type geoRepo struct{ db *gorm.DB }

func NewGeoRepository(db *gorm.DB) GeoRepository { return &geoRepo{db: db} }

func (r *geoRepo) CreateRegion(ctx context.Context, reg *model.Region) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *geoRepo) FindRegionByID(ctx context.Context, id uuid.UUID) (*model.Region, error) {
	var reg model.Region
	err := r.db.WithContext(ctx).First(&reg, "id = ?", id).Error
	return &reg, err
}

func (r *geoRepo) FindRegionBySlug(ctx context.Context, s string) (*model.Region, error) {
	var reg model.Region
	err := r.db.WithContext(ctx).Where("slug = ?", s).First(&reg).Error
	return &reg, err
}

func (r *geoRepo) ListRegions(ctx context.Context) ([]model.Region, error) {
	var regions []model.Region
	err := r.db.WithContext(ctx).Order("name ASC").Find(&regions).Error
	return regions, err
}

func (r *geoRepo) CreateLocality(ctx context.Context, l *model.Locality) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *geoRepo) FindLocalityByID(ctx context.Context, id uuid.UUID) (*model.Locality, error) {
	var l model.Locality
	err := r.db.WithContext(ctx).Preload("Region").First(&l, "id = ?", id).Error
	return &l, err
}

func (r *geoRepo) FindLocalityBySlug(ctx context.Context, s string) (*model.Locality, error) {
	var l model.Locality
	err := r.db.WithContext(ctx).Where("slug = ?", s).First(&l).Error
	return &l, err
}

func (r *geoRepo) FindOrCreateLocality(ctx context.Context, l *model.Locality) error {
	return r.db.WithContext(ctx).Where("slug = ?", l.Slug).FirstOrCreate(l).Error
}

func (r *geoRepo) ListLocalities(ctx context.Context, regionID string, limit, offset int) ([]model.Locality, int64, error) {
	var localities []model.Locality
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Locality{})
	if regionID != "" {
		q = q.Where("region_id = ?", regionID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("name ASC").Limit(limit).Offset(offset).Preload("Region").Find(&localities).Error
	return localities, total, err
}

func (r *geoRepo) UpdateLocality(ctx context.Context, l *model.Locality) error {
	return r.db.WithContext(ctx).Save(l).Error
}
