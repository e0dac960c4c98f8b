package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"localprice/internal/dto"
	"localprice/internal/model"
	"localprice/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// statsCacheTTL keeps aggregate responses hot without letting a freshly
// validated price stay invisible for long.
const statsCacheTTL = 60 * time.Second

type StatsService interface {
	Summary(ctx context.Context, f dto.PriceFilter) (dto.PriceSummary, error)
	Evolution(ctx context.Context, f dto.PriceFilter) ([]dto.EvolutionPoint, error)
	MapPoints(ctx context.Context, f dto.PriceFilter) ([]dto.MapPoint, error)
	BestByCategory(ctx context.Context) ([]dto.CategoryBest, error)
	Cheapest(ctx context.Context) ([]dto.CheapestOffer, error)
	BasketIndex(ctx context.Context) (dto.BasketIndex, error)
}

type statsService struct {
	prices     repository.PriceRepository
	suppliers  repository.SupplierRepository
	rdb        *redis.Client
	windowDays int
}

func NewStatsService(prices repository.PriceRepository, suppliers repository.SupplierRepository, rdb *redis.Client, basketWindowDays int) StatsService {
	if basketWindowDays <= 0 {
		basketWindowDays = 30
	}
	return &statsService{prices: prices, suppliers: suppliers, rdb: rdb, windowDays: basketWindowDays}
}

func (s *statsService) Summary(ctx context.Context, f dto.PriceFilter) (dto.PriceSummary, error) {
	var out dto.PriceSummary
	err := s.cached(ctx, cacheKey("summary", f), &out, func() (interface{}, error) {
		return s.prices.Summary(ctx, f)
	})
	return out, err
}

func (s *statsService) Evolution(ctx context.Context, f dto.PriceFilter) ([]dto.EvolutionPoint, error) {
	var out []dto.EvolutionPoint
	err := s.cached(ctx, cacheKey("evolution", f), &out, func() (interface{}, error) {
		return s.prices.Evolution(ctx, f)
	})
	return out, err
}

func (s *statsService) MapPoints(ctx context.Context, f dto.PriceFilter) ([]dto.MapPoint, error) {
	var out []dto.MapPoint
	err := s.cached(ctx, cacheKey("map", f), &out, func() (interface{}, error) {
		return s.prices.MapPoints(ctx, f)
	})
	return out, err
}

func (s *statsService) BestByCategory(ctx context.Context) ([]dto.CategoryBest, error) {
	var out []dto.CategoryBest
	err := s.cached(ctx, "stats:best_by_category", &out, func() (interface{}, error) {
		return s.prices.BestByCategory(ctx)
	})
	return out, err
}

// Cheapest returns the winning wholesale offer per product. The repository
// narrows candidates to the per-product minimum amount; the deterministic
// tie-break is applied here so the same inputs always pick the same winner.
func (s *statsService) Cheapest(ctx context.Context) ([]dto.CheapestOffer, error) {
	var out []dto.CheapestOffer
	err := s.cached(ctx, "stats:cheapest", &out, func() (interface{}, error) {
		candidates, err := s.suppliers.CheapestCandidates(ctx)
		if err != nil {
			return nil, err
		}
		return cheapestPerProduct(candidates), nil
	})
	return out, err
}

func (s *statsService) BasketIndex(ctx context.Context) (dto.BasketIndex, error) {
	var out dto.BasketIndex
	err := s.cached(ctx, "stats:basket", &out, func() (interface{}, error) {
		since := time.Now().UTC().AddDate(0, 0, -s.windowDays)
		idx, err := s.prices.BasketAverage(ctx, since)
		if err != nil {
			return nil, err
		}
		idx.WindowDays = s.windowDays
		return idx, nil
	})
	return out, err
}

// cheapestPerProduct resolves amount ties: lowest amount first (the repository
// already guarantees this), then most recent observation date, then lowest
// supplier id as the final total-order arbiter.
func cheapestPerProduct(candidates []model.SupplierPrice) []dto.CheapestOffer {
	best := make(map[string]*model.SupplierPrice)
	order := make([]string, 0)

	for i := range candidates {
		c := &candidates[i]
		key := c.ProductID.String()
		cur, seen := best[key]
		if !seen {
			best[key] = c
			order = append(order, key)
			continue
		}
		if offerBeats(c, cur) {
			best[key] = c
		}
	}

	out := make([]dto.CheapestOffer, 0, len(order))
	for _, key := range order {
		w := best[key]
		out = append(out, dto.CheapestOffer{
			ProductID:  w.ProductID.String(),
			Product:    w.Product.Name,
			SupplierID: w.SupplierID.String(),
			Supplier:   w.Supplier.Name,
			Unit:       w.Unit.Name,
			Amount:     w.Amount,
			ObservedAt: w.ObservedAt.Format("2006-01-02"),
		})
	}
	return out
}

func offerBeats(a, b *model.SupplierPrice) bool {
	if !a.Amount.Equal(b.Amount) {
		return a.Amount.LessThan(b.Amount)
	}
	if !a.ObservedAt.Equal(b.ObservedAt) {
		return a.ObservedAt.After(b.ObservedAt)
	}
	return a.SupplierID.String() < b.SupplierID.String()
}

// cached runs compute on a cache miss and stores its JSON under key.
// Redis being down degrades to computing every call, never to an error.
func (s *statsService) cached(ctx context.Context, key string, dst interface{}, compute func() (interface{}, error)) error {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
			if json.Unmarshal([]byte(raw), dst) == nil {
				return nil
			}
		}
	}

	value, err := compute()
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if s.rdb != nil {
		if err := s.rdb.Set(ctx, key, data, statsCacheTTL).Err(); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("stats cache write failed")
		}
	}
	return json.Unmarshal(data, dst)
}

func cacheKey(prefix string, f dto.PriceFilter) string {
	return fmt.Sprintf("stats:%s:%s|%s|%s|%s|%s|%s|%s|%s",
		prefix, f.ProductID, f.CategoryID, f.LocalityID, f.RegionID,
		f.DateFrom, f.DateTo, f.MinAmount, f.MaxAmount)
}
