package repository

import (
	"context"
	"time"

	"localprice/internal/dto"
	"localprice/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceRepository defines the data access contract for price observations.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type PriceRepository interface {
	Create(ctx context.Context, p *model.Price) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Price, error)
	List(ctx context.Context, status string, f dto.PriceFilter) ([]model.Price, int64, error)

	// Transition performs the conditional moderation update: the row moves to
	// `to` only while its status is still pending. Returns the number of rows
	// affected — zero means wrong id or already-processed, and the store's
	// single-statement atomicity guarantees no double transition.
	Transition(ctx context.Context, id uuid.UUID, to string, validatorID uuid.UUID, at time.Time, comment, reason *string) (int64, error)

	// Aggregate reads over validated rows, all under the same filter set.
	Summary(ctx context.Context, f dto.PriceFilter) (dto.PriceSummary, error)
	Evolution(ctx context.Context, f dto.PriceFilter) ([]dto.EvolutionPoint, error)
	MapPoints(ctx context.Context, f dto.PriceFilter) ([]dto.MapPoint, error)
	BestByCategory(ctx context.Context) ([]dto.CategoryBest, error)
	BasketAverage(ctx context.Context, since time.Time) (dto.BasketIndex, error)

	// ListValidatedSince feeds the admin XLSX export.
	ListValidatedSince(ctx context.Context, since time.Time) ([]model.Price, error)
}

type priceRepo struct{ db *gorm.DB }

func NewPriceRepository(db *gorm.DB) PriceRepository { return &priceRepo{db: db} }

func (r *priceRepo) Create(ctx context.Context, p *model.Price) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *priceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Price, error) {
	var p model.Price
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Locality").Preload("Unit").
		Preload("Submitter").Preload("Validator").
		First(&p, "id = ?", id).Error
	return &p, err
}

// applyFilter appends the AND-composed predicate fragments to a query.
func applyFilter(q *gorm.DB, f dto.PriceFilter) *gorm.DB {
	for _, c := range PriceConditions(f) {
		q = q.Where(c.Expr, c.Args...)
	}
	return q
}

func (r *priceRepo) List(ctx context.Context, status string, f dto.PriceFilter) ([]model.Price, int64, error) {
	var prices []model.Price
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Price{}).Where("status = ?", status)
	q = applyFilter(q, f)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("observed_at DESC, created_at DESC").
		Limit(f.Limit).Offset(f.Offset).
		Preload("Product").Preload("Locality").Preload("Unit").
		Preload("Submitter").Preload("Validator").
		Find(&prices).Error
	return prices, total, err
}

func (r *priceRepo) Transition(ctx context.Context, id uuid.UUID, to string, validatorID uuid.UUID, at time.Time, comment, reason *string) (int64, error) {
	updates := map[string]interface{}{
		"status":       to,
		"validator_id": validatorID,
		"validated_at": at,
	}
	if comment != nil {
		updates["comment"] = comment
	}
	if reason != nil {
		updates["rejection_reason"] = reason
	}
	res := r.db.WithContext(ctx).Model(&model.Price{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *priceRepo) Summary(ctx context.Context, f dto.PriceFilter) (dto.PriceSummary, error) {
	var row dto.PriceSummary
	q := r.db.WithContext(ctx).Model(&model.Price{}).
		Where("status = ?", model.StatusValidated)
	q = applyFilter(q, f)
	err := q.Select(
		"COUNT(*) AS count, " +
			"COALESCE(MIN(amount), 0) AS min, " +
			"COALESCE(MAX(amount), 0) AS max, " +
			"COALESCE(AVG(amount), 0) AS avg, " +
			"COALESCE(STDDEV_POP(amount), 0) AS std_dev").
		Scan(&row).Error
	return row, err
}

func (r *priceRepo) Evolution(ctx context.Context, f dto.PriceFilter) ([]dto.EvolutionPoint, error) {
	var points []struct {
		Date    time.Time
		Avg     decimal.Decimal
		Samples int64
	}
	q := r.db.WithContext(ctx).Model(&model.Price{}).
		Where("status = ?", model.StatusValidated)
	q = applyFilter(q, f)
	err := q.Select("observed_at AS date, AVG(amount) AS avg, COUNT(*) AS samples").
		Group("observed_at").
		Order("observed_at ASC").
		Scan(&points).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.EvolutionPoint, 0, len(points))
	for _, p := range points {
		out = append(out, dto.EvolutionPoint{
			Date:    p.Date.Format("2006-01-02"),
			Average: p.Avg,
			Samples: p.Samples,
		})
	}
	return out, nil
}

func (r *priceRepo) MapPoints(ctx context.Context, f dto.PriceFilter) ([]dto.MapPoint, error) {
	var rows []struct {
		LocalityID string
		Locality   string
		Latitude   *float64
		Longitude  *float64
		Avg        decimal.Decimal
		Samples    int64
	}
	q := r.db.WithContext(ctx).Model(&model.Price{}).
		Joins("JOIN localities ON localities.id = prices.locality_id").
		Where("prices.status = ?", model.StatusValidated)
	q = applyFilter(q, f)
	err := q.Select(
		"localities.id AS locality_id, localities.name AS locality, " +
			"localities.latitude, localities.longitude, " +
			"AVG(prices.amount) AS avg, COUNT(*) AS samples").
		Group("localities.id, localities.name, localities.latitude, localities.longitude").
		Order("locality ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.MapPoint, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.MapPoint{
			LocalityID: row.LocalityID,
			Locality:   row.Locality,
			Latitude:   row.Latitude,
			Longitude:  row.Longitude,
			Average:    row.Avg,
			Samples:    row.Samples,
		})
	}
	return out, nil
}

// BestByCategory picks, per category, the validated row holding the minimum
// amount (correlated subquery). Amount ties within a category are broken by
// most recent observation date then insertion order.
func (r *priceRepo) BestByCategory(ctx context.Context) ([]dto.CategoryBest, error) {
	var rows []struct {
		CategoryID string
		Category   string
		Product    string
		Locality   string
		Amount     decimal.Decimal
		ObservedAt time.Time
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (c.id)
		       c.id   AS category_id,
		       c.name AS category,
		       p.name AS product,
		       l.name AS locality,
		       pr.amount,
		       pr.observed_at
		FROM prices pr
		JOIN products p            ON p.id = pr.product_id
		JOIN product_categories c  ON c.id = p.category_id
		JOIN localities l          ON l.id = pr.locality_id
		WHERE pr.status = ?
		  AND pr.amount = (
		      SELECT MIN(pr2.amount)
		      FROM prices pr2
		      JOIN products p2 ON p2.id = pr2.product_id
		      WHERE p2.category_id = c.id AND pr2.status = ?)
		ORDER BY c.id, pr.observed_at DESC, pr.created_at DESC`,
		model.StatusValidated, model.StatusValidated).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.CategoryBest, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.CategoryBest{
			CategoryID: row.CategoryID,
			Category:   row.Category,
			Product:    row.Product,
			Locality:   row.Locality,
			Amount:     row.Amount,
			ObservedAt: row.ObservedAt.Format("2006-01-02"),
		})
	}
	return out, nil
}

func (r *priceRepo) BasketAverage(ctx context.Context, since time.Time) (dto.BasketIndex, error) {
	var row struct {
		Avg      decimal.Decimal
		Samples  int64
		Products int64
	}
	err := r.db.WithContext(ctx).Model(&model.Price{}).
		Where("status = ? AND observed_at >= ?", model.StatusValidated, since).
		Where("product_id IN (SELECT id FROM products WHERE essential = true)").
		Select("COALESCE(AVG(amount), 0) AS avg, COUNT(*) AS samples, COUNT(DISTINCT product_id) AS products").
		Scan(&row).Error
	if err != nil {
		return dto.BasketIndex{}, err
	}
	return dto.BasketIndex{Average: row.Avg, Samples: row.Samples, Products: row.Products}, nil
}

func (r *priceRepo) ListValidatedSince(ctx context.Context, since time.Time) ([]model.Price, error) {
	var prices []model.Price
	err := r.db.WithContext(ctx).
		Where("status = ? AND observed_at >= ?", model.StatusValidated, since).
		Order("observed_at ASC").
		Preload("Product").Preload("Locality").Preload("Unit").Preload("Submitter").
		Find(&prices).Error
	return prices, err
}
