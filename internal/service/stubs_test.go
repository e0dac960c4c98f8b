package service

// stubs_test.go
// In-memory repository stubs shared by the service tests. Each stub keeps the
// same observable semantics as its GORM implementation: conditional-update
// transitions, gorm.ErrRecordNotFound on misses, idempotent role grants.

import (
	"context"
	"strings"
	"time"

	"localprice/internal/dto"
	"localprice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── PriceRepository stub ─────────────────────────────────────────────────────

type stubPriceRepo struct {
	prices map[uuid.UUID]*model.Price
}

func newStubPriceRepo() *stubPriceRepo {
	return &stubPriceRepo{prices: make(map[uuid.UUID]*model.Price)}
}

func (r *stubPriceRepo) Create(_ context.Context, p *model.Price) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	cloned := *p
	r.prices[p.ID] = &cloned
	return nil
}

func (r *stubPriceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Price, error) {
	p, ok := r.prices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *p
	return &cloned, nil
}

func (r *stubPriceRepo) List(_ context.Context, status string, f dto.PriceFilter) ([]model.Price, int64, error) {
	var out []model.Price
	for _, p := range r.prices {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

// Transition mirrors the conditional UPDATE: only a pending row moves.
func (r *stubPriceRepo) Transition(_ context.Context, id uuid.UUID, to string, validatorID uuid.UUID, at time.Time, comment, reason *string) (int64, error) {
	p, ok := r.prices[id]
	if !ok || p.Status != model.StatusPending {
		return 0, nil
	}
	p.Status = to
	p.ValidatorID = &validatorID
	p.ValidatedAt = &at
	if comment != nil {
		p.Comment = comment
	}
	if reason != nil {
		p.RejectionReason = reason
	}
	return 1, nil
}

func (r *stubPriceRepo) Summary(_ context.Context, _ dto.PriceFilter) (dto.PriceSummary, error) {
	var count int64
	for _, p := range r.prices {
		if p.Status == model.StatusValidated {
			count++
		}
	}
	return dto.PriceSummary{Count: count}, nil
}

func (r *stubPriceRepo) Evolution(_ context.Context, _ dto.PriceFilter) ([]dto.EvolutionPoint, error) {
	return nil, nil
}

func (r *stubPriceRepo) MapPoints(_ context.Context, _ dto.PriceFilter) ([]dto.MapPoint, error) {
	return nil, nil
}

func (r *stubPriceRepo) BestByCategory(_ context.Context) ([]dto.CategoryBest, error) {
	return nil, nil
}

func (r *stubPriceRepo) BasketAverage(_ context.Context, _ time.Time) (dto.BasketIndex, error) {
	return dto.BasketIndex{}, nil
}

func (r *stubPriceRepo) ListValidatedSince(_ context.Context, since time.Time) ([]model.Price, error) {
	var out []model.Price
	for _, p := range r.prices {
		if p.Status == model.StatusValidated && !p.ObservedAt.Before(since) {
			out = append(out, *p)
		}
	}
	return out, nil
}

// ── CatalogRepository stub ───────────────────────────────────────────────────

type stubCatalogRepo struct {
	products   map[uuid.UUID]*model.Product
	categories map[uuid.UUID]*model.ProductCategory
	units      map[uuid.UUID]*model.Unit
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{
		products:   make(map[uuid.UUID]*model.Product),
		categories: make(map[uuid.UUID]*model.ProductCategory),
		units:      make(map[uuid.UUID]*model.Unit),
	}
}

func (r *stubCatalogRepo) CreateProduct(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cloned := *p
	r.products[p.ID] = &cloned
	return nil
}

func (r *stubCatalogRepo) FindProductByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *p
	// Resolve the category association like the repository's Preload would.
	if cloned.CategoryID != nil {
		if cat, ok := r.categories[*cloned.CategoryID]; ok {
			c := *cat
			cloned.Category = &c
		}
	}
	return &cloned, nil
}

func (r *stubCatalogRepo) FindProductBySlug(_ context.Context, s string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Slug == s {
			cloned := *p
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCatalogRepo) FindOrCreateProduct(ctx context.Context, p *model.Product) error {
	if existing, err := r.FindProductBySlug(ctx, p.Slug); err == nil {
		*p = *existing
		return nil
	}
	return r.CreateProduct(ctx, p)
}

func (r *stubCatalogRepo) ListProducts(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubCatalogRepo) UpdateProduct(_ context.Context, p *model.Product) error {
	cloned := *p
	r.products[p.ID] = &cloned
	return nil
}

func (r *stubCatalogRepo) SoftDeleteProduct(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (r *stubCatalogRepo) CreateCategory(_ context.Context, c *model.ProductCategory) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cloned := *c
	r.categories[c.ID] = &cloned
	return nil
}

func (r *stubCatalogRepo) FindCategoryByID(_ context.Context, id uuid.UUID) (*model.ProductCategory, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *c
	return &cloned, nil
}

func (r *stubCatalogRepo) FindCategoryBySlug(_ context.Context, s string) (*model.ProductCategory, error) {
	for _, c := range r.categories {
		if c.Slug == s {
			cloned := *c
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCatalogRepo) ListCategories(_ context.Context) ([]model.ProductCategory, error) {
	var out []model.ProductCategory
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCatalogRepo) CreateUnit(_ context.Context, u *model.Unit) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cloned := *u
	r.units[u.ID] = &cloned
	return nil
}

func (r *stubCatalogRepo) FindUnitByID(_ context.Context, id uuid.UUID) (*model.Unit, error) {
	u, ok := r.units[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *u
	return &cloned, nil
}

func (r *stubCatalogRepo) FindUnitByName(_ context.Context, name string) (*model.Unit, error) {
	for _, u := range r.units {
		if strings.EqualFold(u.Name, name) {
			cloned := *u
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCatalogRepo) FindOrCreateUnit(ctx context.Context, u *model.Unit) error {
	if existing, err := r.FindUnitByName(ctx, u.Name); err == nil {
		*u = *existing
		return nil
	}
	return r.CreateUnit(ctx, u)
}

func (r *stubCatalogRepo) ListUnits(_ context.Context) ([]model.Unit, error) {
	var out []model.Unit
	for _, u := range r.units {
		out = append(out, *u)
	}
	return out, nil
}

// ── GeoRepository stub ───────────────────────────────────────────────────────

type stubGeoRepo struct {
	regions    map[uuid.UUID]*model.Region
	localities map[uuid.UUID]*model.Locality
}

func newStubGeoRepo() *stubGeoRepo {
	return &stubGeoRepo{
		regions:    make(map[uuid.UUID]*model.Region),
		localities: make(map[uuid.UUID]*model.Locality),
	}
}

func (r *stubGeoRepo) CreateRegion(_ context.Context, reg *model.Region) error {
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	cloned := *reg
	r.regions[reg.ID] = &cloned
	return nil
}

func (r *stubGeoRepo) FindRegionByID(_ context.Context, id uuid.UUID) (*model.Region, error) {
	reg, ok := r.regions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *reg
	return &cloned, nil
}

func (r *stubGeoRepo) FindRegionBySlug(_ context.Context, s string) (*model.Region, error) {
	for _, reg := range r.regions {
		if reg.Slug == s {
			cloned := *reg
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubGeoRepo) ListRegions(_ context.Context) ([]model.Region, error) {
	var out []model.Region
	for _, reg := range r.regions {
		out = append(out, *reg)
	}
	return out, nil
}

func (r *stubGeoRepo) CreateLocality(_ context.Context, l *model.Locality) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	cloned := *l
	r.localities[l.ID] = &cloned
	return nil
}

func (r *stubGeoRepo) FindLocalityByID(_ context.Context, id uuid.UUID) (*model.Locality, error) {
	l, ok := r.localities[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *l
	return &cloned, nil
}

func (r *stubGeoRepo) FindLocalityBySlug(_ context.Context, s string) (*model.Locality, error) {
	for _, l := range r.localities {
		if l.Slug == s {
			cloned := *l
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubGeoRepo) FindOrCreateLocality(ctx context.Context, l *model.Locality) error {
	if existing, err := r.FindLocalityBySlug(ctx, l.Slug); err == nil {
		*l = *existing
		return nil
	}
	return r.CreateLocality(ctx, l)
}

func (r *stubGeoRepo) ListLocalities(_ context.Context, regionID string, _, _ int) ([]model.Locality, int64, error) {
	var out []model.Locality
	for _, l := range r.localities {
		if regionID == "" || (l.RegionID != nil && l.RegionID.String() == regionID) {
			out = append(out, *l)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubGeoRepo) UpdateLocality(_ context.Context, l *model.Locality) error {
	cloned := *l
	r.localities[l.ID] = &cloned
	return nil
}

// ── UserRepository stub ──────────────────────────────────────────────────────

type stubUserRepo struct {
	users  map[uuid.UUID]*model.User
	roles  map[string]*model.Role
	grants map[uuid.UUID]map[uuid.UUID]bool // userID → roleID set
}

func newStubUserRepo() *stubUserRepo {
	r := &stubUserRepo{
		users:  make(map[uuid.UUID]*model.User),
		roles:  make(map[string]*model.Role),
		grants: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
	for _, name := range []string{model.RoleUser, model.RoleContributor, model.RoleAdmin, model.RoleSuperAdmin} {
		r.roles[name] = &model.Role{ID: uuid.New(), Name: name}
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cloned := *u
	r.users[u.ID] = &cloned
	return nil
}

// withRoles resolves the pivot into the Roles slice like Preload would.
func (r *stubUserRepo) withRoles(u *model.User) *model.User {
	cloned := *u
	cloned.Roles = nil
	for _, role := range r.roles {
		if r.grants[u.ID][role.ID] {
			cloned.Roles = append(cloned.Roles, *role)
		}
	}
	return &cloned
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.withRoles(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return r.withRoles(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByExternalSubject(_ context.Context, subject string) (*model.User, error) {
	for _, u := range r.users {
		if u.ExternalSubject != nil && *u.ExternalSubject == subject && u.Active {
			return r.withRoles(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context, includeInactive bool, _, _ int) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range r.users {
		if includeInactive || u.Active {
			out = append(out, *r.withRoles(u))
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = true
	}
	return nil
}

func (r *stubUserRepo) FindRoleByName(_ context.Context, name string) (*model.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (r *stubUserRepo) GrantRole(_ context.Context, userID, roleID uuid.UUID, _ *uuid.UUID) error {
	if r.grants[userID] == nil {
		r.grants[userID] = make(map[uuid.UUID]bool)
	}
	r.grants[userID][roleID] = true
	return nil
}

func (r *stubUserRepo) RevokeRole(_ context.Context, userID, roleID uuid.UUID) error {
	delete(r.grants[userID], roleID)
	return nil
}

func (r *stubUserRepo) RoleHeadcounts(_ context.Context) ([]dto.RoleHeadcount, error) {
	return nil, nil
}

func (r *stubUserRepo) hasRole(userID uuid.UUID, roleName string) bool {
	role, ok := r.roles[roleName]
	if !ok {
		return false
	}
	return r.grants[userID][role.ID]
}

// ── ContributionRepository stub ──────────────────────────────────────────────

type stubContributionRepo struct {
	requests map[uuid.UUID]*model.ContributionRequest
	prefs    map[uuid.UUID]*model.NotificationPreference
}

func newStubContributionRepo() *stubContributionRepo {
	return &stubContributionRepo{
		requests: make(map[uuid.UUID]*model.ContributionRequest),
		prefs:    make(map[uuid.UUID]*model.NotificationPreference),
	}
}

func (r *stubContributionRepo) Create(_ context.Context, cr *model.ContributionRequest) error {
	if cr.ID == uuid.Nil {
		cr.ID = uuid.New()
	}
	cr.CreatedAt = time.Now()
	cloned := *cr
	r.requests[cr.ID] = &cloned
	return nil
}

func (r *stubContributionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ContributionRequest, error) {
	cr, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *cr
	return &cloned, nil
}

func (r *stubContributionRepo) HasPending(_ context.Context, applicantID uuid.UUID) (bool, error) {
	for _, cr := range r.requests {
		if cr.ApplicantID == applicantID && cr.Status == model.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubContributionRepo) ListPending(_ context.Context, _, _ int) ([]model.ContributionRequest, int64, error) {
	var out []model.ContributionRequest
	for _, cr := range r.requests {
		if cr.Status == model.StatusPending {
			out = append(out, *cr)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubContributionRepo) Transition(_ context.Context, id uuid.UUID, to string, reviewerID uuid.UUID, at time.Time, reason *string) (int64, error) {
	cr, ok := r.requests[id]
	if !ok || cr.Status != model.StatusPending {
		return 0, nil
	}
	cr.Status = to
	cr.ReviewerID = &reviewerID
	cr.ReviewedAt = &at
	if reason != nil {
		cr.Reason = reason
	}
	return 1, nil
}

func (r *stubContributionRepo) GetPreferences(_ context.Context, userID uuid.UUID) (*model.NotificationPreference, error) {
	p, ok := r.prefs[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *p
	return &cloned, nil
}

func (r *stubContributionRepo) SavePreferences(_ context.Context, p *model.NotificationPreference) error {
	cloned := *p
	r.prefs[p.UserID] = &cloned
	return nil
}

// ── SupplierRepository stub ──────────────────────────────────────────────────

type stubSupplierRepo struct {
	suppliers  map[uuid.UUID]*model.Supplier
	prices     []model.SupplierPrice
	candidates []model.SupplierPrice
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cloned := *s
	r.suppliers[s.ID] = &cloned
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *s
	return &cloned, nil
}

func (r *stubSupplierRepo) List(_ context.Context, _, _ int) ([]model.Supplier, int64, error) {
	var out []model.Supplier
	for _, s := range r.suppliers {
		if s.Active {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSupplierRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if s, ok := r.suppliers[id]; ok {
		s.Active = false
	}
	return nil
}

func (r *stubSupplierRepo) CreatePrice(_ context.Context, sp *model.SupplierPrice) error {
	if sp.ID == uuid.Nil {
		sp.ID = uuid.New()
	}
	r.prices = append(r.prices, *sp)
	return nil
}

func (r *stubSupplierRepo) ListPrices(_ context.Context, supplierID uuid.UUID, _, _ int) ([]model.SupplierPrice, int64, error) {
	var out []model.SupplierPrice
	for _, sp := range r.prices {
		if sp.SupplierID == supplierID {
			out = append(out, sp)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSupplierRepo) CheapestCandidates(_ context.Context) ([]model.SupplierPrice, error) {
	return r.candidates, nil
}

func (r *stubSupplierRepo) SetAvailability(_ context.Context, _ *model.SupplierAvailability) error {
	return nil
}

func (r *stubSupplierRepo) ListAvailability(_ context.Context, _ uuid.UUID) ([]model.SupplierAvailability, error) {
	return nil, nil
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// ── Notifier stub ────────────────────────────────────────────────────────────

type stubNotifier struct {
	payloads []interface{}
}

func (n *stubNotifier) EnqueueEmail(_ context.Context, payload interface{}) error {
	n.payloads = append(n.payloads, payload)
	return nil
}
