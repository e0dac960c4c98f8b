package infra

import (
	"fmt"

	"localprice/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate,
// seeds the fixed role rows, then applies the idempotent SQL patches GORM
// cannot express (partial indexes). All DDL happens here, once, at boot —
// never from request-serving code paths.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies the full schema: AutoMigrate, role seeding, patches.
// Exposed separately so integration tests can migrate their own database.
func RunMigrations(db *gorm.DB) error {
	if err := db.SetupJoinTable(&model.User{}, "Roles", &model.UserRole{}); err != nil {
		return fmt.Errorf("join table: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.UserRole{},
		&model.Region{},
		&model.Locality{},
		&model.ProductCategory{},
		&model.Product{},
		&model.Unit{},
		&model.Price{},
		&model.ContributionRequest{},
		&model.NotificationPreference{},
		&model.Supplier{},
		&model.SupplierPrice{},
		&model.SupplierAvailability{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := seedRoles(db); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}

	return nil
}

// seedRoles ensures the four fixed role rows exist. Idempotent.
func seedRoles(db *gorm.DB) error {
	for _, name := range []string{
		model.RoleUser,
		model.RoleContributor,
		model.RoleAdmin,
		model.RoleSuperAdmin,
	} {
		role := model.Role{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully handle
// (partial indexes for the moderation queues). Each statement uses IF NOT
// EXISTS semantics so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Pending-only partial index: the admin queue and every conditional
		// transition filter on status='pending'.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_prices_pending') THEN
		    CREATE INDEX idx_prices_pending ON prices (created_at) WHERE status = 'pending';
		  END IF;
		END $$`,
		// One pending contribution request per applicant, enforced by the store.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_contribution_requests_one_pending') THEN
		    CREATE UNIQUE INDEX idx_contribution_requests_one_pending
		        ON contribution_requests (applicant_id)
		        WHERE status = 'pending';
		  END IF;
		END $$`,
		// Validated listing is the hot public read path.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_prices_validated_observed') THEN
		    CREATE INDEX idx_prices_validated_observed
		        ON prices (observed_at DESC)
		        WHERE status = 'validated';
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
