package repository

import (
	"context"
	"time"

	"localprice/internal/dto"
	"localprice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByExternalSubject(ctx context.Context, subject string) (*model.User, error)
	List(ctx context.Context, includeInactive bool, limit, offset int) ([]model.User, int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error

	// Role pivot — the single source of truth for authorization.
	FindRoleByName(ctx context.Context, name string) (*model.Role, error)
	GrantRole(ctx context.Context, userID, roleID uuid.UUID, grantedBy *uuid.UUID) error
	RevokeRole(ctx context.Context, userID, roleID uuid.UUID) error
	RoleHeadcounts(ctx context.Context) ([]dto.RoleHeadcount, error)
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Preload("Roles").First(&u, "id = ?", id).Error
	return &u, err
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	// Accept login by username OR email (case-insensitive email match)
	err := r.db.WithContext(ctx).Preload("Roles").
		Where("(username = ? OR LOWER(email) = LOWER(?)) AND active = true", username, username).
		First(&u).Error
	return &u, err
}

func (r *userRepo) FindByExternalSubject(ctx context.Context, subject string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Preload("Roles").
		Where("external_subject = ? AND active = true", subject).
		First(&u).Error
	return &u, err
}

func (r *userRepo) List(ctx context.Context, includeInactive bool, limit, offset int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	q := r.db.WithContext(ctx).Model(&model.User{})
	if !includeInactive {
		q = q.Where("active = true")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("username ASC").Limit(limit).Offset(offset).Preload("Roles").Find(&users).Error
	return users, total, err
}

func (r *userRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("active", false).Error
}

func (r *userRepo) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("active", true).Error
}

func (r *userRepo) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	return &role, err
}

// GrantRole is idempotent: granting an already-held role is a no-op success.
func (r *userRepo) GrantRole(ctx context.Context, userID, roleID uuid.UUID, grantedBy *uuid.UUID) error {
	pivot := model.UserRole{
		UserID:    userID,
		RoleID:    roleID,
		GrantedAt: time.Now().UTC(),
		GrantedBy: grantedBy,
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		FirstOrCreate(&pivot).Error
}

func (r *userRepo) RevokeRole(ctx context.Context, userID, roleID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&model.UserRole{}).Error
}

// RoleHeadcounts reports distinct users per role. super_admin holders are
// excluded from the admin count even though they have admin-equivalent access.
func (r *userRepo) RoleHeadcounts(ctx context.Context) ([]dto.RoleHeadcount, error) {
	var rows []dto.RoleHeadcount
	err := r.db.WithContext(ctx).Raw(`
		SELECT r.name AS role, COUNT(DISTINCT ur.user_id) AS count
		FROM roles r
		LEFT JOIN user_roles ur ON ur.role_id = r.id
		WHERE r.name <> ?
		   OR NOT EXISTS (
		       SELECT 1 FROM user_roles ur2
		       JOIN roles r2 ON r2.id = ur2.role_id
		       WHERE ur2.user_id = ur.user_id AND r2.name = ?)
		GROUP BY r.name
		ORDER BY r.name`,
		model.RoleAdmin, model.RoleSuperAdmin).
		Scan(&rows).Error
	return rows, err
}
