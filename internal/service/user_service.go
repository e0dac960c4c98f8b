package service

import (
	"context"
	"errors"

	"localprice/internal/dto"
	"localprice/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserService covers the admin-side account and role management surface.
type UserService interface {
	List(ctx context.Context, includeInactive bool, p dto.Pagination) ([]dto.UserResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error

	GrantRole(ctx context.Context, userID uuid.UUID, role string, grantedBy uuid.UUID) (*dto.UserResponse, error)
	RevokeRole(ctx context.Context, userID uuid.UUID, role string) (*dto.UserResponse, error)
	RoleHeadcounts(ctx context.Context) ([]dto.RoleHeadcount, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) List(ctx context.Context, includeInactive bool, p dto.Pagination) ([]dto.UserResponse, int64, error) {
	p.Clamp()
	users, total, err := s.users.List(ctx, includeInactive, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.UserResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}
	return out, total, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.users.SoftDelete(ctx, id)
}

func (s *userService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.users.Reactivate(ctx, id)
}

func (s *userService) GrantRole(ctx context.Context, userID uuid.UUID, roleName string, grantedBy uuid.UUID) (*dto.UserResponse, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	role, err := s.users.FindRoleByName(ctx, roleName)
	if err != nil {
		return nil, ErrInvalidReference
	}
	if err := s.users.GrantRole(ctx, userID, role.ID, &grantedBy); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *userService) RevokeRole(ctx context.Context, userID uuid.UUID, roleName string) (*dto.UserResponse, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	role, err := s.users.FindRoleByName(ctx, roleName)
	if err != nil {
		return nil, ErrInvalidReference
	}
	if err := s.users.RevokeRole(ctx, userID, role.ID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *userService) RoleHeadcounts(ctx context.Context) ([]dto.RoleHeadcount, error) {
	return s.users.RoleHeadcounts(ctx)
}
