package model

import (
	"time"

	"github.com/google/uuid"
)

// Role names. A user's effective permission set is the union of the roles
// found in the user_roles pivot — there is no role column on the user row.
const (
	RoleUser        = "user"
	RoleContributor = "contributor"
	RoleAdmin       = "admin"
	RoleSuperAdmin  = "super_admin"
)

// User stores both locally authenticated accounts (password hash present) and
// accounts provisioned from an external identity provider (external subject
// present, no password).
type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username        string    `gorm:"uniqueIndex;not null"`
	Email           *string   `gorm:"uniqueIndex"`
	PasswordHash    *string
	ExternalSubject *string `gorm:"uniqueIndex"`
	Active          bool    `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Roles []Role `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
}

// RoleNames returns the names of the preloaded pivot roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// HasRole reports whether the preloaded pivot contains the given role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Role is a named permission grant. The four rows (user, contributor, admin,
// super_admin) are seeded at boot and never deleted.
type Role struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

// UserRole is the user ↔ role pivot — the single source of truth for
// authorization. GrantedBy records which admin performed the grant.
type UserRole struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	GrantedAt time.Time `gorm:"not null;default:now()"`
	GrantedBy *uuid.UUID `gorm:"type:uuid"`
}

func (UserRole) TableName() string { return "user_roles" }
