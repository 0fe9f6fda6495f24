package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TenantID     uuid.UUID `db:"tenant_id" json:"tenantId"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"` // never serialised
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	Role         string    `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type RegisterRequest struct {
	TenantName string `json:"tenantName" binding:"required,max=255"`
	Email      string `json:"email" binding:"required,email,max=255"`
	Password   string `json:"password" binding:"required,min=8,max=72"`
	FirstName  string `json:"firstName" binding:"required,max=100"`
	LastName   string `json:"lastName" binding:"required,max=100"`
}

type LoginRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
	TenantDomain string `json:"tenantDomain"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
