package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact.Email is unique across all tenants, unlike user emails.
type Contact struct {
	ID               uuid.UUID     `db:"id" json:"id"`
	TenantID         uuid.UUID     `db:"tenant_id" json:"tenantId"`
	CompanyID        uuid.NullUUID `db:"company_id" json:"companyId"`
	FirstName        string        `db:"first_name" json:"firstName"`
	LastName         string        `db:"last_name" json:"lastName"`
	Email            string        `db:"email" json:"email"`
	Phone            *string       `db:"phone" json:"phone"`
	JobTitle         *string       `db:"job_title" json:"jobTitle"`
	Department       *string       `db:"department" json:"department"`
	IsPrimaryContact bool          `db:"is_primary_contact" json:"isPrimaryContact"`
	Notes            *string       `db:"notes" json:"notes"`
	CreatedBy        uuid.NullUUID `db:"created_by" json:"createdBy"`
	CreatedAt        time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updatedAt"`
}

type ContactInput struct {
	FirstName        string        `json:"firstName" binding:"required,max=100"`
	LastName         string        `json:"lastName" binding:"required,max=100"`
	Email            string        `json:"email" binding:"required,email,max=255"`
	Phone            *string       `json:"phone" binding:"omitempty,max=20"`
	JobTitle         *string       `json:"jobTitle" binding:"omitempty,max=100"`
	Department       *string       `json:"department" binding:"omitempty,max=100"`
	CompanyID        uuid.NullUUID `json:"companyId"`
	IsPrimaryContact bool          `json:"isPrimaryContact"`
	Notes            *string       `json:"notes"`
}
