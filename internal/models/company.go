package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Company struct {
	ID            uuid.UUID           `db:"id" json:"id"`
	TenantID      uuid.UUID           `db:"tenant_id" json:"tenantId"`
	Name          string              `db:"name" json:"name"`
	Industry      *string             `db:"industry" json:"industry"`
	Website       *string             `db:"website" json:"website"`
	Phone         *string             `db:"phone" json:"phone"`
	Email         *string             `db:"email" json:"email"`
	Address       *string             `db:"address" json:"address"`
	City          *string             `db:"city" json:"city"`
	State         *string             `db:"state" json:"state"`
	Country       *string             `db:"country" json:"country"`
	PostalCode    *string             `db:"postal_code" json:"postalCode"`
	EmployeeCount *int                `db:"employee_count" json:"employeeCount"`
	AnnualRevenue decimal.NullDecimal `db:"annual_revenue" json:"annualRevenue"`
	CreatedBy     uuid.NullUUID       `db:"created_by" json:"createdBy"`
	CreatedAt     time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time           `db:"updated_at" json:"updatedAt"`
}

// CompanyInput is the create payload.
type CompanyInput struct {
	Name          string              `json:"name" binding:"required,max=255"`
	Industry      *string             `json:"industry" binding:"omitempty,max=100"`
	Website       *string             `json:"website" binding:"omitempty,max=255"`
	Phone         *string             `json:"phone" binding:"omitempty,max=20"`
	Email         *string             `json:"email" binding:"omitempty,email,max=255"`
	Address       *string             `json:"address"`
	City          *string             `json:"city" binding:"omitempty,max=100"`
	State         *string             `json:"state" binding:"omitempty,max=100"`
	Country       *string             `json:"country" binding:"omitempty,max=100"`
	PostalCode    *string             `json:"postalCode" binding:"omitempty,max=20"`
	EmployeeCount *int                `json:"employeeCount" binding:"omitempty,min=0"`
	AnnualRevenue decimal.NullDecimal `json:"annualRevenue"`
}
