package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DealStatus string

const (
	DealOpen   DealStatus = "open"
	DealWon    DealStatus = "won"
	DealLost   DealStatus = "lost"
	DealOnHold DealStatus = "on-hold"
)

const DefaultCurrency = "USD"

func (s DealStatus) Valid() bool {
	switch s {
	case DealOpen, DealWon, DealLost, DealOnHold:
		return true
	}
	return false
}

type Deal struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	TenantID          uuid.UUID       `db:"tenant_id" json:"tenantId"`
	CompanyID         uuid.UUID       `db:"company_id" json:"companyId"`
	ContactID         uuid.NullUUID   `db:"contact_id" json:"contactId"`
	OwnerID           uuid.NullUUID   `db:"owner_id" json:"ownerId"`
	Title             string          `db:"title" json:"title"`
	Description       *string         `db:"description" json:"description"`
	Value             decimal.Decimal `db:"value" json:"value"`
	Currency          string          `db:"currency" json:"currency"`
	Status            DealStatus      `db:"status" json:"status"`
	Probability       int             `db:"probability" json:"probability"`
	ExpectedCloseDate *Date           `db:"expected_close_date" json:"expectedCloseDate"`
	CreatedBy         uuid.NullUUID   `db:"created_by" json:"createdBy"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updatedAt"`
}

type DealInput struct {
	Title             string           `json:"title" binding:"required,max=255"`
	Description       *string          `json:"description"`
	Value             *decimal.Decimal `json:"value"`
	Currency          string           `json:"currency" binding:"omitempty,len=3,alpha"`
	Status            DealStatus       `json:"status" binding:"omitempty,oneof=open won lost on-hold"`
	Probability       *int             `json:"probability" binding:"omitempty,min=0,max=100"`
	ExpectedCloseDate *Date            `json:"expectedCloseDate"`
	CompanyID         uuid.UUID        `json:"companyId" binding:"required"`
	ContactID         uuid.NullUUID    `json:"contactId"`
	OwnerID           uuid.NullUUID    `json:"ownerId"`
}

// DealFilter narrows deal listings. Nil fields are not applied.
type DealFilter struct {
	Status   DealStatus
	MinValue *decimal.Decimal
	MaxValue *decimal.Decimal
}
