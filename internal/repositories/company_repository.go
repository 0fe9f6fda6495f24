package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tenantcrm/internal/apperrors"
	"tenantcrm/internal/models"
)

type CompanyRepository interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, in models.CompanyInput) (*models.Company, error)
	List(ctx context.Context, tenantID uuid.UUID, search string, page models.PageRequest) (*models.List[models.Company], error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Company, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, patch models.Patch) (*models.Company, error)
	// Delete removes the company, its deals, and detaches its contacts in
	// one transaction. It reports false when no such company exists.
	Delete(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}

var companies = table[models.Company]{
	name:   "companies",
	entity: "company",
	columns: []string{
		"id", "tenant_id", "name", "industry", "website", "phone", "email",
		"address", "city", "state", "country", "postal_code",
		"employee_count", "annual_revenue", "created_by", "created_at", "updated_at",
	},
	fields: companyFields,
}

var errNothingDeleted = errors.New("nothing deleted")

type companyRepository struct {
	db *sqlx.DB
}

func NewCompanyRepository(db *sqlx.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, tenantID, userID uuid.UUID, in models.CompanyInput) (*models.Company, error) {
	if err := requireOwner(tenantID, userID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.Validation(apperrors.FieldError{Field: "name", Message: "must not be empty"})
	}
	var email *string
	if in.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*in.Email))
		email = &e
	}
	return companies.insert(ctx, r.db, map[string]any{
		"id":             uuid.New(),
		"tenant_id":      tenantID,
		"name":           name,
		"industry":       in.Industry,
		"website":        in.Website,
		"phone":          in.Phone,
		"email":          email,
		"address":        in.Address,
		"city":           in.City,
		"state":          in.State,
		"country":        in.Country,
		"postal_code":    in.PostalCode,
		"employee_count": in.EmployeeCount,
		"annual_revenue": in.AnnualRevenue,
		"created_by":     userID,
	})
}

func (r *companyRepository) List(ctx context.Context, tenantID uuid.UUID, search string, page models.PageRequest) (*models.List[models.Company], error) {
	f := Filter{Any: Search(search, "name", "industry")}
	return companies.list(ctx, r.db, tenantID, f, page, "created_at DESC")
}

func (r *companyRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Company, error) {
	return companies.get(ctx, r.db, tenantID, id)
}

func (r *companyRepository) Update(ctx context.Context, tenantID, id uuid.UUID, patch models.Patch) (*models.Company, error) {
	return companies.update(ctx, r.db, tenantID, id, patch)
}

func (r *companyRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	const (
		deleteDeals    = `DELETE FROM deals WHERE company_id = $1 AND tenant_id = $2`
		detachContacts = `UPDATE contacts SET company_id = NULL, updated_at = NOW() WHERE company_id = $1 AND tenant_id = $2`
	)
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		found, err := companies.lockRow(ctx, tx, tenantID, id)
		if err != nil {
			return err
		}
		if !found {
			return errNothingDeleted
		}
		if _, err := tx.ExecContext(ctx, deleteDeals, id, tenantID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, detachContacts, id, tenantID); err != nil {
			return err
		}
		if _, err := companies.deleteRow(ctx, tx, tenantID, id); err != nil {
			return err
		}
		return nil
	})
	if errors.Is(err, errNothingDeleted) {
		return false, nil
	}
	if err != nil {
		return false, translate(err, "company", "delete company")
	}
	return true, nil
}

// requireOwner guards the tenant-critical stamps of every insert.
func requireOwner(tenantID, userID uuid.UUID) error {
	var bad []apperrors.FieldError
	if tenantID == uuid.Nil {
		bad = append(bad, apperrors.FieldError{Field: "tenantId", Message: "is required"})
	}
	if userID == uuid.Nil {
		bad = append(bad, apperrors.FieldError{Field: "createdBy", Message: "is required"})
	}
	if len(bad) > 0 {
		return apperrors.Validation(bad...)
	}
	return nil
}
