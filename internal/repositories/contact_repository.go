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

type ContactRepository interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, in models.ContactInput) (*models.Contact, error)
	List(ctx context.Context, tenantID uuid.UUID, search string, page models.PageRequest) (*models.List[models.Contact], error)
	// ListByCompany orders primary contacts first, then newest first.
	ListByCompany(ctx context.Context, tenantID, companyID uuid.UUID, page models.PageRequest) (*models.List[models.Contact], error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Contact, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, patch models.Patch) (*models.Contact, error)
	// Delete removes the contact and clears it from any deal in one
	// transaction.
	Delete(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}

var contacts = table[models.Contact]{
	name:   "contacts",
	entity: "contact",
	columns: []string{
		"id", "tenant_id", "company_id", "first_name", "last_name", "email",
		"phone", "job_title", "department", "is_primary_contact", "notes",
		"created_by", "created_at", "updated_at",
	},
	fields: contactFields,
}

type contactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, tenantID, userID uuid.UUID, in models.ContactInput) (*models.Contact, error) {
	if err := requireOwner(tenantID, userID); err != nil {
		return nil, err
	}
	var bad []apperrors.FieldError
	first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if first == "" {
		bad = append(bad, apperrors.FieldError{Field: "firstName", Message: "must not be empty"})
	}
	if last == "" {
		bad = append(bad, apperrors.FieldError{Field: "lastName", Message: "must not be empty"})
	}
	if email == "" {
		bad = append(bad, apperrors.FieldError{Field: "email", Message: "must not be empty"})
	}
	if len(bad) > 0 {
		return nil, apperrors.Validation(bad...)
	}

	var refs []refCheck
	if in.CompanyID.Valid {
		refs = append(refs, refCheck{field: "companyId", table: "companies", id: in.CompanyID.UUID})
	}

	var out *models.Contact
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := checkRefs(ctx, tx, tenantID, refs); err != nil {
			return err
		}
		c, err := contacts.insert(ctx, tx, map[string]any{
			"id":                 uuid.New(),
			"tenant_id":          tenantID,
			"company_id":         in.CompanyID,
			"first_name":         first,
			"last_name":          last,
			"email":              email,
			"phone":              in.Phone,
			"job_title":          in.JobTitle,
			"department":         in.Department,
			"is_primary_contact": in.IsPrimaryContact,
			"notes":              in.Notes,
			"created_by":         userID,
		})
		out = c
		return err
	})
	if err != nil {
		return nil, translate(err, "contact", "create contact")
	}
	return out, nil
}

func (r *contactRepository) List(ctx context.Context, tenantID uuid.UUID, search string, page models.PageRequest) (*models.List[models.Contact], error) {
	f := Filter{Any: Search(search, "first_name", "last_name", "email")}
	return contacts.list(ctx, r.db, tenantID, f, page, "created_at DESC")
}

func (r *contactRepository) ListByCompany(ctx context.Context, tenantID, companyID uuid.UUID, page models.PageRequest) (*models.List[models.Contact], error) {
	f := Filter{All: []Predicate{{Column: "company_id", Op: OpEq, Value: companyID}}}
	return contacts.list(ctx, r.db, tenantID, f, page, "is_primary_contact DESC", "created_at DESC")
}

func (r *contactRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Contact, error) {
	return contacts.get(ctx, r.db, tenantID, id)
}

func (r *contactRepository) Update(ctx context.Context, tenantID, id uuid.UUID, patch models.Patch) (*models.Contact, error) {
	return contacts.update(ctx, r.db, tenantID, id, patch)
}

func (r *contactRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	const detachDeals = `UPDATE deals SET contact_id = NULL, updated_at = NOW() WHERE contact_id = $1 AND tenant_id = $2`
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		found, err := contacts.lockRow(ctx, tx, tenantID, id)
		if err != nil {
			return err
		}
		if !found {
			return errNothingDeleted
		}
		if _, err := tx.ExecContext(ctx, detachDeals, id, tenantID); err != nil {
			return err
		}
		_, err = contacts.deleteRow(ctx, tx, tenantID, id)
		return err
	})
	if errors.Is(err, errNothingDeleted) {
		return false, nil
	}
	if err != nil {
		return false, translate(err, "contact", "delete contact")
	}
	return true, nil
}

