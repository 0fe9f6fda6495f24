package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"tenantcrm/internal/apperrors"
	"tenantcrm/internal/models"
)

type DealRepository interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, in models.DealInput) (*models.Deal, error)
	List(ctx context.Context, tenantID uuid.UUID, f models.DealFilter, page models.PageRequest) (*models.List[models.Deal], error)
	ListByCompany(ctx context.Context, tenantID, companyID uuid.UUID, page models.PageRequest) (*models.List[models.Deal], error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Deal, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, patch models.Patch) (*models.Deal, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}

var deals = table[models.Deal]{
	name:   "deals",
	entity: "deal",
	columns: []string{
		"id", "tenant_id", "company_id", "contact_id", "owner_id", "title",
		"description", "value", "currency", "status", "probability",
		"expected_close_date", "created_by", "created_at", "updated_at",
	},
	fields: dealFields,
}

type dealRepository struct {
	db *sqlx.DB
}

func NewDealRepository(db *sqlx.DB) DealRepository {
	return &dealRepository{db: db}
}

// Create applies the column defaults (open, USD, probability 0, value 0,
// owner = creator) and checks every reference against the tenant.
func (r *dealRepository) Create(ctx context.Context, tenantID, userID uuid.UUID, in models.DealInput) (*models.Deal, error) {
	if err := requireOwner(tenantID, userID); err != nil {
		return nil, err
	}
	var bad []apperrors.FieldError
	title := strings.TrimSpace(in.Title)
	if title == "" {
		bad = append(bad, apperrors.FieldError{Field: "title", Message: "must not be empty"})
	}
	if in.CompanyID == uuid.Nil {
		bad = append(bad, apperrors.FieldError{Field: "companyId", Message: "is required"})
	}
	value := decimal.Zero
	if in.Value != nil {
		value = *in.Value
		if value.IsNegative() {
			bad = append(bad, apperrors.FieldError{Field: "value", Message: "must be greater than or equal to 0"})
		}
	}
	status := in.Status
	if status == "" {
		status = models.DealOpen
	}
	if !status.Valid() {
		bad = append(bad, apperrors.FieldError{Field: "status", Message: "must be one of open, won, lost, on-hold"})
	}
	probability := 0
	if in.Probability != nil {
		probability = *in.Probability
		if probability < 0 || probability > 100 {
			bad = append(bad, apperrors.FieldError{Field: "probability", Message: "must be between 0 and 100"})
		}
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = models.DefaultCurrency
	}
	if len(currency) != 3 {
		bad = append(bad, apperrors.FieldError{Field: "currency", Message: "must be a 3-letter currency code"})
	}
	if len(bad) > 0 {
		return nil, apperrors.Validation(bad...)
	}

	owner := in.OwnerID
	if !owner.Valid {
		owner = uuid.NullUUID{UUID: userID, Valid: true}
	}
	refs := []refCheck{{field: "companyId", table: "companies", id: in.CompanyID}}
	if in.ContactID.Valid {
		refs = append(refs, refCheck{field: "contactId", table: "contacts", id: in.ContactID.UUID})
	}
	if in.OwnerID.Valid {
		refs = append(refs, refCheck{field: "ownerId", table: "users", id: in.OwnerID.UUID})
	}

	var out *models.Deal
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := checkRefs(ctx, tx, tenantID, refs); err != nil {
			return err
		}
		d, err := deals.insert(ctx, tx, map[string]any{
			"id":                  uuid.New(),
			"tenant_id":           tenantID,
			"company_id":          in.CompanyID,
			"contact_id":          in.ContactID,
			"owner_id":            owner,
			"title":               title,
			"description":         in.Description,
			"value":               value,
			"currency":            currency,
			"status":              string(status),
			"probability":         probability,
			"expected_close_date": in.ExpectedCloseDate,
			"created_by":          userID,
		})
		out = d
		return err
	})
	if err != nil {
		return nil, translate(err, "deal", "create deal")
	}
	return out, nil
}

func (r *dealRepository) List(ctx context.Context, tenantID uuid.UUID, f models.DealFilter, page models.PageRequest) (*models.List[models.Deal], error) {
	return deals.list(ctx, r.db, tenantID, dealFilter(f), page, "created_at DESC")
}

func dealFilter(f models.DealFilter) Filter {
	var preds []Predicate
	if f.Status != "" {
		preds = append(preds, Predicate{Column: "status", Op: OpEq, Value: string(f.Status)})
	}
	if f.MinValue != nil {
		preds = append(preds, Predicate{Column: "value", Op: OpGte, Value: *f.MinValue})
	}
	if f.MaxValue != nil {
		preds = append(preds, Predicate{Column: "value", Op: OpLte, Value: *f.MaxValue})
	}
	return Filter{All: preds}
}

func (r *dealRepository) ListByCompany(ctx context.Context, tenantID, companyID uuid.UUID, page models.PageRequest) (*models.List[models.Deal], error) {
	f := Filter{All: []Predicate{{Column: "company_id", Op: OpEq, Value: companyID}}}
	return deals.list(ctx, r.db, tenantID, f, page, "created_at DESC")
}

func (r *dealRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Deal, error) {
	return deals.get(ctx, r.db, tenantID, id)
}

func (r *dealRepository) Update(ctx context.Context, tenantID, id uuid.UUID, patch models.Patch) (*models.Deal, error) {
	return deals.update(ctx, r.db, tenantID, id, patch)
}

func (r *dealRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	ok, err := deals.deleteRow(ctx, r.db, tenantID, id)
	if err != nil {
		return false, translate(err, "deal", "delete deal")
	}
	return ok, nil
}
