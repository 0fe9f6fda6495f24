package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"tenantcrm/internal/apperrors"
	"tenantcrm/internal/models"
)

type fakeUserRepo struct {
	tenants []models.Tenant
	users   []models.User
	err     error
}

func (r *fakeUserRepo) CreateTenantWithAdmin(_ context.Context, tenant *models.Tenant, user *models.User) error {
	if r.err != nil {
		return r.err
	}
	for _, t := range r.tenants {
		if t.Domain == tenant.Domain {
			return apperrors.Conflict("tenant already exists")
		}
	}
	tenant.ID = uuid.New()
	user.ID = uuid.New()
	user.TenantID = tenant.ID
	user.IsActive = true
	r.tenants = append(r.tenants, *tenant)
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepo) ListByEmail(_ context.Context, email, tenantDomain string) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		if u.Email != email {
			continue
		}
		if tenantDomain != "" && r.domainOf(u.TenantID) != tenantDomain {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id && u.TenantID == tenantID {
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (r *fakeUserRepo) domainOf(tenantID uuid.UUID) string {
	for _, t := range r.tenants {
		if t.ID == tenantID {
			return t.Domain
		}
	}
	return ""
}

type fakeEmail struct {
	sent []string
	err  error
}

func (e *fakeEmail) SendWelcomeEmail(email, _, _ string) error {
	e.sent = append(e.sent, email)
	return e.err
}

// fakeCompanyRepo records the tenant of every call.
type fakeCompanyRepo struct {
	tenants []uuid.UUID
	deleted bool
}

func (r *fakeCompanyRepo) Create(_ context.Context, tenantID, userID uuid.UUID, in models.CompanyInput) (*models.Company, error) {
	r.tenants = append(r.tenants, tenantID)
	return &models.Company{ID: uuid.New(), TenantID: tenantID, Name: in.Name, CreatedBy: uuid.NullUUID{UUID: userID, Valid: true}}, nil
}

func (r *fakeCompanyRepo) List(_ context.Context, tenantID uuid.UUID, _ string, page models.PageRequest) (*models.List[models.Company], error) {
	r.tenants = append(r.tenants, tenantID)
	return models.NewList[models.Company](nil, page, 0), nil
}

func (r *fakeCompanyRepo) GetByID(_ context.Context, tenantID, _ uuid.UUID) (*models.Company, error) {
	r.tenants = append(r.tenants, tenantID)
	return nil, apperrors.NotFound("company")
}

func (r *fakeCompanyRepo) Update(_ context.Context, tenantID, id uuid.UUID, _ models.Patch) (*models.Company, error) {
	r.tenants = append(r.tenants, tenantID)
	return &models.Company{ID: id, TenantID: tenantID}, nil
}

func (r *fakeCompanyRepo) Delete(_ context.Context, tenantID, _ uuid.UUID) (bool, error) {
	r.tenants = append(r.tenants, tenantID)
	return r.deleted, nil
}

type fakeDealRepo struct {
	listed *models.DealFilter
	err    error
}

func (r *fakeDealRepo) Create(_ context.Context, tenantID, userID uuid.UUID, in models.DealInput) (*models.Deal, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &models.Deal{ID: uuid.New(), TenantID: tenantID, CompanyID: in.CompanyID, Title: in.Title}, nil
}

func (r *fakeDealRepo) List(_ context.Context, _ uuid.UUID, f models.DealFilter, page models.PageRequest) (*models.List[models.Deal], error) {
	r.listed = &f
	return models.NewList[models.Deal](nil, page, 0), nil
}

func (r *fakeDealRepo) ListByCompany(context.Context, uuid.UUID, uuid.UUID, models.PageRequest) (*models.List[models.Deal], error) {
	return nil, errors.New("not implemented")
}

func (r *fakeDealRepo) GetByID(context.Context, uuid.UUID, uuid.UUID) (*models.Deal, error) {
	return nil, apperrors.NotFound("deal")
}

func (r *fakeDealRepo) Update(_ context.Context, tenantID, id uuid.UUID, _ models.Patch) (*models.Deal, error) {
	return &models.Deal{ID: id, TenantID: tenantID, Status: models.DealWon}, nil
}

func (r *fakeDealRepo) Delete(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return true, nil
}
