package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tenantcrm/internal/authz"
	"tenantcrm/internal/models"
	"tenantcrm/internal/repositories"
)

type CompanyService interface {
	Create(ctx context.Context, p authz.Principal, in models.CompanyInput) (*models.Company, error)
	List(ctx context.Context, p authz.Principal, search string, page models.PageRequest) (*models.List[models.Company], error)
	GetByID(ctx context.Context, p authz.Principal, id uuid.UUID) (*models.Company, error)
	Update(ctx context.Context, p authz.Principal, id uuid.UUID, patch models.Patch) (*models.Company, error)
	Delete(ctx context.Context, p authz.Principal, id uuid.UUID) (bool, error)
}

type companyService struct {
	repo   repositories.CompanyRepository
	logger *zap.Logger
}

func NewCompanyService(repo repositories.CompanyRepository, logger *zap.Logger) CompanyService {
	return &companyService{repo: repo, logger: logger}
}

func (s *companyService) Create(ctx context.Context, p authz.Principal, in models.CompanyInput) (*models.Company, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	company, err := s.repo.Create(ctx, p.TenantID, p.UserID, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("company created", tenantField(p), zap.String("company_id", company.ID.String()))
	return company, nil
}

func (s *companyService) List(ctx context.Context, p authz.Principal, search string, page models.PageRequest) (*models.List[models.Company], error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, p.TenantID, search, page)
}

func (s *companyService) GetByID(ctx context.Context, p authz.Principal, id uuid.UUID) (*models.Company, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, p.TenantID, id)
}

func (s *companyService) Update(ctx context.Context, p authz.Principal, id uuid.UUID, patch models.Patch) (*models.Company, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, p.TenantID, id, patch)
}

// Delete also removes the company's deals and detaches its contacts.
func (s *companyService) Delete(ctx context.Context, p authz.Principal, id uuid.UUID) (bool, error) {
	if err := requirePrincipal(p); err != nil {
		return false, err
	}
	ok, err := s.repo.Delete(ctx, p.TenantID, id)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info("company deleted", tenantField(p), zap.String("company_id", id.String()))
	}
	return ok, nil
}

func tenantField(p authz.Principal) zap.Field {
	return zap.String("tenant_id", p.TenantID.String())
}
