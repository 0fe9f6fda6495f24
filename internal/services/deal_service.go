package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tenantcrm/internal/apperrors"
	"tenantcrm/internal/authz"
	"tenantcrm/internal/models"
	"tenantcrm/internal/repositories"
)

type DealService interface {
	Create(ctx context.Context, p authz.Principal, in models.DealInput) (*models.Deal, error)
	List(ctx context.Context, p authz.Principal, f models.DealFilter, page models.PageRequest) (*models.List[models.Deal], error)
	ListByCompany(ctx context.Context, p authz.Principal, companyID uuid.UUID, page models.PageRequest) (*models.List[models.Deal], error)
	GetByID(ctx context.Context, p authz.Principal, id uuid.UUID) (*models.Deal, error)
	Update(ctx context.Context, p authz.Principal, id uuid.UUID, patch models.Patch) (*models.Deal, error)
	Delete(ctx context.Context, p authz.Principal, id uuid.UUID) (bool, error)
}

type dealService struct {
	repo   repositories.DealRepository
	logger *zap.Logger
}

func NewDealService(repo repositories.DealRepository, logger *zap.Logger) DealService {
	return &dealService{repo: repo, logger: logger}
}

func (s *dealService) Create(ctx context.Context, p authz.Principal, in models.DealInput) (*models.Deal, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	deal, err := s.repo.Create(ctx, p.TenantID, p.UserID, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("deal created",
		tenantField(p),
		zap.String("deal_id", deal.ID.String()),
		zap.String("company_id", deal.CompanyID.String()),
	)
	return deal, nil
}

func (s *dealService) List(ctx context.Context, p authz.Principal, f models.DealFilter, page models.PageRequest) (*models.List[models.Deal], error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := validateDealFilter(f); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, p.TenantID, f, page)
}

func validateDealFilter(f models.DealFilter) error {
	var bad []apperrors.FieldError
	if f.Status != "" && !f.Status.Valid() {
		bad = append(bad, apperrors.FieldError{Field: "status", Message: "must be one of open, won, lost, on-hold"})
	}
	if f.MinValue != nil && f.MaxValue != nil && f.MinValue.GreaterThan(*f.MaxValue) {
		bad = append(bad, apperrors.FieldError{Field: "maxValue", Message: "must be greater than or equal to minValue"})
	}
	if len(bad) > 0 {
		return apperrors.Validation(bad...)
	}
	return nil
}

func (s *dealService) ListByCompany(ctx context.Context, p authz.Principal, companyID uuid.UUID, page models.PageRequest) (*models.List[models.Deal], error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	return s.repo.ListByCompany(ctx, p.TenantID, companyID, page)
}

func (s *dealService) GetByID(ctx context.Context, p authz.Principal, id uuid.UUID) (*models.Deal, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, p.TenantID, id)
}

func (s *dealService) Update(ctx context.Context, p authz.Principal, id uuid.UUID, patch models.Patch) (*models.Deal, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	deal, err := s.repo.Update(ctx, p.TenantID, id, patch)
	if err != nil {
		return nil, err
	}
	if _, ok := patch["status"]; ok {
		s.logger.Info("deal status changed",
			tenantField(p),
			zap.String("deal_id", deal.ID.String()),
			zap.String("status", string(deal.Status)),
		)
	}
	return deal, nil
}

func (s *dealService) Delete(ctx context.Context, p authz.Principal, id uuid.UUID) (bool, error) {
	if err := requirePrincipal(p); err != nil {
		return false, err
	}
	ok, err := s.repo.Delete(ctx, p.TenantID, id)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info("deal deleted", tenantField(p), zap.String("deal_id", id.String()))
	}
	return ok, nil
}
