package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tenantcrm/internal/authz"
	"tenantcrm/internal/models"
	"tenantcrm/internal/repositories"
)

type ContactService interface {
	Create(ctx context.Context, p authz.Principal, in models.ContactInput) (*models.Contact, error)
	List(ctx context.Context, p authz.Principal, search string, page models.PageRequest) (*models.List[models.Contact], error)
	ListByCompany(ctx context.Context, p authz.Principal, companyID uuid.UUID, page models.PageRequest) (*models.List[models.Contact], error)
	GetByID(ctx context.Context, p authz.Principal, id uuid.UUID) (*models.Contact, error)
	Update(ctx context.Context, p authz.Principal, id uuid.UUID, patch models.Patch) (*models.Contact, error)
	Delete(ctx context.Context, p authz.Principal, id uuid.UUID) (bool, error)
}

type contactService struct {
	repo   repositories.ContactRepository
	logger *zap.Logger
}

func NewContactService(repo repositories.ContactRepository, logger *zap.Logger) ContactService {
	return &contactService{repo: repo, logger: logger}
}

func (s *contactService) Create(ctx context.Context, p authz.Principal, in models.ContactInput) (*models.Contact, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	contact, err := s.repo.Create(ctx, p.TenantID, p.UserID, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("contact created", tenantField(p), zap.String("contact_id", contact.ID.String()))
	return contact, nil
}

func (s *contactService) List(ctx context.Context, p authz.Principal, search string, page models.PageRequest) (*models.List[models.Contact], error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, p.TenantID, search, page)
}

func (s *contactService) ListByCompany(ctx context.Context, p authz.Principal, companyID uuid.UUID, page models.PageRequest) (*models.List[models.Contact], error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	return s.repo.ListByCompany(ctx, p.TenantID, companyID, page)
}

func (s *contactService) GetByID(ctx context.Context, p authz.Principal, id uuid.UUID) (*models.Contact, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, p.TenantID, id)
}

func (s *contactService) Update(ctx context.Context, p authz.Principal, id uuid.UUID, patch models.Patch) (*models.Contact, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, p.TenantID, id, patch)
}

func (s *contactService) Delete(ctx context.Context, p authz.Principal, id uuid.UUID) (bool, error) {
	if err := requirePrincipal(p); err != nil {
		return false, err
	}
	ok, err := s.repo.Delete(ctx, p.TenantID, id)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info("contact deleted", tenantField(p), zap.String("contact_id", id.String()))
	}
	return ok, nil
}
