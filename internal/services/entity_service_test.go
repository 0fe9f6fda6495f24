package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tenantcrm/internal/apperrors"
	"tenantcrm/internal/authz"
	"tenantcrm/internal/models"
)

func testPrincipal() authz.Principal {
	return authz.Principal{TenantID: uuid.New(), UserID: uuid.New(), Email: "ada@acme.io"}
}

func TestCompanyService_ScopesEveryCallToPrincipal(t *testing.T) {
	repo := &fakeCompanyRepo{deleted: true}
	svc := NewCompanyService(repo, zap.NewNop())
	p := testPrincipal()
	ctx := context.Background()

	company, err := svc.Create(ctx, p, models.CompanyInput{Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, p.UserID, company.CreatedBy.UUID)

	_, err = svc.List(ctx, p, "", models.NewPageRequest(1, 20))
	require.NoError(t, err)
	_, err = svc.GetByID(ctx, p, uuid.New())
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	_, err = svc.Update(ctx, p, uuid.New(), models.Patch{})
	require.NoError(t, err)
	ok, err := svc.Delete(ctx, p, uuid.New())
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, repo.tenants, 5)
	for _, tenantID := range repo.tenants {
		assert.Equal(t, p.TenantID, tenantID)
	}
}

func TestCompanyService_RequiresPrincipal(t *testing.T) {
	repo := &fakeCompanyRepo{}
	svc := NewCompanyService(repo, zap.NewNop())

	_, err := svc.Create(context.Background(), authz.Principal{UserID: uuid.New()}, models.CompanyInput{Name: "Acme"})
	assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))
	assert.Empty(t, repo.tenants)
}

func TestDealService_ListValidatesFilter(t *testing.T) {
	repo := &fakeDealRepo{}
	svc := NewDealService(repo, zap.NewNop())
	minV, maxV := decimal.NewFromInt(500), decimal.NewFromInt(100)

	_, err := svc.List(context.Background(), testPrincipal(), models.DealFilter{Status: "pending", MinValue: &minV, MaxValue: &maxV}, models.NewPageRequest(1, 20))
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Len(t, appErr.Fields, 2)
	assert.Nil(t, repo.listed)

	_, err = svc.List(context.Background(), testPrincipal(), models.DealFilter{Status: models.DealWon, MinValue: &maxV, MaxValue: &minV}, models.NewPageRequest(1, 20))
	require.NoError(t, err)
	require.NotNil(t, repo.listed)
	assert.Equal(t, models.DealWon, repo.listed.Status)
}

func TestDealService_CreatePassesErrorsThrough(t *testing.T) {
	repo := &fakeDealRepo{err: apperrors.Validation(apperrors.FieldError{Field: "companyId", Message: "not found"})}
	svc := NewDealService(repo, zap.NewNop())

	_, err := svc.Create(context.Background(), testPrincipal(), models.DealInput{Title: "Renewal", CompanyID: uuid.New()})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}
