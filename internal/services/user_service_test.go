package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"tenantcrm/internal/apperrors"
	"tenantcrm/internal/authz"
	"tenantcrm/internal/models"
)

func newTestUserService(repo *fakeUserRepo, email EmailService) (UserService, AuthService) {
	auth := newTestAuth()
	return NewUserService(repo, auth, email, zap.NewNop()), auth
}

func registerReq(tenant, email string) models.RegisterRequest {
	return models.RegisterRequest{
		TenantName: tenant,
		Email:      email,
		Password:   "s3cret-pass",
		FirstName:  "Ada",
		LastName:   "Lovelace",
	}
}

func TestUserService_Register(t *testing.T) {
	repo := &fakeUserRepo{}
	mail := &fakeEmail{}
	svc, auth := newTestUserService(repo, mail)

	resp, err := svc.Register(context.Background(), registerReq("Acme  Corp", " Ada@Acme.IO "))
	require.NoError(t, err)

	assert.Equal(t, authz.RoleAdmin, resp.User.Role)
	assert.Equal(t, "ada@acme.io", resp.User.Email)
	assert.Equal(t, "acme-corp", repo.tenants[0].Domain)
	assert.NotEqual(t, "s3cret-pass", repo.users[0].PasswordHash)
	assert.Equal(t, []string{"ada@acme.io"}, mail.sent)

	claims, err := auth.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.TenantID, claims.TenantID)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestUserService_Register_DuplicateTenant(t *testing.T) {
	repo := &fakeUserRepo{}
	svc, _ := newTestUserService(repo, nil)

	_, err := svc.Register(context.Background(), registerReq("Acme", "a@acme.io"))
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), registerReq("ACME", "b@acme.io"))
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	assert.Len(t, repo.users, 1)
}

func TestUserService_Register_Invalid(t *testing.T) {
	repo := &fakeUserRepo{}
	svc, _ := newTestUserService(repo, nil)

	req := registerReq("  ", "a@acme.io")
	req.Password = "short"
	_, err := svc.Register(context.Background(), req)

	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.Len(t, appErr.Fields, 2)
	assert.Empty(t, repo.users)
}

func TestUserService_Register_EmailFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := &fakeUserRepo{}
	svc := NewUserService(repo, newTestAuth(), &fakeEmail{err: errors.New("smtp down")}, zap.New(core))

	resp, err := svc.Register(context.Background(), registerReq("Acme", "a@acme.io"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, 1, logs.FilterMessage("welcome email failed").Len())
}

func TestUserService_Login_FailuresAreIndistinguishable(t *testing.T) {
	repo := &fakeUserRepo{}
	svc, _ := newTestUserService(repo, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("Acme", "active@acme.io"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, registerReq("Globex", "inactive@globex.io"))
	require.NoError(t, err)
	repo.users[1].IsActive = false

	cases := map[string]models.LoginRequest{
		"unknown email":  {Email: "nobody@acme.io", Password: "s3cret-pass"},
		"wrong password": {Email: "active@acme.io", Password: "wrong-pass"},
		"inactive user":  {Email: "inactive@globex.io", Password: "s3cret-pass"},
	}
	var messages []string
	for name, req := range cases {
		_, err := svc.Login(ctx, req)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidCredentials), name)
		messages = append(messages, err.Error())
	}
	assert.Equal(t, messages[0], messages[1])
	assert.Equal(t, messages[1], messages[2])
}

func TestUserService_Login_PicksTenantByDomain(t *testing.T) {
	repo := &fakeUserRepo{}
	svc, _ := newTestUserService(repo, nil)
	ctx := context.Background()

	first, err := svc.Register(ctx, registerReq("Acme", "ada@example.com"))
	require.NoError(t, err)
	second, err := svc.Register(ctx, registerReq("Globex", "ada@example.com"))
	require.NoError(t, err)

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "ada@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, first.User.TenantID, resp.User.TenantID)

	resp, err = svc.Login(ctx, models.LoginRequest{Email: "ada@example.com", Password: "s3cret-pass", TenantDomain: "globex"})
	require.NoError(t, err)
	assert.Equal(t, second.User.TenantID, resp.User.TenantID)
}

func TestUserService_Me(t *testing.T) {
	repo := &fakeUserRepo{}
	svc, _ := newTestUserService(repo, nil)
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerReq("Acme", "ada@acme.io"))
	require.NoError(t, err)

	me, err := svc.Me(ctx, authz.Principal{TenantID: reg.User.TenantID, UserID: reg.User.ID})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, me.ID)

	_, err = svc.Me(ctx, authz.Principal{TenantID: uuid.New(), UserID: reg.User.ID})
	assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))

	_, err = svc.Me(ctx, authz.Principal{})
	assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))
}
