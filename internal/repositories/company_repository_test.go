package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenantcrm/internal/apperrors"
	"tenantcrm/internal/models"
)

func TestCompanyRepository_GetByID_OtherTenantIsNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCompanyRepository(db)
	id, otherTenant := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM companies WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs(id, otherTenant).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

	company, err := repo.GetByID(context.Background(), otherTenant, id)
	assert.Nil(t, company)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Equal(t, "company not found", err.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_List_Pagination(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCompanyRepository(db)
	tenantID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "tenant_id", "name", "created_at", "updated_at"})
	now := time.Now()
	for i := 0; i < 10; i++ {
		rows.AddRow(uuid.NewString(), tenantID.String(), "Acme", now, now)
	}
	mock.ExpectQuery(`SELECT .+ FROM companies WHERE \(tenant_id = \$1\) ORDER BY created_at DESC LIMIT 10 OFFSET 10`).
		WithArgs(tenantID).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM companies WHERE \(tenant_id = \$1\)`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	list, err := repo.List(context.Background(), tenantID, "", models.NewPageRequest(2, 10))
	require.NoError(t, err)
	assert.Len(t, list.Data, 10)
	assert.Equal(t, models.Pagination{Page: 2, Limit: 10, Total: 25, Pages: 3}, list.Pagination)
	for _, c := range list.Data {
		assert.Equal(t, tenantID, c.TenantID)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_List_Search(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCompanyRepository(db)
	tenantID := uuid.New()

	where := `WHERE \(tenant_id = \$1 AND \(name ILIKE \$2 OR industry ILIKE \$3\)\)`
	mock.ExpectQuery(`SELECT .+ FROM companies ` + where + ` ORDER BY created_at DESC LIMIT 20 OFFSET 0`).
		WithArgs(tenantID, "%soft%", "%soft%").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM companies ` + where).
		WithArgs(tenantID, "%soft%", "%soft%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	list, err := repo.List(context.Background(), tenantID, "soft", models.NewPageRequest(0, 0))
	require.NoError(t, err)
	assert.NotNil(t, list.Data)
	assert.Empty(t, list.Data)
	assert.Equal(t, 0, list.Pagination.Pages)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_Create_StampsTenantAndCreator(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCompanyRepository(db)
	tenantID, userID := uuid.New(), uuid.New()
	email := " Sales@Acme.IO "

	// columns are bound in sorted order
	mock.ExpectQuery(`INSERT INTO companies \(address,annual_revenue,city,country,created_by,email,employee_count,id,industry,name,phone,postal_code,state,tenant_id,website\) VALUES .+ RETURNING id, tenant_id`).
		WithArgs(nil, nil, nil, nil, userID, "sales@acme.io", nil, sqlmock.AnyArg(), nil, "Acme", nil, nil, nil, tenantID, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name", "email", "created_by"}).
			AddRow(uuid.NewString(), tenantID.String(), "Acme", "sales@acme.io", userID.String()))

	company, err := repo.Create(context.Background(), tenantID, userID, models.CompanyInput{Name: "  Acme ", Email: &email})
	require.NoError(t, err)
	assert.Equal(t, tenantID, company.TenantID)
	assert.Equal(t, uuid.NullUUID{UUID: userID, Valid: true}, company.CreatedBy)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_Create_RequiresTenant(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCompanyRepository(db)

	_, err := repo.Create(context.Background(), uuid.Nil, uuid.New(), models.CompanyInput{Name: "Acme"})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_Update_OnlyTouchesPatchedColumns(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCompanyRepository(db)
	tenantID, id := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE companies SET industry = \$1, updated_at = NOW\(\) WHERE id = \$2 AND tenant_id = \$3 RETURNING`).
		WithArgs("Software", id, tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name", "industry"}).
			AddRow(id.String(), tenantID.String(), "Acme", "Software"))
	mock.ExpectCommit()

	company, err := repo.Update(context.Background(), tenantID, id, patchOf(t, `{"industry":"Software"}`))
	require.NoError(t, err)
	assert.Equal(t, "Acme", company.Name)
	require.NotNil(t, company.Industry)
	assert.Equal(t, "Software", *company.Industry)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_Update_MissingRowRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCompanyRepository(db)
	tenantID, id := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE companies SET name = \$1`).
		WithArgs("Renamed", id, tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), tenantID, id, patchOf(t, `{"name":"Renamed"}`))
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_Update_RejectsUnknownField(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCompanyRepository(db)

	_, err := repo.Update(context.Background(), uuid.New(), uuid.New(), patchOf(t, `{"tenantId":"`+uuid.NewString()+`"}`))
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_Delete_Cascades(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCompanyRepository(db)
	tenantID, id := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM companies WHERE id = \$1 AND tenant_id = \$2 FOR UPDATE`).
		WithArgs(id, tenantID).
		WillReturnRows(lockedRow())
	mock.ExpectExec(`DELETE FROM deals WHERE company_id = \$1 AND tenant_id = \$2`).
		WithArgs(id, tenantID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`UPDATE contacts SET company_id = NULL, updated_at = NOW\(\) WHERE company_id = \$1 AND tenant_id = \$2`).
		WithArgs(id, tenantID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM companies WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs(id, tenantID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := repo.Delete(context.Background(), tenantID, id)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_Delete_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCompanyRepository(db)
	tenantID, id := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM companies WHERE id = \$1 AND tenant_id = \$2 FOR UPDATE`).
		WithArgs(id, tenantID).
		WillReturnRows(noRows())
	mock.ExpectRollback()

	ok, err := repo.Delete(context.Background(), tenantID, id)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_Delete_FailureRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCompanyRepository(db)
	tenantID, id := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(id, tenantID).WillReturnRows(lockedRow())
	mock.ExpectExec(`DELETE FROM deals`).WithArgs(id, tenantID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE contacts`).WithArgs(id, tenantID).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	ok, err := repo.Delete(context.Background(), tenantID, id)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, apperrors.ErrInternal))
	require.NoError(t, mock.ExpectationsWereMet())
}
