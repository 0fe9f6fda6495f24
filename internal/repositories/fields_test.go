package repositories

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenantcrm/internal/apperrors"
	"tenantcrm/internal/models"
)

func patchOf(t *testing.T, body string) models.Patch {
	t.Helper()
	var p models.Patch
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func TestCompileTranslatesExposedNames(t *testing.T) {
	set, refs, err := companyFields.compile(patchOf(t, `{"postalCode":"10115","employeeCount":12,"industry":null}`))
	require.NoError(t, err)
	assert.Empty(t, refs)
	assert.Equal(t, map[string]any{
		"postal_code":    "10115",
		"employee_count": 12,
		"industry":       nil,
	}, set)
}

func TestCompileRejectsUnknownAndTenantKeys(t *testing.T) {
	_, _, err := contactFields.compile(patchOf(t, `{"tenantId":"x","first_name = 'a'; --":"y","lastName":"Doe"}`))
	require.Error(t, err)

	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.ElementsMatch(t, []apperrors.FieldError{
		{Field: "tenantId", Message: "unknown field"},
		{Field: "first_name = 'a'; --", Message: "unknown field"},
	}, appErr.Fields)
}

func TestCompileDealValueRules(t *testing.T) {
	_, _, err := dealFields.compile(patchOf(t, `{"probability":101,"status":"pending","value":-1,"currency":"EURO","title":" "}`))
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	fields := map[string]bool{}
	for _, f := range appErr.Fields {
		fields[f.Field] = true
	}
	assert.Equal(t, map[string]bool{"probability": true, "status": true, "value": true, "currency": true, "title": true}, fields)

	set, _, err := dealFields.compile(patchOf(t, `{"value":"1500.50","currency":"eur","expectedCloseDate":"2025-06-30"}`))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1500.5").Equal(set["value"].(decimal.Decimal)))
	assert.Equal(t, "EUR", set["currency"])
	assert.Equal(t, "2025-06-30", set["expected_close_date"].(models.Date).String())
}

func TestCompileCollectsReferences(t *testing.T) {
	companyID, contactID := uuid.New(), uuid.New()
	set, refs, err := dealFields.compile(patchOf(t, `{"companyId":"`+companyID.String()+`","contactId":"`+contactID.String()+`","ownerId":null}`))
	require.NoError(t, err)
	assert.Nil(t, set["owner_id"])
	assert.ElementsMatch(t, []refCheck{
		{field: "companyId", table: "companies", id: companyID},
		{field: "contactId", table: "contacts", id: contactID},
	}, refs)
}

func TestCompileRequiredReferenceRejectsNull(t *testing.T) {
	_, _, err := dealFields.compile(patchOf(t, `{"companyId":null}`))
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestCompileContactEmail(t *testing.T) {
	set, _, err := contactFields.compile(patchOf(t, `{"email":"Jane.Doe@Example.COM","isPrimaryContact":true}`))
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", set["email"])
	assert.Equal(t, true, set["is_primary_contact"])

	_, _, err = contactFields.compile(patchOf(t, `{"email":"not-an-email"}`))
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}
