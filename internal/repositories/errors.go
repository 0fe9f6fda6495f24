package repositories

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"tenantcrm/internal/apperrors"
)

// constraint name -> conflict message
var uniqueMessages = map[string]string{
	"tenants_domain_key":        "tenant already exists",
	"users_tenant_id_email_key": "email already exists",
	"contacts_email_key":        "contact email already exists",
}

// translate maps driver errors onto the typed taxonomy. Already typed
// errors pass through unchanged.
func translate(err error, entity, op string) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(entity)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			msg, ok := uniqueMessages[pqErr.Constraint]
			if !ok {
				msg = entity + " already exists"
			}
			return apperrors.Wrap(err, apperrors.CodeConflict, msg)
		case "23503": // foreign_key_violation
			return apperrors.Wrap(err, apperrors.CodeValidation, "referenced record does not exist")
		case "23514", "22P02", "22003": // check_violation, invalid_text_representation, numeric_value_out_of_range
			return apperrors.Wrap(err, apperrors.CodeValidation, "invalid "+entity)
		}
	}
	return apperrors.Internal(err, op)
}
