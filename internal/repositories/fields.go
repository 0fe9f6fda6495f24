package repositories

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tenantcrm/internal/apperrors"
	"tenantcrm/internal/models"
)

var validate = validator.New()

var errNullNotAllowed = errors.New("must not be null")

type decodeFunc func(raw json.RawMessage) (any, error)

// field maps one exposed, patchable name to its column. ref names the table
// a uuid value must belong to (within the caller's tenant).
type field struct {
	column string
	decode decodeFunc
	ref    string
}

// fieldSet is the allow-list of patchable fields of one entity.
type fieldSet map[string]field

// refCheck is a referenced row that must exist in the caller's tenant.
type refCheck struct {
	field string
	table string
	id    uuid.UUID
}

// compile validates patch against the allow-list and returns the column
// assignments. Unknown keys and invalid values are reported together.
func (fs fieldSet) compile(patch models.Patch) (map[string]any, []refCheck, error) {
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	set := make(map[string]any, len(patch))
	var refs []refCheck
	var bad []apperrors.FieldError
	for _, key := range keys {
		f, ok := fs[key]
		if !ok {
			bad = append(bad, apperrors.FieldError{Field: key, Message: "unknown field"})
			continue
		}
		v, err := f.decode(patch[key])
		if err != nil {
			bad = append(bad, apperrors.FieldError{Field: key, Message: err.Error()})
			continue
		}
		set[f.column] = v
		if f.ref != "" {
			if id, ok := v.(uuid.UUID); ok {
				refs = append(refs, refCheck{field: key, table: f.ref, id: id})
			}
		}
	}
	if len(bad) > 0 {
		return nil, nil, apperrors.Validation(bad...)
	}
	return set, refs, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// text decodes a string. Required text must be non-blank; optional text
// accepts null.
func text(required bool, maxLen int) decodeFunc {
	return func(raw json.RawMessage) (any, error) {
		if isNull(raw) {
			if required {
				return nil, errNullNotAllowed
			}
			return nil, nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.New("must be a string")
		}
		s = strings.TrimSpace(s)
		if required && s == "" {
			return nil, errors.New("must not be empty")
		}
		if maxLen > 0 && len([]rune(s)) > maxLen {
			return nil, fmt.Errorf("must be at most %d characters", maxLen)
		}
		return s, nil
	}
}

func email(required bool) decodeFunc {
	base := text(required, 255)
	return func(raw json.RawMessage) (any, error) {
		v, err := base(raw)
		if err != nil || v == nil {
			return v, err
		}
		s := strings.ToLower(v.(string))
		if err := validate.Var(s, "email"); err != nil {
			return nil, errors.New("must be a valid email")
		}
		return s, nil
	}
}

func integer(nullable bool, min, max int) decodeFunc {
	return func(raw json.RawMessage) (any, error) {
		if isNull(raw) {
			if nullable {
				return nil, nil
			}
			return nil, errNullNotAllowed
		}
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, errors.New("must be an integer")
		}
		if n < min || n > max {
			return nil, fmt.Errorf("must be between %d and %d", min, max)
		}
		return n, nil
	}
}

func nonNegativeDecimal(nullable bool) decodeFunc {
	return func(raw json.RawMessage) (any, error) {
		if isNull(raw) {
			if nullable {
				return nil, nil
			}
			return nil, errNullNotAllowed
		}
		var d decimal.Decimal
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, errors.New("must be a number")
		}
		if d.IsNegative() {
			return nil, errors.New("must be greater than or equal to 0")
		}
		return d, nil
	}
}

func boolean(raw json.RawMessage) (any, error) {
	var b bool
	if isNull(raw) {
		return nil, errNullNotAllowed
	}
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, errors.New("must be a boolean")
	}
	return b, nil
}

func reference(nullable bool) decodeFunc {
	return func(raw json.RawMessage) (any, error) {
		if isNull(raw) {
			if nullable {
				return nil, nil
			}
			return nil, errNullNotAllowed
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.New("must be a UUID string")
		}
		id, err := uuid.Parse(s)
		if err != nil || id == uuid.Nil {
			return nil, errors.New("must be a valid UUID")
		}
		return id, nil
	}
}

func dealStatus(raw json.RawMessage) (any, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.New("must be a string")
	}
	if !models.DealStatus(s).Valid() {
		return nil, errors.New("must be one of open, won, lost, on-hold")
	}
	return s, nil
}

func currency(raw json.RawMessage) (any, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.New("must be a string")
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	if err := validate.Var(s, "len=3,alpha"); err != nil {
		return nil, errors.New("must be a 3-letter currency code")
	}
	return s, nil
}

func date(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, nil
	}
	var d models.Date
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, errors.New("must be a date (YYYY-MM-DD)")
	}
	return d, nil
}

var companyFields = fieldSet{
	"name":          {column: "name", decode: text(true, 255)},
	"industry":      {column: "industry", decode: text(false, 100)},
	"website":       {column: "website", decode: text(false, 255)},
	"phone":         {column: "phone", decode: text(false, 20)},
	"email":         {column: "email", decode: email(false)},
	"address":       {column: "address", decode: text(false, 0)},
	"city":          {column: "city", decode: text(false, 100)},
	"state":         {column: "state", decode: text(false, 100)},
	"country":       {column: "country", decode: text(false, 100)},
	"postalCode":    {column: "postal_code", decode: text(false, 20)},
	"employeeCount": {column: "employee_count", decode: integer(true, 0, 1<<31-1)},
	"annualRevenue": {column: "annual_revenue", decode: nonNegativeDecimal(true)},
}

var contactFields = fieldSet{
	"firstName":        {column: "first_name", decode: text(true, 100)},
	"lastName":         {column: "last_name", decode: text(true, 100)},
	"email":            {column: "email", decode: email(true)},
	"phone":            {column: "phone", decode: text(false, 20)},
	"jobTitle":         {column: "job_title", decode: text(false, 100)},
	"department":       {column: "department", decode: text(false, 100)},
	"companyId":        {column: "company_id", decode: reference(true), ref: "companies"},
	"isPrimaryContact": {column: "is_primary_contact", decode: boolean},
	"notes":            {column: "notes", decode: text(false, 0)},
}

var dealFields = fieldSet{
	"title":             {column: "title", decode: text(true, 255)},
	"description":       {column: "description", decode: text(false, 0)},
	"value":             {column: "value", decode: nonNegativeDecimal(false)},
	"currency":          {column: "currency", decode: currency},
	"status":            {column: "status", decode: dealStatus},
	"probability":       {column: "probability", decode: integer(false, 0, 100)},
	"expectedCloseDate": {column: "expected_close_date", decode: date},
	"companyId":         {column: "company_id", decode: reference(false), ref: "companies"},
	"contactId":         {column: "contact_id", decode: reference(true), ref: "contacts"},
	"ownerId":           {column: "owner_id", decode: reference(true), ref: "users"},
}
