package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tenantcrm/internal/apperrors"
	"tenantcrm/internal/models"
)

// table holds the tenant-scoped primitives shared by every entity store.
// Every statement it builds carries a tenant_id predicate or stamp.
type table[T any] struct {
	name    string
	entity  string
	columns []string
	fields  fieldSet
}

func (t table[T]) returning() string {
	return "RETURNING " + strings.Join(t.columns, ", ")
}

func (t table[T]) get(ctx context.Context, q sqlx.QueryerContext, tenantID, id uuid.UUID) (*T, error) {
	query, args, err := psql.Select(t.columns...).
		From(t.name).
		Where(sq.Expr("id = ?", id)).
		Where(sq.Expr("tenant_id = ?", tenantID)).
		ToSql()
	if err != nil {
		return nil, apperrors.Internal(err, "build get "+t.entity)
	}
	var out T
	if err := sqlx.GetContext(ctx, q, &out, query, args...); err != nil {
		return nil, translate(err, t.entity, "get "+t.entity)
	}
	return &out, nil
}

func (t table[T]) list(ctx context.Context, q sqlx.QueryerContext, tenantID uuid.UUID, f Filter, page models.PageRequest, orderBy ...string) (*models.List[T], error) {
	lq := listQuery{
		table:   t.name,
		columns: t.columns,
		where:   f.where(tenantID),
		orderBy: orderBy,
		page:    page,
	}

	selectSQL, args, err := lq.selectSQL()
	if err != nil {
		return nil, apperrors.Internal(err, "build list "+t.entity)
	}
	var rows []T
	if err := sqlx.SelectContext(ctx, q, &rows, selectSQL, args...); err != nil {
		return nil, translate(err, t.entity, "list "+t.entity)
	}

	countSQL, countArgs, err := lq.countSQL()
	if err != nil {
		return nil, apperrors.Internal(err, "build count "+t.entity)
	}
	var total int
	if err := sqlx.GetContext(ctx, q, &total, countSQL, countArgs...); err != nil {
		return nil, translate(err, t.entity, "count "+t.entity)
	}
	return models.NewList(rows, page, total), nil
}

func (t table[T]) insert(ctx context.Context, q sqlx.QueryerContext, values map[string]any) (*T, error) {
	query, args, err := psql.Insert(t.name).
		SetMap(values).
		Suffix(t.returning()).
		ToSql()
	if err != nil {
		return nil, apperrors.Internal(err, "build insert "+t.entity)
	}
	var out T
	if err := sqlx.GetContext(ctx, q, &out, query, args...); err != nil {
		return nil, translate(err, t.entity, "create "+t.entity)
	}
	return &out, nil
}

// update applies an allow-listed patch and refreshes updated_at. A row of
// another tenant is reported exactly like a missing row.
func (t table[T]) update(ctx context.Context, db *sqlx.DB, tenantID, id uuid.UUID, patch models.Patch) (*T, error) {
	set, refs, err := t.fields.compile(patch)
	if err != nil {
		return nil, err
	}

	var out T
	err = withTx(ctx, db, func(tx *sqlx.Tx) error {
		if err := checkRefs(ctx, tx, tenantID, refs); err != nil {
			return err
		}
		query, args, err := psql.Update(t.name).
			SetMap(set).
			Set("updated_at", sq.Expr("NOW()")).
			Where(sq.Expr("id = ?", id)).
			Where(sq.Expr("tenant_id = ?", tenantID)).
			Suffix(t.returning()).
			ToSql()
		if err != nil {
			return err
		}
		return sqlx.GetContext(ctx, tx, &out, query, args...)
	})
	if err != nil {
		return nil, translate(err, t.entity, "update "+t.entity)
	}
	return &out, nil
}

func (t table[T]) deleteRow(ctx context.Context, e sqlx.ExecerContext, tenantID, id uuid.UUID) (bool, error) {
	query, args, err := psql.Delete(t.name).
		Where(sq.Expr("id = ?", id)).
		Where(sq.Expr("tenant_id = ?", tenantID)).
		ToSql()
	if err != nil {
		return false, err
	}
	res, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// lockRow takes a row lock on (tenantID, id) for the rest of the transaction
// and reports whether the row exists.
func (t table[T]) lockRow(ctx context.Context, tx *sqlx.Tx, tenantID, id uuid.UUID) (bool, error) {
	query, args, err := psql.Select("1").
		From(t.name).
		Where(sq.Expr("id = ?", id)).
		Where(sq.Expr("tenant_id = ?", tenantID)).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return false, err
	}
	var one int
	err = sqlx.GetContext(ctx, tx, &one, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// checkRefs verifies every referenced row belongs to the tenant and holds a
// share lock on it until commit so it cannot vanish underneath the write.
func checkRefs(ctx context.Context, tx *sqlx.Tx, tenantID uuid.UUID, refs []refCheck) error {
	var bad []apperrors.FieldError
	for _, r := range refs {
		query, args, err := psql.Select("1").
			From(r.table).
			Where(sq.Expr("id = ?", r.id)).
			Where(sq.Expr("tenant_id = ?", tenantID)).
			Suffix("FOR SHARE").
			ToSql()
		if err != nil {
			return err
		}
		var one int
		err = sqlx.GetContext(ctx, tx, &one, query, args...)
		if errors.Is(err, sql.ErrNoRows) {
			bad = append(bad, apperrors.FieldError{Field: r.field, Message: "not found"})
			continue
		}
		if err != nil {
			return err
		}
	}
	if len(bad) > 0 {
		return apperrors.Validation(bad...)
	}
	return nil
}
