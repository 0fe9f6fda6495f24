package repositories

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"tenantcrm/internal/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Operator string

const (
	OpEq       Operator = "="
	OpGte      Operator = ">="
	OpLte      Operator = "<="
	OpContains Operator = "ILIKE"
)

// Predicate is a single (column, operator, value) condition. Columns always
// come from code, never from request input.
type Predicate struct {
	Column string
	Op     Operator
	Value  any
}

func (p Predicate) sqlizer() sq.Sqlizer {
	switch p.Op {
	case OpContains:
		s, _ := p.Value.(string)
		return sq.Expr(p.Column+" ILIKE ?", "%"+escapeLike(s)+"%")
	case OpEq:
		if p.Value == nil {
			return sq.Expr(p.Column + " IS NULL")
		}
	}
	return sq.Expr(fmt.Sprintf("%s %s ?", p.Column, p.Op), p.Value)
}

// Filter is a conjunction of predicates plus an optional group of which any
// one must hold (used for free-text search across several columns).
type Filter struct {
	All []Predicate
	Any []Predicate
}

// Search returns an Any-group matching term as a substring of any of the
// columns. An empty term yields no group, matching everything.
func Search(term string, columns ...string) []Predicate {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	preds := make([]Predicate, 0, len(columns))
	for _, col := range columns {
		preds = append(preds, Predicate{Column: col, Op: OpContains, Value: term})
	}
	return preds
}

// where compiles the filter behind the mandatory tenant predicate.
func (f Filter) where(tenantID uuid.UUID) sq.And {
	cond := sq.And{Predicate{Column: "tenant_id", Op: OpEq, Value: tenantID}.sqlizer()}
	for _, p := range f.All {
		cond = append(cond, p.sqlizer())
	}
	if len(f.Any) > 0 {
		or := make(sq.Or, 0, len(f.Any))
		for _, p := range f.Any {
			or = append(or, p.sqlizer())
		}
		cond = append(cond, or)
	}
	return cond
}

// listQuery compiles one filter into the page SELECT and the COUNT that
// share the same WHERE clause and arguments.
type listQuery struct {
	table   string
	columns []string
	where   sq.And
	orderBy []string
	page    models.PageRequest
}

func (q listQuery) selectSQL() (string, []any, error) {
	return psql.Select(q.columns...).
		From(q.table).
		Where(q.where).
		OrderBy(q.orderBy...).
		Limit(uint64(q.page.Limit)).
		Offset(uint64(q.page.Offset())).
		ToSql()
}

func (q listQuery) countSQL() (string, []any, error) {
	return psql.Select("COUNT(*)").
		From(q.table).
		Where(q.where).
		ToSql()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
