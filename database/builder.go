package database

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// ParseDirection maps user input to a direction, defaulting to DESC
func ParseDirection(s string) OrderDirection {
	if strings.EqualFold(s, "asc") {
		return ASC
	}
	return DESC
}

type whereClause struct {
	query string
	args  []any
	or    bool
}

type orderClause struct {
	column    string
	direction OrderDirection
}

type relation struct {
	name  string
	apply []func(*bun.SelectQuery) *bun.SelectQuery
}

// QueryBuilder provides a fluent, type-safe API over bun for a single model type
type QueryBuilder[T any] struct {
	db        bun.IDB
	columns   []string
	wheres    []whereClause
	orders    []orderClause
	relations []relation
	limitVal  int
	offsetVal int
	forUpdate bool
	timeout   time.Duration
}

// Query starts a query for T. db may be the *DB, a bun.Tx or any bun.IDB.
func Query[T any](db bun.IDB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db}
}

// Columns limits the selected columns
func (q *QueryBuilder[T]) Columns(cols ...string) *QueryBuilder[T] {
	q.columns = append(q.columns, cols...)
	return q
}

// Where adds an equality condition
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a condition with an explicit comparison operator (=, <>, <, <=, >, >=, ILIKE)
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, whereClause{
		query: "? " + operator + " ?",
		args:  []any{bun.Ident(column), value},
	})
	return q
}

// WhereIn adds a column IN (...) condition; values must be a slice
func (q *QueryBuilder[T]) WhereIn(column string, values any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, whereClause{
		query: "? IN (?)",
		args:  []any{bun.Ident(column), bun.In(values)},
	})
	return q
}

// WhereNull adds a column IS NULL condition
func (q *QueryBuilder[T]) WhereNull(column string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, whereClause{query: "? IS NULL", args: []any{bun.Ident(column)}})
	return q
}

// WhereRaw adds a raw condition using bun placeholders
func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, whereClause{query: sql, args: args})
	return q
}

// OrWhereRaw adds a raw condition joined with OR to the previous one
func (q *QueryBuilder[T]) OrWhereRaw(sql string, args ...any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, whereClause{query: sql, args: args, or: true})
	return q
}

// OrderBy adds an ORDER BY clause
func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, orderClause{column: column, direction: direction})
	return q
}

func (q *QueryBuilder[T]) Limit(n int) *QueryBuilder[T] {
	q.limitVal = n
	return q
}

func (q *QueryBuilder[T]) Offset(n int) *QueryBuilder[T] {
	q.offsetVal = n
	return q
}

// Relation preloads a bun relation, optionally customizing its query
func (q *QueryBuilder[T]) Relation(name string, apply ...func(*bun.SelectQuery) *bun.SelectQuery) *QueryBuilder[T] {
	q.relations = append(q.relations, relation{name: name, apply: apply})
	return q
}

// ForUpdate locks selected rows; only meaningful inside a transaction
func (q *QueryBuilder[T]) ForUpdate() *QueryBuilder[T] {
	q.forUpdate = true
	return q
}

// Timeout sets a per-query timeout
func (q *QueryBuilder[T]) Timeout(d time.Duration) *QueryBuilder[T] {
	q.timeout = d
	return q
}

// HasConditions reports whether any WHERE condition was added
func (q *QueryBuilder[T]) HasConditions() bool {
	return len(q.wheres) > 0
}

// conditioned is implemented by bun's select, update and delete queries
type conditioned[Q any] interface {
	Where(query string, args ...any) Q
	WhereOr(query string, args ...any) Q
}

func applyWheres[Q conditioned[Q]](query Q, wheres []whereClause) Q {
	for _, w := range wheres {
		if w.or {
			query = query.WhereOr(w.query, w.args...)
		} else {
			query = query.Where(w.query, w.args...)
		}
	}
	return query
}

// buildSelect builds the select query scanning into model
func (q *QueryBuilder[T]) buildSelect(model any) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model)

	if len(q.columns) > 0 {
		query = query.Column(q.columns...)
	}
	query = applyWheres(query, q.wheres)

	for _, rel := range q.relations {
		query = query.Relation(rel.name, rel.apply...)
	}
	for _, o := range q.orders {
		query = query.OrderExpr("? "+string(o.direction), bun.Ident(o.column))
	}
	if q.limitVal > 0 {
		query = query.Limit(q.limitVal)
	}
	if q.offsetVal > 0 {
		query = query.Offset(q.offsetVal)
	}
	if q.forUpdate {
		query = query.For("UPDATE")
	}
	return query
}
