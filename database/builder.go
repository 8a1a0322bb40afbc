package database

import (
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

// JoinType represents the type of SQL JOIN operation
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
)

// String returns the SQL representation of the join type
func (jt JoinType) String() string {
	switch jt {
	case LeftJoin:
		return "LEFT JOIN"
	default:
		return "INNER JOIN"
	}
}

// QueryBuilder provides a fluent, type-safe API for building queries over one
// bun model. Queries run on the transaction carried by the context when there
// is one.
type QueryBuilder[T any] struct {
	db *DB

	// Query clauses
	joins       []*JoinClause
	wheres      []*WhereClause
	whereGroups []*WhereGroup
	orders      []*OrderClause
	limitVal    *int
	offsetVal   *int

	// Options
	distinct bool
}

// JoinClause represents a SQL JOIN operation
type JoinClause struct {
	Type       JoinType
	Table      string
	Alias      string
	Conditions []*JoinCondition
}

// JoinCondition represents a condition in a JOIN clause
type JoinCondition struct {
	Left     string
	Operator string
	Right    string
}

// WhereClause represents a WHERE condition
type WhereClause struct {
	Column   string
	Operator string
	Value    any
	IsRaw    bool
	RawSQL   string
	RawArgs  []any
}

// WhereGroup represents a grouped WHERE condition (for OR/AND grouping)
type WhereGroup struct {
	Conditions []*WhereClause
	Connector  string // "AND" or "OR"
}

// OrderClause represents an ORDER BY clause
type OrderClause struct {
	Column    string
	Direction string // "ASC" or "DESC"
}

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// ParseOrderDirection maps user input to a direction, defaulting to def
func ParseOrderDirection(s string, def OrderDirection) OrderDirection {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASC":
		return ASC
	case "DESC":
		return DESC
	}
	return def
}

// JoinBuilder provides a fluent API for building JOIN clauses
type JoinBuilder[T any] struct {
	parent *QueryBuilder[T]
	clause *JoinClause
}

// WhereGroupBuilder provides a fluent API for building grouped WHERE clauses
type WhereGroupBuilder[T any] struct {
	parent *QueryBuilder[T]
	group  *WhereGroup
}

// Query creates a new QueryBuilder instance
func Query[T any](db *DB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db}
}

// Clone returns a copy that can be narrowed without touching q
func (q *QueryBuilder[T]) Clone() *QueryBuilder[T] {
	c := *q
	c.joins = append([]*JoinClause(nil), q.joins...)
	c.wheres = append([]*WhereClause(nil), q.wheres...)
	c.whereGroups = append([]*WhereGroup(nil), q.whereGroups...)
	c.orders = append([]*OrderClause(nil), q.orders...)
	return &c
}

// Distinct adds DISTINCT to the query
func (q *QueryBuilder[T]) Distinct() *QueryBuilder[T] {
	q.distinct = true
	return q
}

// Join starts building an INNER JOIN clause
func (q *QueryBuilder[T]) Join(table, alias string) *JoinBuilder[T] {
	return &JoinBuilder[T]{parent: q, clause: &JoinClause{Type: InnerJoin, Table: table, Alias: alias}}
}

// Where adds a simple WHERE condition (column = value)
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a WHERE condition with a custom operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{Column: column, Operator: operator, Value: value})
	return q
}

// WhereIn adds a WHERE IN condition; values must be a slice
func (q *QueryBuilder[T]) WhereIn(column string, values any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{Column: column, Operator: "IN", Value: bun.In(values)})
	return q
}

// WhereNull adds a WHERE IS NULL condition
func (q *QueryBuilder[T]) WhereNull(column string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{Column: column, Operator: "IS NULL"})
	return q
}

// WhereRaw adds a raw WHERE condition
func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{IsRaw: true, RawSQL: sql, RawArgs: args})
	return q
}

// WhereGroup starts building a grouped WHERE clause
func (q *QueryBuilder[T]) WhereGroup(connector string) *WhereGroupBuilder[T] {
	return &WhereGroupBuilder[T]{parent: q, group: &WhereGroup{Connector: connector}}
}

// Or starts an OR group
func (q *QueryBuilder[T]) Or() *WhereGroupBuilder[T] {
	return q.WhereGroup("OR")
}

// OrderBy adds an ORDER BY clause
func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, &OrderClause{Column: column, Direction: string(direction)})
	return q
}

// Limit sets the LIMIT clause
func (q *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	q.limitVal = &limit
	return q
}

// Offset sets the OFFSET clause
func (q *QueryBuilder[T]) Offset(offset int) *QueryBuilder[T] {
	q.offsetVal = &offset
	return q
}

// On adds a JOIN condition between two columns
func (j *JoinBuilder[T]) On(left, operator, right string) *JoinBuilder[T] {
	j.clause.Conditions = append(j.clause.Conditions, &JoinCondition{Left: left, Operator: operator, Right: right})
	return j
}

// End completes the join builder and returns to the query builder
func (j *JoinBuilder[T]) End() *QueryBuilder[T] {
	j.parent.joins = append(j.parent.joins, j.clause)
	return j.parent
}

// Where adds a condition to the group
func (w *WhereGroupBuilder[T]) Where(column string, value any) *WhereGroupBuilder[T] {
	return w.WhereOp(column, "=", value)
}

// WhereOp adds a condition with an operator to the group
func (w *WhereGroupBuilder[T]) WhereOp(column, operator string, value any) *WhereGroupBuilder[T] {
	w.group.Conditions = append(w.group.Conditions, &WhereClause{Column: column, Operator: operator, Value: value})
	return w
}

// WhereRaw adds a raw condition to the group
func (w *WhereGroupBuilder[T]) WhereRaw(sql string, args ...any) *WhereGroupBuilder[T] {
	w.group.Conditions = append(w.group.Conditions, &WhereClause{IsRaw: true, RawSQL: sql, RawArgs: args})
	return w
}

// End completes the group builder and returns to the query builder
func (w *WhereGroupBuilder[T]) End() *QueryBuilder[T] {
	w.parent.whereGroups = append(w.parent.whereGroups, w.group)
	return w.parent
}

// toSQL renders the JOIN clause
func (j *JoinClause) toSQL() string {
	var sb strings.Builder

	sb.WriteString(j.Type.String())
	sb.WriteString(" ")
	sb.WriteString(j.Table)

	if j.Alias != "" {
		sb.WriteString(" AS ")
		sb.WriteString(j.Alias)
	}

	for i, cond := range j.Conditions {
		if i == 0 {
			sb.WriteString(" ON ")
		} else {
			sb.WriteString(" AND ")
		}
		fmt.Fprintf(&sb, "%s %s %s", cond.Left, cond.Operator, cond.Right)
	}

	return sb.String()
}

// whereClauseSQL renders a single condition and its arguments
func whereClauseSQL(where *WhereClause) (string, []any) {
	if where.IsRaw {
		return where.RawSQL, where.RawArgs
	}
	if where.Operator == "IS NULL" || where.Operator == "IS NOT NULL" {
		return fmt.Sprintf("%s %s", where.Column, where.Operator), nil
	}

	condition := fmt.Sprintf("%s %s ?", where.Column, where.Operator)
	if where.Operator == "IN" {
		condition = fmt.Sprintf("%s IN (?)", where.Column)
	}
	return condition, []any{where.Value}
}

// conditional is implemented by bun's select, update and delete queries
type conditional[Q any] interface {
	Where(query string, args ...any) Q
}

// applyWheres applies the builder's WHERE conditions and groups to any bun query
func applyWheres[Q conditional[Q]](query Q, wheres []*WhereClause, groups []*WhereGroup) Q {
	for _, where := range wheres {
		condition, args := whereClauseSQL(where)
		query = query.Where(condition, args...)
	}

	for _, group := range groups {
		if len(group.Conditions) == 0 {
			continue
		}

		conditions := make([]string, 0, len(group.Conditions))
		var args []any
		for _, cond := range group.Conditions {
			condition, condArgs := whereClauseSQL(cond)
			conditions = append(conditions, condition)
			args = append(args, condArgs...)
		}

		groupSQL := "(" + strings.Join(conditions, " "+group.Connector+" ") + ")"
		query = query.Where(groupSQL, args...)
	}

	return query
}

