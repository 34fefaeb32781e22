package postgresengine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/docquery-go/docquery"
	"github.com/AntonStoeckl/docquery-go/docquery/literal"
)

var (
	ErrInvalidSortDirection = errors.New("sort direction must be 1 or -1")
	ErrNegativeLimit        = errors.New("negative limit is not supported by postgres")
	ErrEmptyDocumentColumn  = errors.New("document column name must not be empty")
)

const (
	dialectPostgres = "postgres"
	colID           = "id"
	castJsonb       = "?::jsonb"

	opEq     = "$eq"
	opNe     = "$ne"
	opGt     = "$gt"
	opGte    = "$gte"
	opLt     = "$lt"
	opLte    = "$lte"
	opIn     = "$in"
	opNin    = "$nin"
	opExists = "$exists"
	opAnd    = "$and"
	opOr     = "$or"
	opNor    = "$nor"

	keyDate = "$date"

	sqlContains       = "? @> ?::jsonb"
	sqlContainsEither = "(? @> ?::jsonb OR ? @> ?::jsonb)"
	sqlIsNull         = "((? #> ?) IS NULL OR jsonb_typeof(? #> ?) = 'null')"
	sqlExists         = "(? #> ?) IS NOT NULL"
	sqlMissing        = "(? #> ?) IS NULL"
	sqlNot            = "NOT (?)"
	sqlTrue           = "TRUE"
	sqlFalse          = "FALSE"
	sqlNumberAt       = "(CASE WHEN jsonb_typeof(? #> ?) = 'number' THEN (? #>> ?)::numeric END)"
	sqlStringAt       = "(CASE WHEN jsonb_typeof(? #> ?) = 'string' THEN ? #>> ? END)"
	sqlTimestampAt    = "(CASE WHEN jsonb_typeof(? #> ?) = 'string' THEN (? #>> ?)::timestamptz END)"
	sqlValueAt        = "? #> ?"
)

// queryBuilder translates plans into SQL over a table with one JSONB document column.
// Statements are rendered with interpolated values, the same way for every driver.
type queryBuilder struct {
	table  string
	column string
}

func (b queryBuilder) buildCountQuery() (sqlQueryString, error) {
	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		From(goqu.T(b.table)).
		Select(goqu.COUNT(goqu.Star())).
		ToSQL()

	return sqlQuery, err
}

// buildFindQuery selects the document column. Without a requested sort the rows come in
// insertion order (by "id"); with one, only the requested keys are ordered on and rows with
// equal keys come in whatever order Postgres returns them.
func (b queryBuilder) buildFindQuery(plan docquery.QueryPlan) (sqlQueryString, error) {
	conditions, err := b.conditions(plan.Filter())
	if err != nil {
		return "", err
	}

	orders := make([]exp.OrderedExpression, 0)
	if order, hasSort := plan.Sort(); hasSort {
		if orders, err = b.orderExpressions(order); err != nil {
			return "", err
		}
	}

	if len(orders) == 0 {
		orders = append(orders, goqu.C(colID).Asc())
	}

	selectStmt := goqu.Dialect(dialectPostgres).
		From(goqu.T(b.table)).
		Select(goqu.C(b.column)).
		Where(conditions...).
		Order(orders...)

	if limit, hasLimit := plan.Limit(); hasLimit {
		switch {
		case limit < 0:
			return "", fmt.Errorf("%w: %d", ErrNegativeLimit, limit)
		case limit > 0:
			selectStmt = selectStmt.Limit(uint(limit))
		}
	}

	sqlQuery, _, err := selectStmt.ToSQL()

	return sqlQuery, err
}

func (b queryBuilder) buildInsertQuery(documents docquery.Documents) (sqlQueryString, []any, error) {
	rows := make([][]any, 0, len(documents))

	for _, d := range documents {
		raw, err := literal.Encode(d)
		if err != nil {
			return "", nil, err
		}

		rows = append(rows, goqu.Vals{goqu.L(castJsonb, string(raw))})
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(goqu.T(b.table)).
		Cols(b.column).
		Vals(rows...).
		Prepared(true)

	return insertStmt.ToSQL()
}

// conditions returns one expression per top-level filter field; goqu ANDs them.
func (b queryBuilder) conditions(filter docquery.Document) ([]exp.Expression, error) {
	exprs := make([]exp.Expression, 0, filter.Len())

	for _, f := range filter {
		var expr exp.Expression
		var err error

		switch {
		case f.Key == opAnd || f.Key == opOr || f.Key == opNor:
			expr, err = b.logical(f.Key, f.Value)
		case strings.HasPrefix(f.Key, "$"):
			err = fmt.Errorf("%w: %s", docquery.ErrUnsupportedOperator, f.Key)
		default:
			expr, err = b.fieldCondition(strings.Split(f.Key, "."), f.Value)
		}

		if err != nil {
			return nil, err
		}

		exprs = append(exprs, expr)
	}

	return exprs, nil
}

func (b queryBuilder) logical(op string, operand docquery.Value) (exp.Expression, error) {
	items, ok := operand.AsArray()
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("%w: %s needs a non-empty array", docquery.ErrUnsupportedOperator, op)
	}

	parts := make([]exp.Expression, 0, len(items))
	for _, item := range items {
		sub, isDoc := item.AsDocument()
		if !isDoc {
			return nil, fmt.Errorf("%w: %s needs an array of documents", docquery.ErrUnsupportedOperator, op)
		}

		exprs, err := b.conditions(sub)
		if err != nil {
			return nil, err
		}

		if len(exprs) == 0 {
			parts = append(parts, goqu.L(sqlTrue))
			continue
		}

		parts = append(parts, goqu.And(exprs...))
	}

	switch op {
	case opAnd:
		return goqu.And(parts...), nil
	case opOr:
		return goqu.Or(parts...), nil
	default:
		return goqu.L(sqlNot, goqu.Or(parts...)), nil
	}
}

func (b queryBuilder) fieldCondition(path []string, v docquery.Value) (exp.Expression, error) {
	ops, isOperatorDoc := v.OperatorDocument()
	if !isOperatorDoc {
		return b.equals(path, v)
	}

	exprs := make([]exp.Expression, 0, ops.Len())
	for _, op := range ops {
		expr, err := b.operator(path, op)
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, expr)
	}

	return goqu.And(exprs...), nil
}

func (b queryBuilder) operator(path []string, op docquery.Field) (exp.Expression, error) {
	switch op.Key {
	case opEq:
		return b.equals(path, op.Value)

	case opNe:
		eq, err := b.equals(path, op.Value)
		if err != nil {
			return nil, err
		}

		return goqu.L(sqlNot, eq), nil

	case opGt, opGte, opLt, opLte:
		return b.compare(path, op.Key, op.Value)

	case opIn, opNin:
		return b.in(path, op.Key, op.Value)

	case opExists:
		if op.Value.Truthy() {
			return goqu.L(sqlExists, b.col(), jsonPath(path)), nil
		}

		return goqu.L(sqlMissing, b.col(), jsonPath(path)), nil

	default:
		return nil, fmt.Errorf("%w: %s", docquery.ErrUnsupportedOperator, op.Key)
	}
}

// equals matches like MongoDB equality: the value itself, an array holding it,
// or for null a missing field.
func (b queryBuilder) equals(path []string, v docquery.Value) (exp.Expression, error) {
	if v.IsNull() {
		p := jsonPath(path)
		return goqu.L(sqlIsNull, b.col(), p, b.col(), p), nil
	}

	direct, err := containment(path, v)
	if err != nil {
		return nil, err
	}

	if v.Kind() == docquery.KindDocument || v.Kind() == docquery.KindArray {
		return goqu.L(sqlContains, b.col(), direct), nil
	}

	inArray, err := containment(path, docquery.Array(v))
	if err != nil {
		return nil, err
	}

	return goqu.L(sqlContainsEither, b.col(), direct, b.col(), inArray), nil
}

func (b queryBuilder) in(path []string, op string, operand docquery.Value) (exp.Expression, error) {
	options, ok := operand.AsArray()
	if !ok {
		return nil, fmt.Errorf("%w: %s needs an array", docquery.ErrUnsupportedOperator, op)
	}

	if len(options) == 0 {
		if op == opIn {
			return goqu.L(sqlFalse), nil
		}

		return goqu.L(sqlTrue), nil
	}

	parts := make([]exp.Expression, 0, len(options))
	for _, option := range options {
		eq, err := b.equals(path, option)
		if err != nil {
			return nil, err
		}

		parts = append(parts, eq)
	}

	if op == opIn {
		return goqu.Or(parts...), nil
	}

	return goqu.L(sqlNot, goqu.Or(parts...)), nil
}

// compare only matches stored values of the operand's own type; numbers, strings and
// timestamps can be ordered.
func (b queryBuilder) compare(path []string, op string, operand docquery.Value) (exp.Expression, error) {
	var field exp.LiteralExpression
	var value any

	switch operand.Kind() {
	case docquery.KindNumber:
		p := jsonPath(path)
		field = goqu.L(sqlNumberAt, b.col(), p, b.col(), p)

		if i, isInt := operand.AsInt(); isInt && !operand.IsFloat() {
			value = i
		} else {
			value, _ = operand.AsFloat()
		}

	case docquery.KindString:
		p := jsonPath(path)
		field = goqu.L(sqlStringAt, b.col(), p, b.col(), p)
		value, _ = operand.AsString()

	case docquery.KindTimestamp:
		p := jsonPath(append(append([]string{}, path...), keyDate))
		field = goqu.L(sqlTimestampAt, b.col(), p, b.col(), p)
		t, _ := operand.AsTimestamp()
		value = t.UTC()

	default:
		return nil, fmt.Errorf("%w: %s on a %s operand", docquery.ErrUnsupportedOperator, op, operand.Kind())
	}

	switch op {
	case opGt:
		return field.Gt(value), nil
	case opGte:
		return field.Gte(value), nil
	case opLt:
		return field.Lt(value), nil
	default:
		return field.Lte(value), nil
	}
}

func (b queryBuilder) orderExpressions(order docquery.Document) ([]exp.OrderedExpression, error) {
	orders := make([]exp.OrderedExpression, 0, order.Len())

	for _, f := range order {
		direction, ok := f.Value.AsInt()
		if !ok || (direction != 1 && direction != -1) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSortDirection, f.Key)
		}

		field := goqu.L(sqlValueAt, b.col(), jsonPath(strings.Split(f.Key, ".")))
		if direction == 1 {
			orders = append(orders, field.Asc())
		} else {
			orders = append(orders, field.Desc())
		}
	}

	return orders, nil
}

func (b queryBuilder) col() exp.IdentifierExpression {
	return goqu.I(b.column)
}

// jsonPath renders a field path as a Postgres text array literal for #> and #>>.
func jsonPath(path []string) string {
	quoted := make([]string, 0, len(path))
	for _, p := range path {
		p = strings.ReplaceAll(p, `\`, `\\`)
		p = strings.ReplaceAll(p, `"`, `\"`)
		quoted = append(quoted, `"`+p+`"`)
	}

	return "{" + strings.Join(quoted, ",") + "}"
}

// containment renders {"a":{"b":v}} for the path a.b as the JSON operand of @>.
func containment(path []string, v docquery.Value) (string, error) {
	nested := v
	for i := len(path) - 1; i >= 0; i-- {
		nested = docquery.Doc(docquery.D(docquery.Field{Key: path[i], Value: nested}))
	}

	d, _ := nested.AsDocument()

	raw, err := literal.Encode(d)
	if err != nil {
		return "", err
	}

	return string(raw), nil
}
