package memengine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AntonStoeckl/docquery-go/docquery"
)

const (
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
)

// Matches reports whether doc satisfies filter. An empty filter matches every document.
// Unknown operators fail with docquery.ErrUnsupportedOperator.
func Matches(doc docquery.Document, filter docquery.Document) (bool, error) {
	for _, condition := range filter {
		ok, err := matchCondition(doc, condition)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}

func matchCondition(doc docquery.Document, condition docquery.Field) (bool, error) {
	switch condition.Key {
	case opAnd, opOr, opNor:
		return matchLogical(doc, condition)
	}

	if strings.HasPrefix(condition.Key, "$") {
		return false, fmt.Errorf("%w: %s", docquery.ErrUnsupportedOperator, condition.Key)
	}

	candidates := resolve(doc, condition.Key)

	if operators, ok := condition.Value.OperatorDocument(); ok {
		for _, op := range operators {
			matched, err := matchOperator(candidates, op)
			if err != nil || !matched {
				return false, err
			}
		}

		return true, nil
	}

	return equalsAny(candidates, condition.Value), nil
}

func matchLogical(doc docquery.Document, condition docquery.Field) (bool, error) {
	clauses, ok := condition.Value.AsArray()
	if !ok || len(clauses) == 0 {
		return false, fmt.Errorf("%w: %s needs a non-empty array", docquery.ErrUnsupportedOperator, condition.Key)
	}

	for _, clause := range clauses {
		sub, isDoc := clause.AsDocument()
		if !isDoc {
			return false, fmt.Errorf("%w: %s entries must be documents", docquery.ErrUnsupportedOperator, condition.Key)
		}

		matched, err := Matches(doc, sub)
		if err != nil {
			return false, err
		}

		switch {
		case condition.Key == opAnd && !matched:
			return false, nil
		case condition.Key == opOr && matched:
			return true, nil
		case condition.Key == opNor && matched:
			return false, nil
		}
	}

	return condition.Key != opOr, nil
}

func matchOperator(candidates []docquery.Value, op docquery.Field) (bool, error) {
	switch op.Key {
	case opEq:
		return equalsAny(candidates, op.Value), nil

	case opNe:
		return !equalsAny(candidates, op.Value), nil

	case opGt, opGte, opLt, opLte:
		return compareAny(candidates, op.Key, op.Value), nil

	case opIn, opNin:
		options, ok := op.Value.AsArray()
		if !ok {
			return false, fmt.Errorf("%w: %s needs an array", docquery.ErrUnsupportedOperator, op.Key)
		}

		in := false
		for _, option := range options {
			if equalsAny(candidates, option) {
				in = true
				break
			}
		}

		return in == (op.Key == opIn), nil

	case opExists:
		return (len(candidates) > 0) == op.Value.Truthy(), nil

	default:
		return false, fmt.Errorf("%w: %s", docquery.ErrUnsupportedOperator, op.Key)
	}
}

// resolve returns all values reachable under a dotted path. Arrays on the way are traversed
// element-wise, numeric path segments additionally address array positions.
func resolve(doc docquery.Document, path string) []docquery.Value {
	return lookup(docquery.Doc(doc), strings.Split(path, "."))
}

func lookup(v docquery.Value, parts []string) []docquery.Value {
	if len(parts) == 0 {
		return []docquery.Value{v}
	}

	switch v.Kind() {
	case docquery.KindDocument:
		d, _ := v.AsDocument()

		child, found := d.Get(parts[0])
		if !found {
			return nil
		}

		return lookup(child, parts[1:])

	case docquery.KindArray:
		items, _ := v.AsArray()

		var out []docquery.Value
		if idx, err := strconv.Atoi(parts[0]); err == nil && idx >= 0 && idx < len(items) {
			out = append(out, lookup(items[idx], parts[1:])...)
		}

		for _, item := range items {
			if item.Kind() == docquery.KindDocument {
				out = append(out, lookup(item, parts)...)
			}
		}

		return out

	default:
		return nil
	}
}

// equalsAny implements MongoDB equality: a candidate equals want or is an array containing want.
// A missing field equals null.
func equalsAny(candidates []docquery.Value, want docquery.Value) bool {
	if len(candidates) == 0 {
		return want.IsNull()
	}

	for _, c := range candidates {
		if c.Equal(want) {
			return true
		}

		if items, ok := c.AsArray(); ok {
			for _, item := range items {
				if item.Equal(want) {
					return true
				}
			}
		}
	}

	return false
}

// compareAny applies a range operator; only values of the same type bracket are compared.
func compareAny(candidates []docquery.Value, op string, bound docquery.Value) bool {
	check := func(v docquery.Value) bool {
		if typeOrder(v) != typeOrder(bound) {
			return false
		}

		c := compareValues(v, bound)

		switch op {
		case opGt:
			return c > 0
		case opGte:
			return c >= 0
		case opLt:
			return c < 0
		default:
			return c <= 0
		}
	}

	for _, c := range candidates {
		if check(c) {
			return true
		}

		if items, ok := c.AsArray(); ok {
			for _, item := range items {
				if check(item) {
					return true
				}
			}
		}
	}

	return false
}
