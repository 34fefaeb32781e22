package docquery

import (
	"strconv"
	"strings"
)

// PlanKind distinguishes the two statement forms.
type PlanKind uint8

const (
	PlanCount PlanKind = iota + 1
	PlanFind
)

// String returns "count" or "find".
func (k PlanKind) String() string {
	switch k {
	case PlanCount:
		return "count"
	case PlanFind:
		return "find"
	default:
		return "unknown"
	}
}

// QueryPlan is the structured, validated representation of a parsed statement.
//
// It is immutable: the modifier methods return copies. A Count plan never carries a sort or limit,
// a Find plan always carries a (possibly empty) filter.
//
// It should only be constructed with the supplied factory methods:
//   - CountPlan
//   - FindPlan
type QueryPlan struct {
	kind     PlanKind
	filter   Document
	sort     Document
	hasSort  bool
	limit    int64
	hasLimit bool
}

// CountPlan returns a plan counting all documents of a collection.
func CountPlan() QueryPlan {
	return QueryPlan{kind: PlanCount}
}

// FindPlan returns a plan selecting all documents that match filter. A nil filter matches everything.
func FindPlan(filter Document) QueryPlan {
	if filter == nil {
		filter = Document{}
	}

	return QueryPlan{kind: PlanFind, filter: filter.Clone()}
}

// SortedBy returns a copy of the plan ordered by the field→direction mapping of order.
// It has no effect on Count plans.
func (p QueryPlan) SortedBy(order Document) QueryPlan {
	if p.kind != PlanFind {
		return p
	}

	if order == nil {
		order = Document{}
	}

	p.sort = order.Clone()
	p.hasSort = true

	return p
}

// LimitedTo returns a copy of the plan capped to n documents. It has no effect on Count plans.
// Negative values are kept as given, their meaning is up to the Collection.
func (p QueryPlan) LimitedTo(n int64) QueryPlan {
	if p.kind != PlanFind {
		return p
	}

	p.limit = n
	p.hasLimit = true

	return p
}

// Kind returns PlanCount or PlanFind.
func (p QueryPlan) Kind() PlanKind {
	return p.kind
}

// Filter returns the filter of a Find plan, and nil for Count plans.
func (p QueryPlan) Filter() Document {
	return p.filter
}

// Sort returns the sort spec and whether one is present.
func (p QueryPlan) Sort() (Document, bool) {
	return p.sort, p.hasSort
}

// Limit returns the limit and whether one is present.
func (p QueryPlan) Limit() (int64, bool) {
	return p.limit, p.hasLimit
}

// String renders the plan in statement syntax without the collection prefix,
// e.g. `find({"a":1}).sort({"b":-1}).limit(3)`.
func (p QueryPlan) String() string {
	if p.kind == PlanCount {
		return "count()"
	}

	var sb strings.Builder

	sb.WriteString("find(")
	sb.WriteString(p.filter.String())
	sb.WriteString(")")

	if p.hasSort {
		sb.WriteString(".sort(")
		sb.WriteString(p.sort.String())
		sb.WriteString(")")
	}

	if p.hasLimit {
		sb.WriteString(".limit(")
		sb.WriteString(strconv.FormatInt(p.limit, 10))
		sb.WriteString(")")
	}

	return sb.String()
}
