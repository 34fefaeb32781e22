package memengine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/AntonStoeckl/docquery-go/docquery"
)

var ErrInvalidSortDirection = errors.New("sort direction must be 1 or -1")

type sortKey struct {
	path      string
	ascending bool
}

// Sort orders documents in place by the field→direction mapping of order (1 ascending,
// -1 descending), earlier fields taking precedence. Ties keep their previous order.
func Sort(documents docquery.Documents, order docquery.Document) error {
	keys := make([]sortKey, 0, order.Len())

	for _, f := range order {
		direction, ok := f.Value.AsInt()
		if !ok || (direction != 1 && direction != -1) {
			return fmt.Errorf("%w: %s", ErrInvalidSortDirection, f.Key)
		}

		keys = append(keys, sortKey{path: f.Key, ascending: direction == 1})
	}

	sort.SliceStable(documents, func(i, j int) bool {
		for _, key := range keys {
			c := compareValues(sortValue(documents[i], key.path), sortValue(documents[j], key.path))
			if c == 0 {
				continue
			}

			if key.ascending {
				return c < 0
			}

			return c > 0
		}

		return false
	})

	return nil
}

// sortValue returns the value a document is ordered by; missing fields order like null.
func sortValue(doc docquery.Document, path string) docquery.Value {
	candidates := resolve(doc, path)
	if len(candidates) == 0 {
		return docquery.Null()
	}

	return candidates[0]
}

// typeOrder ranks kinds like the BSON comparison order.
func typeOrder(v docquery.Value) int {
	switch v.Kind() {
	case docquery.KindNull:
		return 1
	case docquery.KindNumber:
		return 2
	case docquery.KindString:
		return 3
	case docquery.KindDocument:
		return 4
	case docquery.KindArray:
		return 5
	case docquery.KindBool:
		return 6
	case docquery.KindTimestamp:
		return 7
	default:
		return 0
	}
}

// compareValues returns -1, 0, or 1.
func compareValues(a, b docquery.Value) int {
	if oa, ob := typeOrder(a), typeOrder(b); oa != ob {
		return cmpInt(oa, ob)
	}

	switch a.Kind() {
	case docquery.KindNumber:
		if ai, aInt := a.AsInt(); aInt && !a.IsFloat() {
			if bi, bInt := b.AsInt(); bInt && !b.IsFloat() {
				return cmpInt64(ai, bi)
			}
		}

		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()

		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}

	case docquery.KindString:
		as, _ := a.AsString()
		bs, _ := b.AsString()

		return strings.Compare(as, bs)

	case docquery.KindBool:
		ab, _ := a.AsBool()
		bb, _ := b.AsBool()

		return cmpInt(boolRank(ab), boolRank(bb))

	case docquery.KindTimestamp:
		at, _ := a.AsTimestamp()
		bt, _ := b.AsTimestamp()

		return at.Compare(bt)

	case docquery.KindDocument:
		ad, _ := a.AsDocument()
		bd, _ := b.AsDocument()

		return compareDocuments(ad, bd)

	case docquery.KindArray:
		aa, _ := a.AsArray()
		ba, _ := b.AsArray()

		for i := 0; i < len(aa) && i < len(ba); i++ {
			if c := compareValues(aa[i], ba[i]); c != 0 {
				return c
			}
		}

		return cmpInt(len(aa), len(ba))

	default:
		return 0
	}
}

func compareDocuments(a, b docquery.Document) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i].Key, b[i].Key); c != 0 {
			return c
		}

		if c := compareValues(a[i].Value, b[i].Value); c != 0 {
			return c
		}
	}

	return cmpInt(len(a), len(b))
}

func boolRank(b bool) int {
	if b {
		return 1
	}

	return 0
}

func cmpInt(a, b int) int {
	return cmpInt64(int64(a), int64(b))
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
