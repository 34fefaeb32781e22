package docquery

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the tag of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindTimestamp
	KindDocument
	KindArray
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindTimestamp:
		return "timestamp"
	case KindDocument:
		return "document"
	case KindArray:
		return "array"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a value read from a document field.
//
// It is a tagged union over null, boolean, number, string, timestamp, nested document, and array.
// Numbers remember whether they were produced as an integer or as a floating point number.
// The zero Value is null. Values are read-only once constructed.
type Value struct {
	kind    Kind
	b       bool
	i       int64
	f       float64
	isFloat bool
	s       string
	t       time.Time
	doc     Document
	arr     []Value
}

// Null returns the null Value.
func Null() Value {
	return Value{}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int returns an integral number Value.
func Int(i int64) Value {
	return Value{kind: KindNumber, i: i}
}

// Float returns a floating point number Value.
func Float(f float64) Value {
	return Value{kind: KindNumber, f: f, isFloat: true}
}

// String returns a string Value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Timestamp returns a native timestamp Value.
func Timestamp(t time.Time) Value {
	return Value{kind: KindTimestamp, t: t}
}

// Doc returns a nested document Value. A nil document becomes an empty one.
func Doc(d Document) Value {
	if d == nil {
		d = Document{}
	}

	return Value{kind: KindDocument, doc: d}
}

// Array returns an array Value.
func Array(values ...Value) Value {
	if values == nil {
		values = []Value{}
	}

	return Value{kind: KindArray, arr: values}
}

// ValueOf converts a plain Go value into a Value.
//
// Supported are nil, bool, all integer and float types, string, time.Time, Value, Document,
// []Value, []any, and map[string]any (keys are not ordered in that case).
// Anything else is rendered with fmt into a string Value.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Int(int64(x)) //nolint:gosec
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		return Int(int64(x)) //nolint:gosec
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case string:
		return String(x)
	case time.Time:
		return Timestamp(x)
	case Document:
		return Doc(x)
	case []Value:
		return Array(x...)
	case []any:
		values := make([]Value, 0, len(x))
		for _, item := range x {
			values = append(values, ValueOf(item))
		}

		return Array(values...)
	case map[string]any:
		d := make(Document, 0, len(x))
		for k, item := range x {
			d = append(d, F(k, item))
		}

		return Doc(d)
	default:
		return String(fmt.Sprint(v))
	}
}

// Kind returns the tag of the Value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the Value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Truthy reports the value's truth in operator arguments such as {"$exists": 1}.
// False, zero and null are false, everything else is true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if v.isFloat {
			return v.f != 0
		}

		return v.i != 0
	case KindNull:
		return false
	default:
		return true
	}
}

// OperatorDocument returns the fields of v if v is a non-empty document whose first key
// starts with "$", as in {"$gte": 3}.
func (v Value) OperatorDocument() (Document, bool) {
	if v.kind != KindDocument || v.doc.IsEmpty() || !strings.HasPrefix(v.doc[0].Key, "$") {
		return nil, false
	}

	return v.doc, true
}

// IsFloat reports whether the Value is a number produced as a floating point number.
func (v Value) IsFloat() bool {
	return v.kind == KindNumber && v.isFloat
}

// AsBool returns the boolean and true if the Value is a boolean.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsInt returns the integer and true if the Value is an integral number.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}

	if v.isFloat {
		if v.f != math.Trunc(v.f) || math.IsInf(v.f, 0) || v.f > math.MaxInt64 || v.f < math.MinInt64 {
			return 0, false
		}

		return int64(v.f), true
	}

	return v.i, true
}

// AsFloat returns the number as float64 and true if the Value is a number.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}

	if v.isFloat {
		return v.f, true
	}

	return float64(v.i), true
}

// AsString returns the string and true if the Value is a string.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// AsTimestamp returns the time and true if the Value is a timestamp.
func (v Value) AsTimestamp() (time.Time, bool) {
	return v.t, v.kind == KindTimestamp
}

// AsDocument returns the nested document and true if the Value is a document.
func (v Value) AsDocument() (Document, bool) {
	return v.doc, v.kind == KindDocument
}

// AsArray returns the elements and true if the Value is an array.
func (v Value) AsArray() ([]Value, bool) {
	return v.arr, v.kind == KindArray
}

// String returns the default rendering of the Value.
//
// Strings render as themselves, integral numbers without a fraction, floating point numbers
// always with a fraction ("3.0"), timestamps as RFC 3339 with milliseconds, and nested documents
// and arrays as compact JSON.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		if !v.isFloat {
			return strconv.FormatInt(v.i, 10)
		}

		return formatFloat(v.f)
	case KindString:
		return v.s
	case KindTimestamp:
		return v.t.Format(timestampLayout)
	case KindDocument, KindArray:
		raw, err := v.MarshalJSON()
		if err != nil {
			return ""
		}

		return string(raw)
	default:
		return ""
	}
}

// Equal reports whether v and other hold the same value.
// Numbers compare by numeric value regardless of integer or floating point origin,
// timestamps compare by instant, and documents compare field by field in order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		if !v.isFloat && !other.isFloat {
			return v.i == other.i
		}

		a, _ := v.AsFloat()
		b, _ := other.AsFloat()

		return a == b
	case KindString:
		return v.s == other.s
	case KindTimestamp:
		return v.t.Equal(other.t)
	case KindDocument:
		return v.doc.Equal(other.doc)
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}

		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}

	return s
}
