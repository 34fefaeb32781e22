package docquery

// Documents is an alias type for an ordered slice of Document.
type Documents = []Document

// Field is a single key/value pair of a Document.
type Field struct {
	Key   string
	Value Value
}

// F is a convenience constructor for a Field; value is converted with ValueOf.
func F(key string, value any) Field {
	return Field{Key: key, Value: ValueOf(value)}
}

// Document is an ordered mapping from field names to values.
//
// It is used for stored documents as well as for filter and sort literals, where the
// order of fields is significant (sort precedence).
type Document []Field

// D builds a Document from the given fields, keeping their order.
func D(fields ...Field) Document {
	d := make(Document, 0, len(fields))

	return append(d, fields...)
}

// Len returns the number of fields.
func (d Document) Len() int {
	return len(d)
}

// IsEmpty reports whether the document has no fields.
func (d Document) IsEmpty() bool {
	return len(d) == 0
}

// Get returns the value of the first field with the given key.
func (d Document) Get(key string) (Value, bool) {
	for _, f := range d {
		if f.Key == key {
			return f.Value, true
		}
	}

	return Value{}, false
}

// Keys returns the field names in order.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d))
	for _, f := range d {
		keys = append(keys, f.Key)
	}

	return keys
}

// With returns a copy of the document in which key holds value.
// An existing field keeps its position, a new field is appended.
func (d Document) With(key string, value Value) Document {
	out := d.Clone()
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}

	return append(out, Field{Key: key, Value: value})
}

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}

	out := make(Document, len(d))
	copy(out, d)

	return out
}

// Equal reports whether both documents hold equal fields in the same order.
func (d Document) Equal(other Document) bool {
	if len(d) != len(other) {
		return false
	}

	for i := range d {
		if d[i].Key != other[i].Key || !d[i].Value.Equal(other[i].Value) {
			return false
		}
	}

	return true
}

// String renders the document as compact JSON.
func (d Document) String() string {
	raw, err := d.MarshalJSON()
	if err != nil {
		return ""
	}

	return string(raw)
}
