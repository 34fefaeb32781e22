package docquery

import (
	"math"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalJSON encodes the value the way the zero JSONWriter writes it.
func (v Value) MarshalJSON() ([]byte, error) {
	return marshal(func(stream *jsoniter.Stream) { JSONWriter{}.WriteValue(stream, v) })
}

// MarshalJSON encodes the document as a JSON object, preserving the field order.
func (d Document) MarshalJSON() ([]byte, error) {
	return marshal(func(stream *jsoniter.Stream) { JSONWriter{}.WriteDocument(stream, d) })
}

// MarshalJSON encodes the result as {"type":"count","data":n} or {"type":"find","data":[...]}.
func (r QueryResult) MarshalJSON() ([]byte, error) {
	return marshal(func(stream *jsoniter.Stream) {
		stream.WriteObjectStart()
		stream.WriteObjectField("type")
		stream.WriteString(string(r.kind))
		stream.WriteMore()
		stream.WriteObjectField("data")

		if r.kind == ResultCount {
			stream.WriteInt64(r.count)
		} else {
			stream.WriteArrayStart()
			for i, d := range r.documents {
				if i > 0 {
					stream.WriteMore()
				}
				JSONWriter{}.WriteDocument(stream, d)
			}
			stream.WriteArrayEnd()
		}

		stream.WriteObjectEnd()
	})
}

func marshal(write func(stream *jsoniter.Stream)) ([]byte, error) {
	stream := jsonAPI.BorrowStream(nil)
	defer jsonAPI.ReturnStream(stream)

	write(stream)

	if stream.Error != nil {
		return nil, stream.Error
	}

	return append([]byte(nil), stream.Buffer()...), nil
}

// JSONWriter writes documents to a json-iterator stream with their field order preserved.
// Integral floats keep a ".0" fraction and non-finite floats are written as null.
// Timestamp decides how timestamps are written; the zero JSONWriter writes them as RFC 3339
// strings in UTC with milliseconds.
type JSONWriter struct {
	Timestamp func(stream *jsoniter.Stream, t time.Time)
}

// WriteDocument writes d as a JSON object.
func (w JSONWriter) WriteDocument(stream *jsoniter.Stream, d Document) {
	stream.WriteObjectStart()
	for i, f := range d {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(f.Key)
		w.WriteValue(stream, f.Value)
	}
	stream.WriteObjectEnd()
}

// WriteValue writes a single value.
func (w JSONWriter) WriteValue(stream *jsoniter.Stream, v Value) {
	switch v.kind {
	case KindBool:
		stream.WriteBool(v.b)
	case KindNumber:
		if !v.isFloat {
			stream.WriteInt64(v.i)
			return
		}

		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			stream.WriteNil()
			return
		}

		stream.WriteRaw(formatFloat(v.f))
	case KindString:
		stream.WriteString(v.s)
	case KindTimestamp:
		if w.Timestamp != nil {
			w.Timestamp(stream, v.t)
			return
		}

		stream.WriteString(v.t.UTC().Format(timestampLayout))
	case KindDocument:
		w.WriteDocument(stream, v.doc)
	case KindArray:
		stream.WriteArrayStart()
		for i, item := range v.arr {
			if i > 0 {
				stream.WriteMore()
			}
			w.WriteValue(stream, item)
		}
		stream.WriteArrayEnd()
	default:
		stream.WriteNil()
	}
}
