package literal

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/docquery-go/docquery"
)

const dateLayout = "2006-01-02T15:04:05.000000000Z07:00"

// writer differs from the result encoding only in how timestamps are written.
var writer = docquery.JSONWriter{Timestamp: writeDate}

// Encode renders d as a JSON object that Decode reads back into an equal document.
// Timestamps are written as extended JSON dates in UTC with a fixed nanosecond fraction,
// so that their string forms sort chronologically.
func Encode(d docquery.Document) ([]byte, error) {
	return encode(func(stream *jsoniter.Stream) { writer.WriteDocument(stream, d) })
}

// EncodeValue renders a single value in the same form Encode uses for field values.
func EncodeValue(v docquery.Value) ([]byte, error) {
	return encode(func(stream *jsoniter.Stream) { writer.WriteValue(stream, v) })
}

func encode(write func(stream *jsoniter.Stream)) ([]byte, error) {
	stream := jsonAPI.BorrowStream(nil)
	defer jsonAPI.ReturnStream(stream)

	write(stream)
	if stream.Error != nil {
		return nil, stream.Error
	}

	return append([]byte(nil), stream.Buffer()...), nil
}

func writeDate(stream *jsoniter.Stream, t time.Time) {
	stream.WriteObjectStart()
	stream.WriteObjectField(keyDate)
	stream.WriteString(t.UTC().Format(dateLayout))
	stream.WriteObjectEnd()
}
