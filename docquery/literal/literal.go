// Package literal decodes the object literals used as filter and sort arguments of statements
// into ordered docquery documents, and encodes documents into their stored JSON form.
//
// Literals are strict JSON objects. Extended JSON dates ({"$date": "2025-06-30T23:30:44Z"} or
// {"$date": 1751326244000}) are decoded into timestamp values. DecodeLenient additionally accepts
// single-quoted strings by rewriting every ' into " before a second, final attempt.
package literal

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/docquery-go/docquery"
)

const (
	keyDate       = "$date"
	keyNumberLong = "$numberLong"
)

var ErrNotAnObject = errors.New("literal is not a json object")
var ErrTrailingData = errors.New("unexpected data after literal")

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Decode parses src as a strict JSON object into an ordered Document.
func Decode(src string) (docquery.Document, error) {
	iter := jsoniter.ParseString(jsonAPI, src)

	if iter.WhatIsNext() != jsoniter.ObjectValue {
		return nil, ErrNotAnObject
	}

	d := readDocument(iter)
	if iter.Error != nil {
		return nil, iter.Error
	}

	// anything but the end of input after the closing brace is trailing data
	iter.WhatIsNext()
	if !errors.Is(iter.Error, io.EOF) {
		return nil, ErrTrailingData
	}

	return d, nil
}

// DecodeLenient decodes src with Decode; if that fails, every single quote is replaced by a double
// quote and decoding is retried once. The error of the second attempt is returned if both fail.
func DecodeLenient(src string) (docquery.Document, error) {
	d, err := Decode(src)
	if err == nil {
		return d, nil
	}

	return Decode(strings.ReplaceAll(src, "'", `"`))
}

func readDocument(iter *jsoniter.Iterator) docquery.Document {
	d := docquery.Document{}

	iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		d = append(d, docquery.Field{Key: key, Value: readValue(it)})
		return it.Error == nil
	})

	return d
}

func readValue(iter *jsoniter.Iterator) docquery.Value {
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		return docquery.Null()

	case jsoniter.BoolValue:
		return docquery.Bool(iter.ReadBool())

	case jsoniter.NumberValue:
		return numberValue(iter, string(iter.ReadNumber()))

	case jsoniter.StringValue:
		return docquery.String(iter.ReadString())

	case jsoniter.ArrayValue:
		values := make([]docquery.Value, 0)
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			values = append(values, readValue(it))
			return it.Error == nil
		})

		return docquery.Array(values...)

	case jsoniter.ObjectValue:
		d := readDocument(iter)
		if t, ok := extendedDate(d); ok {
			return docquery.Timestamp(t)
		}

		return docquery.Doc(d)

	default:
		iter.ReportError("readValue", "expected a json value")
		return docquery.Null()
	}
}

func numberValue(iter *jsoniter.Iterator, raw string) docquery.Value {
	if !strings.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return docquery.Int(i)
		}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		iter.ReportError("numberValue", "invalid number "+raw)
		return docquery.Null()
	}

	return docquery.Float(f)
}

func extendedDate(d docquery.Document) (time.Time, bool) {
	if d.Len() != 1 || d[0].Key != keyDate {
		return time.Time{}, false
	}

	v := d[0].Value

	if s, ok := v.AsString(); ok {
		t, err := time.Parse(time.RFC3339Nano, s)
		return t, err == nil
	}

	if ms, ok := v.AsInt(); ok {
		return time.UnixMilli(ms).UTC(), true
	}

	if nested, ok := v.AsDocument(); ok && nested.Len() == 1 && nested[0].Key == keyNumberLong {
		s, _ := nested[0].Value.AsString()
		ms, err := strconv.ParseInt(s, 10, 64)

		return time.UnixMilli(ms).UTC(), err == nil
	}

	return time.Time{}, false
}
