package mongoengine

import (
	"encoding/hex"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AntonStoeckl/docquery-go/docquery"
)

const keyObjectID = "$oid"

// toBSON converts a document into its driver form, keeping the field order.
// Extended JSON object ids ({"$oid": "<hex>"}) become primitive.ObjectID.
func toBSON(d docquery.Document) bson.D {
	out := make(bson.D, 0, d.Len())
	for _, f := range d {
		out = append(out, bson.E{Key: f.Key, Value: toBSONValue(f.Value)})
	}

	return out
}

func toBSONValue(v docquery.Value) any {
	switch v.Kind() {
	case docquery.KindBool:
		b, _ := v.AsBool()
		return b

	case docquery.KindNumber:
		if v.IsFloat() {
			f, _ := v.AsFloat()
			return f
		}

		i, _ := v.AsInt()
		return i

	case docquery.KindString:
		s, _ := v.AsString()
		return s

	case docquery.KindTimestamp:
		t, _ := v.AsTimestamp()
		return primitive.NewDateTimeFromTime(t)

	case docquery.KindDocument:
		d, _ := v.AsDocument()
		if id, ok := objectID(d); ok {
			return id
		}

		return toBSON(d)

	case docquery.KindArray:
		items, _ := v.AsArray()
		out := make(bson.A, 0, len(items))
		for _, item := range items {
			out = append(out, toBSONValue(item))
		}

		return out

	default:
		return nil
	}
}

func objectID(d docquery.Document) (primitive.ObjectID, bool) {
	if d.Len() != 1 || d[0].Key != keyObjectID {
		return primitive.NilObjectID, false
	}

	s, ok := d[0].Value.AsString()
	if !ok {
		return primitive.NilObjectID, false
	}

	id, err := primitive.ObjectIDFromHex(s)

	return id, err == nil
}

// fromBSON converts a decoded document back into a docquery document.
func fromBSON(d bson.D) docquery.Document {
	out := make(docquery.Document, 0, len(d))
	for _, e := range d {
		out = append(out, docquery.Field{Key: e.Key, Value: fromBSONValue(e.Value)})
	}

	return out
}

// fromBSONValue maps BSON types onto docquery values. Types without a counterpart are
// rendered as strings: object ids as hex, decimals in their decimal notation,
// binary data as hex and regular expressions as /pattern/options.
func fromBSONValue(v any) docquery.Value {
	switch x := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return docquery.Null()
	case bool:
		return docquery.Bool(x)
	case int32:
		return docquery.Int(int64(x))
	case int64:
		return docquery.Int(x)
	case int:
		return docquery.Int(int64(x))
	case float64:
		return docquery.Float(x)
	case string:
		return docquery.String(x)
	case primitive.DateTime:
		return docquery.Timestamp(x.Time().UTC())
	case primitive.Timestamp:
		return docquery.Timestamp(time.Unix(int64(x.T), 0).UTC())
	case time.Time:
		return docquery.Timestamp(x)
	case primitive.ObjectID:
		return docquery.String(x.Hex())
	case primitive.Decimal128:
		return docquery.String(x.String())
	case primitive.Binary:
		return docquery.String(hex.EncodeToString(x.Data))
	case primitive.Regex:
		return docquery.String("/" + x.Pattern + "/" + x.Options)
	case primitive.Symbol:
		return docquery.String(string(x))
	case primitive.JavaScript:
		return docquery.String(string(x))
	case bson.D:
		return docquery.Doc(fromBSON(x))
	case bson.M:
		d := make(docquery.Document, 0, len(x))
		for k, item := range x {
			d = append(d, docquery.Field{Key: k, Value: fromBSONValue(item)})
		}

		return docquery.Doc(d)
	case bson.A:
		items := make([]docquery.Value, 0, len(x))
		for _, item := range x {
			items = append(items, fromBSONValue(item))
		}

		return docquery.Array(items...)
	default:
		return docquery.String(fmt.Sprint(x))
	}
}
