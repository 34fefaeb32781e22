package docquery_test

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/docquery-go/docquery"
)

func Test_Value_DefaultRendering(t *testing.T) {
	tests := []struct {
		name     string
		value    docquery.Value
		expected string
	}{
		{name: "null", value: docquery.Null(), expected: "null"},
		{name: "bool", value: docquery.Bool(false), expected: "false"},
		{name: "int", value: docquery.Int(-12), expected: "-12"},
		{name: "integral_float_keeps_fraction", value: docquery.Float(3), expected: "3.0"},
		{name: "float", value: docquery.Float(0.25), expected: "0.25"},
		{name: "nan", value: docquery.Float(math.NaN()), expected: "NaN"},
		{name: "string", value: docquery.String("pump"), expected: "pump"},
		{name: "timestamp", value: docquery.Timestamp(time.Date(2025, 6, 30, 23, 30, 44, 5e6, time.UTC)), expected: "2025-06-30T23:30:44.005Z"},
		{name: "document", value: docquery.Doc(docquery.D(docquery.F("b", 1), docquery.F("a", "x"))), expected: `{"b":1,"a":"x"}`},
		{name: "array", value: docquery.Array(docquery.Int(1), docquery.Null()), expected: `[1,null]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.value.String())
		})
	}
}

func Test_Value_Equal(t *testing.T) {
	ts := time.Date(2025, 6, 30, 23, 30, 0, 0, time.UTC)

	assert.True(t, docquery.Int(2).Equal(docquery.Float(2)))
	assert.False(t, docquery.Int(2).Equal(docquery.String("2")))
	assert.True(t, docquery.Timestamp(ts).Equal(docquery.Timestamp(ts.In(time.FixedZone("X", 3600)))))
	assert.True(t, docquery.Null().Equal(docquery.Value{}))
	assert.False(t, docquery.Array(docquery.Int(1)).Equal(docquery.Array(docquery.Int(1), docquery.Int(2))))
	assert.False(t, docquery.D(docquery.F("a", 1), docquery.F("b", 2)).Equal(docquery.D(docquery.F("b", 2), docquery.F("a", 1))))
}

func Test_Value_Accessors(t *testing.T) {
	i, isInt := docquery.Float(4).AsInt()
	_, fractionalIsInt := docquery.Float(4.5).AsInt()
	f, isNumber := docquery.Int(7).AsFloat()
	_, stringIsNumber := docquery.String("7").AsFloat()

	assert.True(t, isInt)
	assert.Equal(t, int64(4), i)
	assert.False(t, fractionalIsInt)
	assert.True(t, isNumber)
	assert.Equal(t, 7.0, f)
	assert.False(t, stringIsNumber)
	assert.Equal(t, docquery.KindArray, docquery.ValueOf([]any{1, "a"}).Kind())
	assert.Equal(t, docquery.KindString, docquery.ValueOf(struct{}{}).Kind())
}

func Test_Document_WithKeepsPositionAndDoesNotMutate(t *testing.T) {
	// arrange
	original := docquery.D(docquery.F("a", 1), docquery.F("b", 2))

	// act
	replaced := original.With("a", docquery.String("x"))
	appended := original.With("c", docquery.Int(3))

	// assert
	assert.Equal(t, []string{"a", "b"}, replaced.Keys())
	assert.Equal(t, []string{"a", "b", "c"}, appended.Keys())
	a, _ := original.Get("a")
	assert.True(t, a.Equal(docquery.Int(1)))
}

func Test_QueryPlan_CountNeverCarriesSortOrLimit(t *testing.T) {
	// act
	plan := docquery.CountPlan().SortedBy(docquery.D(docquery.F("a", 1))).LimitedTo(3)

	// assert
	_, hasSort := plan.Sort()
	_, hasLimit := plan.Limit()
	assert.Equal(t, docquery.PlanCount, plan.Kind())
	assert.False(t, hasSort)
	assert.False(t, hasLimit)
	assert.Nil(t, plan.Filter())
	assert.Equal(t, "count()", plan.String())
}

func Test_QueryPlan_FindAlwaysCarriesAFilter(t *testing.T) {
	// act
	plan := docquery.FindPlan(nil).SortedBy(docquery.D(docquery.F("end_time", -1))).LimitedTo(10)

	// assert
	assert.NotNil(t, plan.Filter())
	assert.Equal(t, `find({}).sort({"end_time":-1}).limit(10)`, plan.String())
}

func Test_QueryPlan_IsIsolatedFromItsInputs(t *testing.T) {
	// arrange
	filter := docquery.D(docquery.F("a", 1))
	plan := docquery.FindPlan(filter)

	// act
	filter[0] = docquery.F("a", 2)

	// assert
	a, _ := plan.Filter().Get("a")
	assert.True(t, a.Equal(docquery.Int(1)))
}

func Test_QueryResult_MarshalJSON(t *testing.T) {
	// arrange
	count := docquery.CountResult(42)
	found := docquery.FindResult(docquery.Documents{
		docquery.D(
			docquery.F("name", "pump-1"),
			docquery.F("start_time", time.Date(2025, 6, 30, 23, 30, 44, 0, time.FixedZone("CST", 8*3600))),
			docquery.F("ratio", 0.5),
		),
	})
	empty := docquery.FindResult(nil)

	// act
	countJSON, countErr := count.MarshalJSON()
	foundJSON, foundErr := found.MarshalJSON()
	emptyJSON, emptyErr := empty.MarshalJSON()

	// assert
	assert.NoError(t, countErr)
	assert.NoError(t, foundErr)
	assert.NoError(t, emptyErr)
	assert.JSONEq(t, `{"type":"count","data":42}`, string(countJSON))
	assert.JSONEq(t, `{"type":"find","data":[{"name":"pump-1","start_time":"2025-06-30T15:30:44.000Z","ratio":0.5}]}`, string(foundJSON))
	assert.Equal(t, `{"type":"find","data":[]}`, string(emptyJSON))
}

func Test_ErrorKind(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{err: nil, expected: docquery.ErrorKindNone},
		{err: fmt.Errorf("%w: x", docquery.ErrUnsupportedStatement), expected: docquery.ErrorKindUnsupportedStatement},
		{err: fmt.Errorf("%w: x", docquery.ErrInvalidFilterSyntax), expected: docquery.ErrorKindInvalidFilterSyntax},
		{err: fmt.Errorf("%w: x", docquery.ErrInvalidSortSyntax), expected: docquery.ErrorKindInvalidSortSyntax},
		{err: fmt.Errorf("%w: x", docquery.ErrInvalidLimitValue), expected: docquery.ErrorKindInvalidLimitValue},
		{err: errors.Join(docquery.ErrExecutionFailure, errors.New("down")), expected: docquery.ErrorKindExecutionFailure},
		{err: docquery.ErrEmptyQuery, expected: docquery.ErrorKindEmptyQuery},
		{err: errors.New("other"), expected: docquery.ErrorKindUnknown},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, docquery.ErrorKind(tc.err))
	}
}

func Test_JSONWriter_KeepsFloatFractionAndHonorsTimestampWriter(t *testing.T) {
	// arrange
	d := docquery.D(
		docquery.F("ratio", 3.0),
		docquery.F("count", 3),
		docquery.F("at", time.Date(2025, 6, 30, 8, 0, 0, 0, time.UTC)),
	)
	custom := docquery.JSONWriter{Timestamp: func(stream *jsoniter.Stream, ts time.Time) {
		stream.WriteInt64(ts.Unix())
	}}
	stream := jsoniter.ConfigCompatibleWithStandardLibrary.BorrowStream(nil)
	defer jsoniter.ConfigCompatibleWithStandardLibrary.ReturnStream(stream)

	// act
	defaultJSON, err := d.MarshalJSON()
	custom.WriteDocument(stream, d)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, `{"ratio":3.0,"count":3,"at":"2025-06-30T08:00:00.000Z"}`, string(defaultJSON))
	assert.NoError(t, stream.Error)
	assert.Equal(t, `{"ratio":3.0,"count":3,"at":1751270400}`, string(stream.Buffer()))
}

func Test_Value_TruthyAndOperatorDocument(t *testing.T) {
	// act
	truths := []bool{
		docquery.Bool(true).Truthy(),
		docquery.Int(1).Truthy(),
		docquery.Float(0.5).Truthy(),
		docquery.String("").Truthy(),
	}
	falsehoods := []bool{
		docquery.Bool(false).Truthy(),
		docquery.Int(0).Truthy(),
		docquery.Float(0).Truthy(),
		docquery.Null().Truthy(),
	}
	operators, isOperatorDoc := docquery.Doc(docquery.D(docquery.F("$gte", 3))).OperatorDocument()
	_, plainIsOperatorDoc := docquery.Doc(docquery.D(docquery.F("name", "x"))).OperatorDocument()
	_, emptyIsOperatorDoc := docquery.Doc(docquery.D()).OperatorDocument()
	_, stringIsOperatorDoc := docquery.String("$gte").OperatorDocument()

	// assert
	assert.Equal(t, []bool{true, true, true, true}, truths)
	assert.Equal(t, []bool{false, false, false, false}, falsehoods)
	assert.True(t, isOperatorDoc)
	assert.Equal(t, "$gte", operators[0].Key)
	assert.False(t, plainIsOperatorDoc)
	assert.False(t, emptyIsOperatorDoc)
	assert.False(t, stringIsOperatorDoc)
}
