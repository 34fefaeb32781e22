package queryservice_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/docquery-go/docquery"
	"github.com/AntonStoeckl/docquery-go/docquery/memengine"
	"github.com/AntonStoeckl/docquery-go/docquery/normalizer"
	"github.com/AntonStoeckl/docquery-go/docquery/parser"
	"github.com/AntonStoeckl/docquery-go/docquery/queryservice"
	. "github.com/AntonStoeckl/docquery-go/testutil/helper" //nolint:revive
)

func givenService(t *testing.T, options ...queryservice.Option) *queryservice.Service {
	collection, err := memengine.NewCollection(memengine.WithDocuments(FixtureAlarms()...))
	require.NoError(t, err, "error in arranging test data")

	svc, err := queryservice.New(collection, options...)
	require.NoError(t, err, "error in arranging test data")

	return svc
}

func Test_Query_AnswersStatements(t *testing.T) {
	tests := []struct {
		name          string
		statement     string
		expectedKind  docquery.ResultKind
		expectedCount int64
		expectedNames []string
	}{
		{
			name:          "count",
			statement:     "db.alarm_info.count()",
			expectedKind:  docquery.ResultCount,
			expectedCount: 5,
		},
		{
			name:          "find_with_surrounding_whitespace",
			statement:     "  alarm_info.find({'level': 'critical'})\n",
			expectedKind:  docquery.ResultFind,
			expectedCount: 2,
			expectedNames: []string{"pump-1", "fan-1"},
		},
		{
			name:          "find_sorted_and_limited",
			statement:     "db.alarm_info.find({}).sort({'start_time': -1}).limit(2)",
			expectedKind:  docquery.ResultFind,
			expectedCount: 2,
			expectedNames: []string{"valve-1", "fan-2"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			svc := givenService(t)

			// act
			result, err := svc.Query(context.Background(), tc.statement)

			// assert
			require.NoError(t, err)
			assert.Equal(t, tc.expectedKind, result.Kind())
			assert.Equal(t, tc.expectedCount, result.Len())
			if tc.expectedNames != nil {
				assert.Equal(t, tc.expectedNames, Names(result.Documents()))
			}
		})
	}
}

func Test_Query_ShouldFail(t *testing.T) {
	tests := []struct {
		name         string
		statement    string
		expectedErr  error
		expectedKind string
	}{
		{
			name:         "blank_statement",
			statement:    " \t\n",
			expectedErr:  docquery.ErrEmptyQuery,
			expectedKind: docquery.ErrorKindEmptyQuery,
		},
		{
			name:         "other_collection",
			statement:    "db.users.count()",
			expectedErr:  docquery.ErrUnsupportedStatement,
			expectedKind: docquery.ErrorKindUnsupportedStatement,
		},
		{
			name:         "broken_filter",
			statement:    "db.alarm_info.find({level:1})",
			expectedErr:  docquery.ErrInvalidFilterSyntax,
			expectedKind: docquery.ErrorKindInvalidFilterSyntax,
		},
		{
			name:         "broken_limit",
			statement:    "db.alarm_info.find({}).limit(ten)",
			expectedErr:  docquery.ErrInvalidLimitValue,
			expectedKind: docquery.ErrorKindInvalidLimitValue,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			logHandler := NewLogHandlerSpy(false)
			svc := givenService(t, queryservice.WithLogger(slog.New(logHandler)))

			// act
			_, err := svc.Query(context.Background(), tc.statement)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Equal(t, tc.expectedKind, docquery.ErrorKind(err))
			assert.True(t, logHandler.HasErrorLogWithMessage("query failed").
				WithAttributeValue("error_kind", tc.expectedKind).Assert())
		})
	}
}

func Test_Query_ShouldFail_WhenTheStoreFails(t *testing.T) {
	// setup
	storeErr := errors.New("connection refused")
	collection := &FailingCollection{Err: storeErr}
	svc, err := queryservice.New(collection)
	require.NoError(t, err)

	// act
	_, queryErr := svc.Query(context.Background(), "db.alarm_info.count()")

	// assert
	assert.ErrorIs(t, queryErr, docquery.ErrExecutionFailure)
	assert.ErrorIs(t, queryErr, storeErr)
	assert.Equal(t, 1, collection.Calls)
}

func Test_Query_NormalizesConfiguredFields(t *testing.T) {
	// setup
	n, err := normalizer.New(normalizer.WithLocation(time.UTC))
	require.NoError(t, err)
	svc := givenService(t, queryservice.WithNormalizer(n), queryservice.WithNormalizedFields("start_time"))

	// act
	result, queryErr := svc.Query(context.Background(), "db.alarm_info.find({'name': 'pump-2'})")

	// assert
	require.NoError(t, queryErr)
	require.Len(t, result.Documents(), 1)

	startTime, _ := result.Documents()[0].Get("start_time")
	rendered, isString := startTime.AsString()
	assert.True(t, isString)
	assert.Equal(t, "2025-06-30 09:00", rendered)

	level, _ := result.Documents()[0].Get("level")
	assert.True(t, docquery.String("major").Equal(level))
}

func Test_Query_UsesTheConfiguredParser(t *testing.T) {
	// setup
	p, err := parser.New(parser.WithCollection("alarms"))
	require.NoError(t, err)
	svc := givenService(t, queryservice.WithParser(p))

	// act
	result, queryErr := svc.Query(context.Background(), "alarms.count()")

	// assert
	assert.NoError(t, queryErr)
	assert.Equal(t, int64(5), result.Count())
	assert.Equal(t, "alarms", svc.Collection())
}

func Test_QueryJSON_EncodesTheResultEnvelope(t *testing.T) {
	// setup
	svc := givenService(t)

	// act
	countJSON, countErr := svc.QueryJSON(context.Background(), "db.alarm_info.count()")
	emptyJSON, emptyErr := svc.QueryJSON(context.Background(), "db.alarm_info.find({'level': 'none'})")

	// assert
	assert.NoError(t, countErr)
	assert.JSONEq(t, `{"type":"count","data":5}`, string(countJSON))
	assert.NoError(t, emptyErr)
	assert.JSONEq(t, `{"type":"find","data":[]}`, string(emptyJSON))
}

func Test_New_ShouldFail(t *testing.T) {
	collection, err := memengine.NewCollection()
	require.NoError(t, err)

	_, nilCollectionErr := queryservice.New(nil)
	_, nilExecutorErr := queryservice.New(collection, queryservice.WithExecutor(nil))
	_, emptyFieldErr := queryservice.New(collection, queryservice.WithNormalizedFields("start_time", ""))

	assert.ErrorIs(t, nilCollectionErr, docquery.ErrNilCollection)
	assert.ErrorIs(t, nilExecutorErr, queryservice.ErrNilExecutor)
	assert.ErrorIs(t, emptyFieldErr, queryservice.ErrEmptyFieldName)
}
