package postgresengine_test

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/docquery-go/docquery"
	"github.com/AntonStoeckl/docquery-go/docquery/executor"
	"github.com/AntonStoeckl/docquery-go/docquery/parser"
	"github.com/AntonStoeckl/docquery-go/docquery/postgresengine"
	. "github.com/AntonStoeckl/docquery-go/testutil/helper"          //nolint:revive
	. "github.com/AntonStoeckl/docquery-go/testutil/postgreswrapper" //nolint:revive
)

func Test_FactoryFunctions_ShouldFail_WithNilDatabaseConnection(t *testing.T) {
	testCases := []struct {
		name        string
		factoryFunc func() (*postgresengine.Collection, error)
	}{
		{
			name: "from_pgx_pool",
			factoryFunc: func() (*postgresengine.Collection, error) {
				return postgresengine.NewCollectionFromPGXPool((*pgxpool.Pool)(nil))
			},
		},
		{
			name: "from_sql_db",
			factoryFunc: func() (*postgresengine.Collection, error) {
				return postgresengine.NewCollectionFromSQLDB((*sql.DB)(nil))
			},
		},
		{
			name: "from_sqlx",
			factoryFunc: func() (*postgresengine.Collection, error) {
				return postgresengine.NewCollectionFromSQLX((*sqlx.DB)(nil))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			collection, err := tc.factoryFunc()

			// assert
			assert.ErrorIs(t, err, docquery.ErrNilDatabaseConnection)
			assert.Nil(t, collection)
		})
	}
}

func Test_Postgres_CountAndFind(t *testing.T) {
	// setup
	ctx := context.Background()
	logHandler := NewLogHandlerSpy(false)
	wrapper := CreateWrapperWithTestConfig(t, postgresengine.WithLogger(slog.New(logHandler)))
	collection := wrapper.Collection()
	require.NoError(t, collection.Insert(ctx, FixtureAlarms()...))

	tests := []struct {
		name     string
		filter   docquery.Document
		order    docquery.Document
		limit    int64
		expected []string
	}{
		{
			name:     "all_in_insertion_order",
			expected: []string{"pump-1", "pump-2", "fan-1", "fan-2", "valve-1"},
		},
		{
			name:     "equality",
			filter:   docquery.D(docquery.F("level", "critical")),
			expected: []string{"pump-1", "fan-1"},
		},
		{
			name:     "in_sorted_and_limited",
			filter:   docquery.D(docquery.F("level", docquery.D(docquery.F("$in", []any{"critical", "major"})))),
			order:    docquery.D(docquery.F("start_time", -1)),
			limit:    3,
			expected: []string{"valve-1", "fan-1", "pump-2"},
		},
		{
			name: "timestamp_range",
			filter: docquery.D(docquery.F("start_time", docquery.D(
				docquery.F("$gte", time.Date(2025, 6, 30, 9, 0, 0, 0, time.UTC)),
				docquery.F("$lt", time.Date(2025, 6, 30, 11, 0, 0, 0, time.UTC)),
			))),
			expected: []string{"pump-2", "fan-1"},
		},
		{
			name:     "sorted_by_name",
			order:    docquery.D(docquery.F("name", 1)),
			expected: []string{"fan-1", "fan-2", "pump-1", "pump-2", "valve-1"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			plan := docquery.FindPlan(tc.filter)
			if tc.order != nil {
				plan = plan.SortedBy(tc.order)
			}
			if tc.limit != 0 {
				plan = plan.LimitedTo(tc.limit)
			}

			// act
			documents, err := collection.Find(ctx, plan)

			// assert
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, Names(documents))
		})
	}

	count, err := collection.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.True(t, logHandler.HasDebugLogWithMessage("executed sql for: find").Assert())
	assert.True(t, logHandler.HasInfoLogWithMessage("documents inserted").WithAttributeValue("document_count", "5").Assert())
}

func Test_Postgres_TimestampsRoundTrip(t *testing.T) {
	// setup
	ctx := context.Background()
	collection := CreateWrapperWithTestConfig(t).Collection()
	startTime := time.Date(2025, 6, 30, 23, 30, 44, 5e6, time.UTC)

	// arrange
	require.NoError(t, collection.Insert(ctx, FixtureAlarm("pump-1", "critical", startTime, "")))

	// act
	documents, err := collection.Find(ctx, docquery.FindPlan(nil))

	// assert
	require.NoError(t, err)
	require.Len(t, documents, 1)
	got, _ := documents[0].Get("start_time")
	ts, isTimestamp := got.AsTimestamp()
	assert.True(t, isTimestamp)
	assert.True(t, startTime.Equal(ts))
}

func Test_Postgres_ThroughParserAndExecutor(t *testing.T) {
	// setup
	ctx := context.Background()
	collection := CreateWrapperWithTestConfig(t).Collection()
	require.NoError(t, collection.Insert(ctx, FixtureAlarms()...))
	p, err := parser.New()
	require.NoError(t, err)
	e, err := executor.New()
	require.NoError(t, err)

	// arrange
	plan, err := p.Parse(`db.alarm_info.find({'level': 'major'}).sort({'start_time': 1})`)
	require.NoError(t, err)

	// act
	result, err := e.Execute(ctx, plan, collection)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"pump-2", "valve-1"}, Names(result.Documents()))
}

func Test_Postgres_Find_ShouldFail_WithNegativeLimit(t *testing.T) {
	// setup
	collection := CreateWrapperWithTestConfig(t).Collection()

	// act
	_, err := collection.Find(context.Background(), docquery.FindPlan(nil).LimitedTo(-1))

	// assert
	assert.ErrorIs(t, err, postgresengine.ErrNegativeLimit)
}
