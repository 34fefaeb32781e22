package postgresengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/docquery-go/docquery"
	"github.com/AntonStoeckl/docquery-go/docquery/literal"
)

func givenBuilder() queryBuilder {
	return queryBuilder{table: defaultTableName, column: defaultDocumentColumn}
}

func givenFindPlan(t *testing.T, filter string) docquery.QueryPlan {
	t.Helper()

	d, err := literal.Decode(filter)
	require.NoError(t, err)

	return docquery.FindPlan(d)
}

func Test_BuildCountQuery(t *testing.T) {
	// act
	sqlQuery, err := givenBuilder().buildCountQuery()

	// assert
	assert.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) FROM "documents"`, sqlQuery)
}

func Test_BuildFindQuery_WithoutFilter_ReturnsInsertionOrder(t *testing.T) {
	// act
	sqlQuery, err := givenBuilder().buildFindQuery(docquery.FindPlan(nil))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, `SELECT "doc" FROM "documents" ORDER BY "id" ASC`, sqlQuery)
}

func Test_BuildFindQuery_Conditions(t *testing.T) {
	tests := []struct {
		name      string
		filter    string
		fragments []string
	}{
		{
			name:   "scalar_equality_also_matches_array_members",
			filter: `{"level": "critical"}`,
			fragments: []string{
				`"doc" @> '{"level":"critical"}'::jsonb`,
				`"doc" @> '{"level":["critical"]}'::jsonb`,
			},
		},
		{
			name:      "dotted_path_nests_the_containment",
			filter:    `{"site.name": "north"}`,
			fragments: []string{`'{"site":{"name":"north"}}'::jsonb`},
		},
		{
			name:      "document_equality",
			filter:    `{"site": {"name": "north"}}`,
			fragments: []string{`"doc" @> '{"site":{"name":"north"}}'::jsonb`},
		},
		{
			name:      "null_equality_matches_missing_fields",
			filter:    `{"end_time": null}`,
			fragments: []string{`("doc" #> '{"end_time"}') IS NULL OR jsonb_typeof("doc" #> '{"end_time"}') = 'null'`},
		},
		{
			name:   "number_comparison",
			filter: `{"severity": {"$gte": 3}}`,
			fragments: []string{
				`jsonb_typeof("doc" #> '{"severity"}') = 'number' THEN ("doc" #>> '{"severity"}')::numeric END) >= 3`,
			},
		},
		{
			name:      "string_comparison",
			filter:    `{"name": {"$lt": "pump"}}`,
			fragments: []string{`THEN "doc" #>> '{"name"}' END) < 'pump'`},
		},
		{
			name:      "timestamp_comparison",
			filter:    `{"start_time": {"$gt": {"$date": "2025-06-30T08:00:00Z"}}}`,
			fragments: []string{`("doc" #>> '{"start_time","$date"}')::timestamptz END) >`},
		},
		{
			name:      "not_equal",
			filter:    `{"level": {"$ne": "minor"}}`,
			fragments: []string{`NOT (("doc" @> '{"level":"minor"}'::jsonb`},
		},
		{
			name:   "in",
			filter: `{"level": {"$in": ["critical", "major"]}}`,
			fragments: []string{
				`'{"level":"critical"}'::jsonb`,
				`'{"level":"major"}'::jsonb`,
				` OR `,
			},
		},
		{
			name:      "empty_in_matches_nothing",
			filter:    `{"level": {"$in": []}}`,
			fragments: []string{`FALSE`},
		},
		{
			name:      "exists",
			filter:    `{"end_time": {"$exists": true}}`,
			fragments: []string{`("doc" #> '{"end_time"}') IS NOT NULL`},
		},
		{
			name:      "not_exists",
			filter:    `{"end_time": {"$exists": false}}`,
			fragments: []string{`("doc" #> '{"end_time"}') IS NULL`},
		},
		{
			name:   "or",
			filter: `{"$or": [{"level": "minor"}, {"name": "pump-1"}]}`,
			fragments: []string{
				`'{"level":"minor"}'::jsonb`,
				`'{"name":"pump-1"}'::jsonb`,
			},
		},
		{
			name:      "nor",
			filter:    `{"$nor": [{"level": "minor"}]}`,
			fragments: []string{`NOT (`},
		},
		{
			name:      "quotes_are_escaped",
			filter:    `{"name": "o'neil"}`,
			fragments: []string{`'{"name":"o''neil"}'::jsonb`},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			sqlQuery, err := givenBuilder().buildFindQuery(givenFindPlan(t, tc.filter))

			// assert
			assert.NoError(t, err)
			assert.Contains(t, sqlQuery, ` WHERE `)
			for _, fragment := range tc.fragments {
				assert.Contains(t, sqlQuery, fragment)
			}
		})
	}
}

func Test_BuildFindQuery_SortAndLimit(t *testing.T) {
	// arrange
	plan := docquery.FindPlan(nil).
		SortedBy(docquery.D(docquery.F("level", 1), docquery.F("end_time", -1))).
		LimitedTo(10)

	// act
	sqlQuery, err := givenBuilder().buildFindQuery(plan)

	// assert
	assert.NoError(t, err)
	assert.Contains(t, sqlQuery, `ORDER BY "doc" #> '{"level"}' ASC, "doc" #> '{"end_time"}' DESC LIMIT 10`)
	assert.NotContains(t, sqlQuery, `"id"`)
}

func Test_BuildFindQuery_EmptySortKeepsInsertionOrder(t *testing.T) {
	// act
	sqlQuery, err := givenBuilder().buildFindQuery(docquery.FindPlan(nil).SortedBy(docquery.D()))

	// assert
	assert.NoError(t, err)
	assert.Contains(t, sqlQuery, `ORDER BY "id" ASC`)
}

func Test_BuildFindQuery_ZeroLimitMeansNoLimit(t *testing.T) {
	// act
	sqlQuery, err := givenBuilder().buildFindQuery(docquery.FindPlan(nil).LimitedTo(0))

	// assert
	assert.NoError(t, err)
	assert.NotContains(t, sqlQuery, "LIMIT")
}

func Test_BuildFindQuery_Failures(t *testing.T) {
	tests := []struct {
		name     string
		plan     docquery.QueryPlan
		expected error
	}{
		{
			name:     "negative_limit",
			plan:     docquery.FindPlan(nil).LimitedTo(-5),
			expected: ErrNegativeLimit,
		},
		{
			name:     "invalid_sort_direction",
			plan:     docquery.FindPlan(nil).SortedBy(docquery.D(docquery.F("level", 2))),
			expected: ErrInvalidSortDirection,
		},
		{
			name:     "unknown_operator",
			plan:     docquery.FindPlan(docquery.D(docquery.F("name", docquery.D(docquery.F("$regex", "^p"))))),
			expected: docquery.ErrUnsupportedOperator,
		},
		{
			name:     "unknown_top_level_operator",
			plan:     docquery.FindPlan(docquery.D(docquery.F("$where", "true"))),
			expected: docquery.ErrUnsupportedOperator,
		},
		{
			name:     "ordering_a_boolean",
			plan:     docquery.FindPlan(docquery.D(docquery.F("acked", docquery.D(docquery.F("$gt", true))))),
			expected: docquery.ErrUnsupportedOperator,
		},
		{
			name:     "or_without_documents",
			plan:     docquery.FindPlan(docquery.D(docquery.F("$or", docquery.Array()))),
			expected: docquery.ErrUnsupportedOperator,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := givenBuilder().buildFindQuery(tc.plan)

			// assert
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func Test_BuildInsertQuery_UsesBoundJSONArguments(t *testing.T) {
	// arrange
	documents := docquery.Documents{
		docquery.D(docquery.F("name", "pump-1"), docquery.F("start_time", time.Date(2025, 6, 30, 8, 0, 0, 0, time.UTC))),
		docquery.D(docquery.F("name", "pump-2")),
	}

	// act
	sqlQuery, args, err := givenBuilder().buildInsertQuery(documents)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, `INSERT INTO "documents" ("doc") VALUES ($1::jsonb), ($2::jsonb)`, sqlQuery)
	assert.Equal(t, []any{
		`{"name":"pump-1","start_time":{"$date":"2025-06-30T08:00:00.000000000Z"}}`,
		`{"name":"pump-2"}`,
	}, args)
}

func Test_BuildQueries_UseConfiguredTableAndColumn(t *testing.T) {
	// arrange
	c, err := newCollection(nil, WithTableName("alarm_info"), WithDocumentColumn("payload"))
	require.NoError(t, err)

	// act
	sqlQuery, buildErr := c.query.buildFindQuery(docquery.FindPlan(nil))

	// assert
	assert.NoError(t, buildErr)
	assert.Equal(t, `SELECT "payload" FROM "alarm_info" ORDER BY "id" ASC`, sqlQuery)
}

func Test_Options_RejectEmptyNames(t *testing.T) {
	_, tableErr := newCollection(nil, WithTableName(""))
	_, columnErr := newCollection(nil, WithDocumentColumn(""))

	assert.ErrorIs(t, tableErr, docquery.ErrEmptyTableName)
	assert.ErrorIs(t, columnErr, ErrEmptyDocumentColumn)
}

func Test_JSONPath_QuotesSegments(t *testing.T) {
	assert.Equal(t, `{"a","b"}`, jsonPath([]string{"a", "b"}))
	assert.Equal(t, `{"we\"ird","x,y"}`, jsonPath([]string{`we"ird`, "x,y"}))
}
