package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/AntonStoeckl/docquery-go/docquery"
	"github.com/AntonStoeckl/docquery-go/docquery/literal"
	"github.com/AntonStoeckl/docquery-go/docquery/postgresengine/internal/adapters"
)

const (
	defaultTableName           = "documents"
	defaultDocumentColumn      = "doc"
	logMsgBuildQueryFailed     = "failed to build query"
	logMsgDBQueryFailed        = "database query execution failed"
	logMsgDBExecFailed         = "database execution failed"
	logMsgCloseRowsFailed      = "failed to close database rows"
	logMsgScanRowFailed        = "failed to scan database row"
	logMsgDecodeDocFailed      = "failed to decode stored document"
	logMsgSQLExecuted          = "executed sql for: "
	logMsgDocumentsInserted    = "documents inserted"
	logAttrError               = "error"
	logAttrQuery               = "query"
	logAttrDurationMS          = "duration_ms"
	logAttrDocumentCount       = "document_count"
	logActionCount             = "count"
	logActionFind              = "find"
	logActionInsert            = "insert"
	logActionEnsureSchema      = "ensure schema"
	createTableStatementFmt    = "CREATE TABLE IF NOT EXISTS %s (%s BIGSERIAL PRIMARY KEY, %s JSONB NOT NULL)"
	createGinIndexStatementFmt = "CREATE INDEX IF NOT EXISTS %s ON %s USING GIN (%s jsonb_path_ops)"
)

type (
	sqlQueryString = string
	queryDuration  = time.Duration
)

// Collection is a docquery.Collection over a Postgres table that keeps one document per row
// in a JSONB column. Documents come back in insertion order unless a sort is requested.
//
// Postgres does not keep the key order of JSONB objects, so found documents have their
// keys in the order Postgres stores them.
type Collection struct {
	db     adapters.DBAdapter
	query  queryBuilder
	logger docquery.Logger
}

// NewCollectionFromPGXPool creates a new Collection using a pgx Pool with optional configuration.
func NewCollectionFromPGXPool(db *pgxpool.Pool, options ...Option) (*Collection, error) {
	if db == nil {
		return nil, docquery.ErrNilDatabaseConnection
	}

	return newCollection(adapters.NewPGXAdapter(db), options...)
}

// NewCollectionFromSQLDB creates a new Collection using a sql.DB with optional configuration.
func NewCollectionFromSQLDB(db *sql.DB, options ...Option) (*Collection, error) {
	if db == nil {
		return nil, docquery.ErrNilDatabaseConnection
	}

	return newCollection(adapters.NewSQLAdapter(db), options...)
}

// NewCollectionFromSQLX creates a new Collection using a sqlx.DB with optional configuration.
func NewCollectionFromSQLX(db *sqlx.DB, options ...Option) (*Collection, error) {
	if db == nil {
		return nil, docquery.ErrNilDatabaseConnection
	}

	return newCollection(adapters.NewSQLXAdapter(db), options...)
}

func newCollection(db adapters.DBAdapter, options ...Option) (*Collection, error) {
	c := &Collection{
		db:    db,
		query: queryBuilder{table: defaultTableName, column: defaultDocumentColumn},
	}

	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// EnsureSchema creates the document table and a GIN index on the document column
// if they do not exist yet.
func (c *Collection) EnsureSchema(ctx context.Context) error {
	table := pq.QuoteIdentifier(c.query.table)
	column := pq.QuoteIdentifier(c.query.column)
	index := pq.QuoteIdentifier(c.query.table + "_" + c.query.column + "_gin_idx")

	statements := []string{
		fmt.Sprintf(createTableStatementFmt, table, pq.QuoteIdentifier(colID), column),
		fmt.Sprintf(createGinIndexStatementFmt, index, table, column),
	}

	for _, statement := range statements {
		start := time.Now()

		if _, err := c.db.Exec(ctx, statement); err != nil {
			c.logError(logMsgDBExecFailed, err, logAttrQuery, statement)
			return err
		}

		c.logQueryWithDuration(statement, logActionEnsureSchema, time.Since(start))
	}

	return nil
}

// Count returns the number of documents in the table.
func (c *Collection) Count(ctx context.Context) (int64, error) {
	sqlQuery, err := c.query.buildCountQuery()
	if err != nil {
		c.logError(logMsgBuildQueryFailed, err)
		return 0, err
	}

	start := time.Now()

	rows, err := c.db.Query(ctx, sqlQuery)
	if err != nil {
		c.logError(logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		return 0, err
	}
	defer c.closeRows(rows)

	var count int64
	if rows.Next() {
		if scanErr := rows.Scan(&count); scanErr != nil {
			c.logError(logMsgScanRowFailed, scanErr)
			return 0, scanErr
		}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		c.logError(logMsgDBQueryFailed, rowsErr, logAttrQuery, sqlQuery)
		return 0, rowsErr
	}

	c.logQueryWithDuration(sqlQuery, logActionCount, time.Since(start))

	return count, nil
}

// Find returns the documents matching the plan's filter with its sort and limit applied.
//
// A zero limit means no limit; a negative limit fails with ErrNegativeLimit.
// Filter operators beyond $eq $ne $gt $gte $lt $lte $in $nin $exists $and $or $nor
// fail with docquery.ErrUnsupportedOperator.
func (c *Collection) Find(ctx context.Context, plan docquery.QueryPlan) (docquery.Documents, error) {
	sqlQuery, err := c.query.buildFindQuery(plan)
	if err != nil {
		c.logError(logMsgBuildQueryFailed, err)
		return nil, err
	}

	start := time.Now()

	rows, err := c.db.Query(ctx, sqlQuery)
	if err != nil {
		c.logError(logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		return nil, err
	}
	defer c.closeRows(rows)

	documents, err := c.processQueryResults(rows)
	if err != nil {
		return nil, err
	}

	c.logQueryWithDuration(sqlQuery, logActionFind, time.Since(start))

	return documents, nil
}

func (c *Collection) processQueryResults(rows adapters.DBRows) (docquery.Documents, error) {
	documents := make(docquery.Documents, 0)

	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			c.logError(logMsgScanRowFailed, err)
			return nil, err
		}

		d, err := literal.Decode(string(raw))
		if err != nil {
			c.logError(logMsgDecodeDocFailed, err)
			return nil, err
		}

		documents = append(documents, d)
	}

	if err := rows.Err(); err != nil {
		c.logError(logMsgDBQueryFailed, err)
		return nil, err
	}

	return documents, nil
}

// Insert stores documents, one row each, in a single statement.
// Timestamps are stored as extended JSON dates so that Find returns them as timestamps.
func (c *Collection) Insert(ctx context.Context, documents ...docquery.Document) error {
	if len(documents) == 0 {
		return nil
	}

	sqlQuery, args, err := c.query.buildInsertQuery(documents)
	if err != nil {
		c.logError(logMsgBuildQueryFailed, err)
		return err
	}

	start := time.Now()

	result, err := c.db.Exec(ctx, sqlQuery, args...)
	if err != nil {
		c.logError(logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		return err
	}

	c.logQueryWithDuration(sqlQuery, logActionInsert, time.Since(start))

	if rowsAffected, rowsErr := result.RowsAffected(); rowsErr == nil {
		c.logOperation(logMsgDocumentsInserted, logAttrDocumentCount, rowsAffected)
	}

	return nil
}

func (c *Collection) closeRows(rows adapters.DBRows) {
	if err := rows.Close(); err != nil && !errors.Is(err, context.Canceled) {
		c.logError(logMsgCloseRowsFailed, err)
	}
}

// logQueryWithDuration logs SQL at debug level together with its execution time.
func (c *Collection) logQueryWithDuration(sqlQuery, action string, duration queryDuration) {
	if c.logger != nil {
		c.logger.Debug(
			logMsgSQLExecuted+action,
			logAttrQuery, sqlQuery,
			logAttrDurationMS, c.toMilliseconds(duration),
		)
	}
}

func (c *Collection) logOperation(message string, args ...any) {
	if c.logger != nil {
		c.logger.Info(message, args...)
	}
}

func (c *Collection) logError(message string, err error, args ...any) {
	if c.logger != nil {
		allArgs := append([]any{logAttrError, err.Error()}, args...)
		c.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (c *Collection) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
