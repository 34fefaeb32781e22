// Package postgreswrapper opens a Postgres backed collection for integration tests with the
// driver selected by the ADAPTER_TYPE environment variable (pgxpool, sqldb or sqlx).
package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/docquery-go/docquery/postgresengine"
	"github.com/AntonStoeckl/docquery-go/testutil/helper"
)

// Engine type constants
const (
	typePGXPool = "pgxpool"
	typeSQLDB   = "sqldb"
	typeSQLX    = "sqlx"

	envAdapterType = "ADAPTER_TYPE"
	driverPostgres = "postgres"

	maxConnections  = 4
	connMaxLifetime = time.Minute * 5
	connectTimeout  = time.Second * 5
)

// Wrapper abstracts over the different connection types.
type Wrapper interface {
	Collection() *postgresengine.Collection
	TableName() string
	exec(ctx context.Context, statement string) error
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing.
type PGXPoolWrapper struct {
	pool       *pgxpool.Pool
	collection *postgresengine.Collection
	table      string
}

func (w *PGXPoolWrapper) Collection() *postgresengine.Collection { return w.collection }
func (w *PGXPoolWrapper) TableName() string                      { return w.table }
func (w *PGXPoolWrapper) Close()                                 { w.pool.Close() }

func (w *PGXPoolWrapper) exec(ctx context.Context, statement string) error {
	_, err := w.pool.Exec(ctx, statement)
	return err
}

// SQLDBWrapper wraps sql.DB-based testing.
type SQLDBWrapper struct {
	db         *sql.DB
	collection *postgresengine.Collection
	table      string
}

func (w *SQLDBWrapper) Collection() *postgresengine.Collection { return w.collection }
func (w *SQLDBWrapper) TableName() string                      { return w.table }
func (w *SQLDBWrapper) Close()                                 { _ = w.db.Close() }

func (w *SQLDBWrapper) exec(ctx context.Context, statement string) error {
	_, err := w.db.ExecContext(ctx, statement)
	return err
}

// SQLXWrapper wraps sqlx.DB-based testing.
type SQLXWrapper struct {
	db         *sqlx.DB
	collection *postgresengine.Collection
	table      string
}

func (w *SQLXWrapper) Collection() *postgresengine.Collection { return w.collection }
func (w *SQLXWrapper) TableName() string                      { return w.table }
func (w *SQLXWrapper) Close()                                 { _ = w.db.Close() }

func (w *SQLXWrapper) exec(ctx context.Context, statement string) error {
	_, err := w.db.ExecContext(ctx, statement)
	return err
}

// CreateWrapperWithTestConfig connects to the database named by DOCQUERY_TEST_POSTGRES_DSN
// and prepares a collection in a fresh table. The test is skipped when the DSN is not set.
// The table is dropped and the connection closed when the test ends.
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresengine.Option) Wrapper {
	dsn := helper.GivenPostgresDSN(t)
	table := "docquery_test_" + strings.ReplaceAll(helper.GivenUniqueID(t).String(), "-", "")
	options = append(options, postgresengine.WithTableName(table))

	var wrapper Wrapper

	switch adapterType := strings.ToLower(os.Getenv(envAdapterType)); adapterType {
	case typePGXPool, "":
		poolConfig, err := pgxpool.ParseConfig(dsn)
		require.NoError(t, err, "error parsing the postgres DSN in test setup")

		poolConfig.MaxConns = maxConnections
		poolConfig.MaxConnLifetime = connMaxLifetime
		poolConfig.ConnConfig.ConnectTimeout = connectTimeout

		pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
		require.NoError(t, err, "error connecting to DB pool in test setup")

		collection, err := postgresengine.NewCollectionFromPGXPool(pool, options...)
		require.NoError(t, err, "error creating the collection in test setup")

		wrapper = &PGXPoolWrapper{pool: pool, collection: collection, table: table}

	case typeSQLDB:
		db, err := sql.Open(driverPostgres, dsn)
		require.NoError(t, err, "error opening the database in test setup")
		configureDB(db)

		collection, err := postgresengine.NewCollectionFromSQLDB(db, options...)
		require.NoError(t, err, "error creating the collection in test setup")

		wrapper = &SQLDBWrapper{db: db, collection: collection, table: table}

	case typeSQLX:
		db, err := sqlx.Open(driverPostgres, dsn)
		require.NoError(t, err, "error opening the database in test setup")
		configureDB(db.DB)

		collection, err := postgresengine.NewCollectionFromSQLX(db, options...)
		require.NoError(t, err, "error creating the collection in test setup")

		wrapper = &SQLXWrapper{db: db, collection: collection, table: table}

	default:
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterType))
	}

	require.NoError(t, wrapper.Collection().EnsureSchema(context.Background()), "error creating the table in test setup")

	t.Cleanup(func() {
		CleanUp(t, wrapper)
		wrapper.Close()
	})

	return wrapper
}

// CleanUp drops the table of the given wrapper.
func CleanUp(t testing.TB, wrapper Wrapper) {
	statement := "DROP TABLE IF EXISTS " + pq.QuoteIdentifier(wrapper.TableName())
	require.NoError(t, wrapper.exec(context.Background(), statement), "error dropping the test table")
}

func configureDB(db *sql.DB) {
	db.SetMaxOpenConns(maxConnections)
	db.SetConnMaxLifetime(connMaxLifetime)
}
