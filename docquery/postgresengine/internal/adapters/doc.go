// Package adapters provides the database handles the Postgres collection runs its statements on.
//
// pgxpool.Pool, sql.DB and sqlx.DB are wrapped behind the same DBAdapter interface, so the
// collection builds its SQL once and does not care which driver executes it.
package adapters
