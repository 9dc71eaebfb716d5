// Package pg manages the PostgreSQL connection pool, schema migrations and
// error classification shared by the storage layer.
//
// Connect builds a pgx pool with retry so a restarting database does not
// kill service startup. Migrate applies goose migrations over a
// database/sql bridge to the same pool. The Is*Error helpers classify
// driver errors so stores can map them onto domain sentinels.
package pg
