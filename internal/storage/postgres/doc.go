// Package postgres implements the domain store interfaces on a pgx
// connection pool.
//
// Usage mutations are single conditional statements (INSERT ... ON CONFLICT
// DO UPDATE ... RETURNING) so concurrent generations for the same user
// serialize on the row without a read-modify-write window.
package postgres
