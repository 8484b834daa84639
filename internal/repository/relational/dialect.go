package relational

import (
	"strconv"
	"strings"
)

// Dialect captures the differences between the supported SQL databases.
// Queries are written with ? placeholders and rebound per dialect.
type Dialect struct {
	Name   string
	Driver string
	schema string
	// numbered is true for $1, $2 style placeholders
	numbered bool
}

// SQLite is the dialect for modernc.org/sqlite
var SQLite = Dialect{
	Name:   "sqlite",
	Driver: "sqlite",
	schema: `
	CREATE TABLE IF NOT EXISTS todos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE
	);
	`,
}

// Postgres is the dialect for github.com/jackc/pgx/v5/stdlib
var Postgres = Dialect{
	Name:   "postgres",
	Driver: "pgx",
	schema: `
	CREATE TABLE IF NOT EXISTS todos (
		id BIGSERIAL PRIMARY KEY,
		text TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE
	);
	`,
	numbered: true,
}

// Rebind rewrites ? placeholders into the dialect's placeholder style.
// Question marks inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for _, c := range query {
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteRune(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
