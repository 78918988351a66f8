// File: internal/core/dialect.go
package core

import (
	"strconv"
)

// Dialect captures the per-engine SQL differences the session needs.
type Dialect interface {
	Name() string
	Quote(id Ident) string
	Placeholder(n int) string

	ListDatabasesQuery() string
	ListTablesQuery() string
	// ListColumnsQuery takes the table name as its only bound argument.
	ListColumnsQuery() string

	// UseStatement returns the statement that switches the active database
	// on the current connection, or ok=false when the engine can only switch
	// by reconnecting.
	UseStatement(db Ident) (stmt string, ok bool)

	// MaintenanceDatabase names a database that always exists, for moving
	// off the active database before it is dropped. Empty when the engine
	// can drop the database in use.
	MaintenanceDatabase() Ident
}

// Postgres serves both lib/pq and pgx.
type Postgres struct{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) Quote(id Ident) string { return `"` + string(id) + `"` }

func (Postgres) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (Postgres) ListDatabasesQuery() string {
	return "SELECT datname FROM pg_database WHERE datistemplate = false ORDER BY datname"
}

func (Postgres) ListTablesQuery() string {
	return "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_type = 'BASE TABLE' ORDER BY table_name"
}

func (Postgres) ListColumnsQuery() string {
	return "SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1 ORDER BY ordinal_position"
}

func (Postgres) UseStatement(Ident) (string, bool) { return "", false }

func (Postgres) MaintenanceDatabase() Ident { return "postgres" }

type MySQL struct{}

func (MySQL) Name() string { return "mysql" }

func (MySQL) Quote(id Ident) string { return "`" + string(id) + "`" }

func (MySQL) Placeholder(int) string { return "?" }

func (MySQL) ListDatabasesQuery() string {
	return "SELECT schema_name FROM information_schema.schemata ORDER BY schema_name"
}

func (MySQL) ListTablesQuery() string {
	return "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE' ORDER BY table_name"
}

func (MySQL) ListColumnsQuery() string {
	return "SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position"
}

func (d MySQL) UseStatement(db Ident) (string, bool) { return "USE " + d.Quote(db), true }

func (MySQL) MaintenanceDatabase() Ident { return "" }

type SQLServer struct{}

func (SQLServer) Name() string { return "sqlserver" }

func (SQLServer) Quote(id Ident) string { return "[" + string(id) + "]" }

func (SQLServer) Placeholder(n int) string { return "@p" + strconv.Itoa(n) }

func (SQLServer) ListDatabasesQuery() string {
	return "SELECT name FROM sys.databases ORDER BY name"
}

// user tables only
func (SQLServer) ListTablesQuery() string {
	return "SELECT name FROM sys.tables WHERE type = 'U' ORDER BY name"
}

func (SQLServer) ListColumnsQuery() string {
	return "SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_NAME = @p1 ORDER BY ORDINAL_POSITION"
}

func (d SQLServer) UseStatement(db Ident) (string, bool) { return "USE " + d.Quote(db), true }

func (SQLServer) MaintenanceDatabase() Ident { return "master" }
