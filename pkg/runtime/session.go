package runtime

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"code.cloudfoundry.org/lager/v3"
	"github.com/google/uuid"

	"github.com/TechXTT/sqlcrud/internal/core"
	"github.com/TechXTT/sqlcrud/pkg/config"
)

// Session holds one connection and the single pinned connection (the
// cursor) every statement runs on. A Session is not safe for concurrent use.
type Session struct {
	logger   lager.Logger
	dialect  core.Dialect
	connect  Connector
	db       *sql.DB
	conn     *sql.Conn
	database string
	closed   bool
}

// ResultSet is the outcome of a select.
type ResultSet struct {
	Columns []string
	Rows    [][]interface{}
}

// Open connects to the server described by cfg and returns a ready Session.
func Open(ctx context.Context, cfg config.Config, logger lager.Logger) (*Session, error) {
	engine, err := GetEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}
	connect := NewConnector(engine, cfg, logger)
	db, err := connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	s, err := NewSession(ctx, db, engine.Dialect, connect, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.database = cfg.Database
	return s, nil
}

// NewSession wraps an already opened db. connect is only used by dialects
// that switch databases by reconnecting.
func NewSession(ctx context.Context, db *sql.DB, dialect core.Dialect, connect Connector, logger lager.Logger) (*Session, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &Session{
		logger:  logger.Session("session", lager.Data{"session-id": uuid.NewString(), "dialect": dialect.Name()}),
		dialect: dialect,
		connect: connect,
		db:      db,
		conn:    conn,
	}, nil
}

// Database returns the active database name, empty if never switched.
func (s *Session) Database() string { return s.database }

func (s *Session) ListDatabases(ctx context.Context) ([]string, error) {
	return s.queryNames(ctx, "list-databases", "fetching databases", s.dialect.ListDatabasesQuery())
}

// UseDatabase switches the active database and returns a confirmation line.
func (s *Session) UseDatabase(ctx context.Context, name string) (string, error) {
	const op = "using database"
	id, err := core.ParseIdent(name)
	if err != nil {
		return "", s.fail(op, err)
	}
	if err := s.use(ctx, id); err != nil {
		return "", s.fail(op, err)
	}
	return fmt.Sprintf("Using database '%s'.", id), nil
}

// ListTables lists user tables of the active database.
func (s *Session) ListTables(ctx context.Context) ([]string, error) {
	return s.queryNames(ctx, "list-tables", "fetching tables", s.dialect.ListTablesQuery())
}

// ListColumns lists the columns of table in declaration order.
func (s *Session) ListColumns(ctx context.Context, table string) ([]string, error) {
	const op = "fetching columns"
	id, err := core.ParseIdent(table)
	if err != nil {
		return nil, s.fail(op, err)
	}
	return s.queryNames(ctx, "list-columns", op, s.dialect.ListColumnsQuery(), string(id))
}

func (s *Session) CreateDatabase(ctx context.Context, name string) error {
	const op = "creating database"
	id, err := core.ParseIdent(name)
	if err != nil {
		return s.fail(op, err)
	}
	_, err = s.exec(ctx, "create-database", op, core.BuildCreateDatabase(s.dialect, id))
	return err
}

// CreateTable switches to database, then creates table there.
func (s *Session) CreateTable(ctx context.Context, database, table string, defs []core.ColumnDef) error {
	const op = "creating table"
	dbID, err := core.ParseIdent(database)
	if err != nil {
		return s.fail(op, err)
	}
	tableID, err := core.ParseIdent(table)
	if err != nil {
		return s.fail(op, err)
	}
	query, err := core.BuildCreateTable(s.dialect, tableID, defs)
	if err != nil {
		return s.fail(op, err)
	}
	if err := s.use(ctx, dbID); err != nil {
		return s.fail(op, err)
	}
	_, err = s.exec(ctx, "create-table", op, query)
	return err
}

// Insert adds one row and returns the number of rows affected.
func (s *Session) Insert(ctx context.Context, table string, columns []core.Ident, values []interface{}) (int64, error) {
	const op = "inserting data"
	id, err := core.ParseIdent(table)
	if err != nil {
		return 0, s.fail(op, err)
	}
	query, args, err := core.BuildInsert(s.dialect, id, columns, values)
	if err != nil {
		return 0, s.fail(op, err)
	}
	return s.exec(ctx, "insert", op, query, args...)
}

// Select reads columns (all when empty) of the rows matching where (all
// when empty).
func (s *Session) Select(ctx context.Context, table string, columns []core.Ident, where core.Condition) (*ResultSet, error) {
	const op = "selecting data"
	id, err := core.ParseIdent(table)
	if err != nil {
		return nil, s.fail(op, err)
	}
	if s.closed {
		return nil, s.fail(op, ErrSessionClosed)
	}
	query, args := core.BuildSelect(s.dialect, id, columns, where)
	s.logger.Debug("select", lager.Data{"statement": query})

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.fail(op, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, s.fail(op, err)
	}
	rs := &ResultSet{Columns: cols, Rows: [][]interface{}{}}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, s.fail(op, err)
		}
		rs.Rows = append(rs.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(op, err)
	}
	return rs, nil
}

// Update applies set to the rows matching where. where must not be empty.
func (s *Session) Update(ctx context.Context, table string, set []core.Assignment, where core.Condition) (int64, error) {
	const op = "updating data"
	id, err := core.ParseIdent(table)
	if err != nil {
		return 0, s.fail(op, err)
	}
	query, args, err := core.BuildUpdate(s.dialect, id, set, where)
	if err != nil {
		return 0, s.fail(op, err)
	}
	return s.exec(ctx, "update", op, query, args...)
}

// Delete removes the rows matching where. where must not be empty.
func (s *Session) Delete(ctx context.Context, table string, where core.Condition) (int64, error) {
	const op = "deleting entry"
	id, err := core.ParseIdent(table)
	if err != nil {
		return 0, s.fail(op, err)
	}
	query, args, err := core.BuildDelete(s.dialect, id, where)
	if err != nil {
		return 0, s.fail(op, err)
	}
	return s.exec(ctx, "delete", op, query, args...)
}

// DropDatabase drops name. When name is the active database the session
// first moves to the engine's maintenance database, since SQL Server and
// PostgreSQL refuse to drop a database that is in use.
func (s *Session) DropDatabase(ctx context.Context, name string) error {
	const op = "deleting database"
	id, err := core.ParseIdent(name)
	if err != nil {
		return s.fail(op, err)
	}
	if s.database == string(id) {
		if m := s.dialect.MaintenanceDatabase(); m != "" && m != id {
			if err := s.use(ctx, m); err != nil {
				return s.fail(op, err)
			}
		}
	}
	if _, err := s.exec(ctx, "drop-database", op, core.BuildDropDatabase(s.dialect, id)); err != nil {
		return err
	}
	if s.database == string(id) {
		s.database = ""
	}
	return nil
}

// DropTable drops table from the active database if it exists.
func (s *Session) DropTable(ctx context.Context, table string) error {
	const op = "dropping table"
	id, err := core.ParseIdent(table)
	if err != nil {
		return s.fail(op, err)
	}
	_, err = s.exec(ctx, "drop-table", op, core.BuildDropTable(s.dialect, id))
	return err
}

// Close releases the cursor, then the connection. Calling it twice
// returns ErrSessionClosed.
func (s *Session) Close() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true
	err := s.release()
	s.logger.Info("closed")
	return err
}

func (s *Session) release() error {
	connErr := s.conn.Close()
	dbErr := s.db.Close()
	return errors.Join(connErr, dbErr)
}

func (s *Session) use(ctx context.Context, db core.Ident) error {
	if s.closed {
		return ErrSessionClosed
	}
	if stmt, ok := s.dialect.UseStatement(db); ok {
		s.logger.Debug("use-database", lager.Data{"statement": stmt})
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
		s.database = string(db)
		return nil
	}
	if s.database == string(db) {
		return nil
	}

	// Reconnect; the current connection stays usable until the new one is up.
	s.logger.Debug("reconnect", lager.Data{"database": db})
	newDB, err := s.connect(ctx, string(db))
	if err != nil {
		return err
	}
	conn, err := newDB.Conn(ctx)
	if err != nil {
		newDB.Close()
		return err
	}
	if err := s.release(); err != nil {
		s.logger.Error("release-failed", err)
	}
	s.db, s.conn, s.database = newDB, conn, string(db)
	return nil
}

func (s *Session) exec(ctx context.Context, action, op, query string, args ...interface{}) (int64, error) {
	if s.closed {
		return 0, s.fail(op, ErrSessionClosed)
	}
	s.logger.Debug(action, lager.Data{"statement": query})

	res, err := s.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, s.fail(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		// DDL on some drivers has no row count
		s.logger.Debug("rows-affected-unavailable", lager.Data{"statement": query, "error": err.Error()})
		return 0, nil
	}
	return n, nil
}

func (s *Session) queryNames(ctx context.Context, action, op, query string, args ...interface{}) ([]string, error) {
	if s.closed {
		return nil, s.fail(op, ErrSessionClosed)
	}
	s.logger.Debug(action, lager.Data{"statement": query})

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.fail(op, err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, s.fail(op, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(op, err)
	}
	return names, nil
}

func (s *Session) fail(op string, err error) error {
	s.logger.Error("sql-error", err, lager.Data{"op": op})
	return &OpError{Op: op, Err: err}
}
