package runtime

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v4/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"

	"github.com/TechXTT/sqlcrud/internal/core"
	"github.com/TechXTT/sqlcrud/pkg/config"
)

// Engine binds a database/sql driver to its dialect and DSN format.
type Engine struct {
	Name    string
	Driver  string
	Dialect core.Dialect
	dsn     func(cfg config.Config, database string) string
}

// DSN builds the connection string for cfg, connected to database
// (or the server default when database is empty).
func (e Engine) DSN(cfg config.Config, database string) string {
	return e.dsn(cfg, database)
}

// GetEngine resolves an engine name from the configuration.
func GetEngine(name string) (Engine, error) {
	switch strings.ToLower(name) {
	case "sqlserver", "mssql":
		return Engine{Name: "sqlserver", Driver: "sqlserver", Dialect: core.SQLServer{}, dsn: sqlServerDSN}, nil
	case "postgres", "postgresql":
		return Engine{Name: "postgres", Driver: "postgres", Dialect: core.Postgres{}, dsn: postgresDSN}, nil
	case "pgx":
		return Engine{Name: "pgx", Driver: "pgx", Dialect: core.Postgres{}, dsn: postgresDSN}, nil
	case "mysql", "mariadb", "aurora":
		return Engine{Name: "mysql", Driver: "mysql", Dialect: core.MySQL{}, dsn: mysqlDSN}, nil
	}
	return Engine{}, fmt.Errorf("SQL engine '%s' not supported", name)
}

func postgresDSN(cfg config.Config, database string) string {
	if database == "" {
		database = "postgres"
	}
	host := cfg.Host
	if cfg.Port > 0 {
		host = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     host,
		Path:     "/" + database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func mysqlDSN(cfg config.Config, database string) string {
	port := cfg.Port
	if port == 0 {
		port = 3306
	}
	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	mc.DBName = database
	return mc.FormatDSN()
}

// sqlServerDSN accepts "host\instance" hosts the way SQL Server tools do.
func sqlServerDSN(cfg config.Config, database string) string {
	host, instance, _ := strings.Cut(cfg.Host, `\`)
	if cfg.Port > 0 {
		host = net.JoinHostPort(host, strconv.Itoa(cfg.Port))
	}
	u := url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   host,
	}
	if instance != "" {
		u.Path = "/" + instance
	}
	if database != "" {
		u.RawQuery = url.Values{"database": {database}}.Encode()
	}
	return u.String()
}
