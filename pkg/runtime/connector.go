package runtime

import (
	"context"
	"database/sql"
	"fmt"

	"code.cloudfoundry.org/lager/v3"

	"github.com/TechXTT/sqlcrud/pkg/config"
)

// Connector opens a connection to the named database; an empty name means
// the server default.
type Connector func(ctx context.Context, database string) (*sql.DB, error)

// NewConnector returns a Connector for engine using cfg's credentials.
// Every connection it opens is limited to a single physical connection and
// is pinged before being returned.
func NewConnector(engine Engine, cfg config.Config, logger lager.Logger) Connector {
	logger = logger.Session("connector", lager.Data{"engine": engine.Name, "host": cfg.Host})
	return func(ctx context.Context, database string) (*sql.DB, error) {
		logger.Debug("sql-open", lager.Data{"database": database})

		db, err := sql.Open(engine.Driver, engine.DSN(cfg, database))
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		db.SetMaxOpenConns(1)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			logger.Error("ping-failed", err)
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return db, nil
	}
}
