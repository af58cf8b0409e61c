package pg

import (
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	_ "github.com/newrelic/go-agent/v3/integrations/nrpgx"
)

type Config struct {
	User               string
	Password           string
	Host               string
	Port               int
	DbName             string
	MaxOpenConnections int
	MaxIdleConnections int
}

func (c *Config) dsn() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.DbName,
	)
}

// New opens a DB connection pool using username/password credentials. Queries
// are instrumented with New Relic when a transaction is present in the context.
func New(config *Config) (*sql.DB, error) {
	// Use the instrumented "pgx" driver (instead of "postgres")
	db, err := sql.Open("nrpgx", config.dsn())
	if err != nil {
		return nil, errors.Wrap(err, "error opening db")
	}

	if config.MaxOpenConnections > 0 {
		db.SetMaxOpenConns(config.MaxOpenConnections)
	}
	if config.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(config.MaxIdleConnections)
	}

	// Check if the connection was successful
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "error pinging db")
	}

	return db, nil
}
