package db

import (
	"embed"
	"fmt"
	"strings"

	"blog-server/config"

	"github.com/charmbracelet/log"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrationsFS embed.FS

const LockTimeout = 4000
const IdleInTransactionSessionTimeout = 90000
const StatementTimeout = 30000

const SqliteBusyTimeout = 5000

func init() {
	// modernc registers itself as "sqlite", which sqlx doesn't know about
	sqlx.BindDriver(config.DriverSqlite, sqlx.QUESTION)
}

func Connect(cfg *config.Config) (*sqlx.DB, error) {
	var dsn string
	var err error

	switch cfg.DbDriver {
	case config.DriverPostgres:
		dsn = postgresDSN(cfg.DatabaseUrl)
	case config.DriverSqlite:
		dsn, err = SqliteDSN(cfg.DatabaseUrl)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DbDriver)
	}

	conn, err := sqlx.Connect(cfg.DbDriver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "error connecting to %s database", cfg.DbDriver)
	}

	log.Info("connected to database", "driver", cfg.DbDriver)

	if cfg.DbDriver == config.DriverSqlite && isSqliteMemory(dsn) {
		// every connection to :memory: is its own database
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
	} else if cfg.IsProduction() {
		conn.SetMaxOpenConns(50)
		conn.SetMaxIdleConns(20)
	} else {
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)
	}

	return conn, nil
}

func postgresDSN(dbUrl string) string {
	params := fmt.Sprintf("statement_timeout=%d&lock_timeout=%d&timezone=UTC&idle_in_transaction_session_timeout=%d", StatementTimeout, LockTimeout, IdleInTransactionSessionTimeout)
	if strings.Contains(dbUrl, "?") {
		return dbUrl + "&" + params
	}
	return dbUrl + "?" + params
}

// SqliteDSN turns a sqlite:// location into a modernc DSN with busy timeout and
// foreign keys enabled.
func SqliteDSN(dbUrl string) (string, error) {
	path := strings.TrimPrefix(dbUrl, "sqlite://")
	path = strings.TrimPrefix(path, "sqlite:")
	if path == "" {
		return "", errors.New("empty sqlite database location")
	}

	params := fmt.Sprintf("_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", SqliteBusyTimeout)
	if strings.Contains(path, "?") {
		return path + "&" + params, nil
	}
	return path + "?" + params, nil
}

func isSqliteMemory(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// MigrationsUp applies the embedded migrations for the connection's driver, or
// the migrations found in dir when it's non-empty.
func MigrationsUp(conn *sqlx.DB, dir string) error {
	if conn == nil {
		return errors.New("db not initialized")
	}

	driverName := conn.DriverName()

	var driver database.Driver
	var err error

	switch driverName {
	case config.DriverPostgres:
		driver, err = migratepg.WithInstance(conn.DB, &migratepg.Config{})
	case config.DriverSqlite:
		driver, err = migratesqlite.WithInstance(conn.DB, &migratesqlite.Config{})
	default:
		return fmt.Errorf("no migrations for database driver: %s", driverName)
	}
	if err != nil {
		return errors.Wrapf(err, "error creating %s migration driver", driverName)
	}

	// the sqlite driver's Close closes the shared *sql.DB, postgres only returns its conn
	if driverName == config.DriverPostgres {
		defer driver.Close()
	}

	src, srcName, err := migrationsSource(driverName, dir)
	if err != nil {
		return err
	}
	defer src.Close()

	m, err := migrate.NewWithInstance(srcName, src, driverName, driver)
	if err != nil {
		return errors.Wrap(err, "error creating migration instance")
	}

	err = m.Up()
	if err != nil {
		if err == migrate.ErrNoChange {
			log.Info("migration state is up to date")
			return nil
		}
		return errors.Wrap(err, "error running migrations")
	}

	log.Info("ran migrations successfully")

	return nil
}

func migrationsSource(driverName, dir string) (source.Driver, string, error) {
	if dir != "" {
		src, err := (&file.File{}).Open("file://" + dir)
		if err != nil {
			return nil, "", errors.Wrapf(err, "error loading migrations from %s", dir)
		}
		return src, "file", nil
	}

	src, err := iofs.New(migrationsFS, "migrations/"+driverName)
	if err != nil {
		return nil, "", errors.Wrap(err, "error loading embedded migrations")
	}
	return src, "iofs", nil
}
