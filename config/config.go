package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type FailurePolicy string

const (
	// FailurePolicyRespond turns backend failures into a 500 response.
	FailurePolicyRespond FailurePolicy = "respond"
	// FailurePolicyAbort terminates the process when listing or creating posts fails.
	FailurePolicyAbort FailurePolicy = "abort"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

const DefaultSqliteUrl = "sqlite://./db.sqlite"

type Config struct {
	Port          string
	GoEnv         string
	DbDriver      string
	DatabaseUrl   string
	MigrationsDir string
	FailurePolicy FailurePolicy
	LogLevel      string
	LogFormat     string
}

func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	return FromEnv()
}

func FromEnv() (*Config, error) {
	c := &Config{
		Port:          getenv("PORT", "8000"),
		GoEnv:         getenv("GOENV", "development"),
		DbDriver:      strings.ToLower(getenv("DB_DRIVER", DriverSqlite)),
		MigrationsDir: os.Getenv("MIGRATIONS_DIR"),
		FailurePolicy: FailurePolicy(strings.ToLower(getenv("STORE_FAILURE_POLICY", string(FailurePolicyRespond)))),
		LogLevel:      strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:     strings.ToLower(getenv("LOG_FORMAT", "text")),
	}

	dbUrl, err := databaseUrl(c.DbDriver)
	if err != nil {
		return nil, err
	}
	c.DatabaseUrl = dbUrl

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) Validate() error {
	switch c.DbDriver {
	case DriverSqlite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (expected %q or %q)", c.DbDriver, DriverSqlite, DriverPostgres)
	}

	switch c.FailurePolicy {
	case FailurePolicyRespond, FailurePolicyAbort:
	default:
		return fmt.Errorf("unsupported STORE_FAILURE_POLICY %q (expected %q or %q)", c.FailurePolicy, FailurePolicyRespond, FailurePolicyAbort)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q (expected \"text\" or \"json\")", c.LogFormat)
	}

	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}

	return nil
}

func databaseUrl(driver string) (string, error) {
	dbUrl := os.Getenv("DATABASE_URL")
	if dbUrl != "" {
		return dbUrl, nil
	}

	if driver != DriverPostgres {
		return DefaultSqliteUrl, nil
	}

	if os.Getenv("DB_HOST") != "" &&
		os.Getenv("DB_PORT") != "" &&
		os.Getenv("DB_USER") != "" &&
		os.Getenv("DB_PASSWORD") != "" &&
		os.Getenv("DB_NAME") != "" {
		encodedPassword := url.QueryEscape(os.Getenv("DB_PASSWORD"))

		return "postgres://" + os.Getenv("DB_USER") + ":" + encodedPassword + "@" + os.Getenv("DB_HOST") + ":" + os.Getenv("DB_PORT") + "/" + os.Getenv("DB_NAME"), nil
	}

	return "", fmt.Errorf("DATABASE_URL or DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, and DB_NAME environment variables must be set")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
