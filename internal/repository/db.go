package repository

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	_ "github.com/lib/pq"
)

type Config struct {
	Driver   string `env:"DRIVER" envDefault:"postgres"`
	Host     string `env:"DB_HOST"`
	Port     string `env:"DB_PORT"`
	Username string `env:"DB_USERNAME"`
	Password string `env:"DB_PASSWORD"`
	DBName   string `env:"DB_NAME"`
	SSLMode  string `env:"DB_SSLMODE"`

	SQLitePath          string `env:"SQLITE_PATH" envDefault:"linkbridge.db"`
	SQLiteBusyTimeoutMs int    `env:"SQLITE_BUSY_TIMEOUT_MS" envDefault:"5000"`
}

type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

func (d Dialect) String() string {
	if d == DialectSQLite {
		return "sqlite"
	}
	return "postgres"
}

// OpenDB connects to the backend selected by cfg.Driver.
func OpenDB(cfg *Config) (*sql.DB, Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "postgres", "postgresql":
		db, err := NewPostgresDB(cfg)
		return db, DialectPostgres, err
	case "sqlite":
		db, err := NewSQLiteDB(cfg.SQLitePath, cfg.SQLiteBusyTimeoutMs)
		return db, DialectSQLite, err
	default:
		return nil, 0, fmt.Errorf("unsupported repo driver: %s", cfg.Driver)
	}
}

func NewPostgresDB(cfg *Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.DBName, cfg.Password, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// NewSQLiteDB opens a SQLite file in WAL mode. A single connection is kept
// so writers never contend for the database lock.
func NewSQLiteDB(path string, busyTimeoutMs int) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}

	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	if busyTimeoutMs > 0 {
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeoutMs))
	}
	dsn := path + "?" + q.Encode()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// rebind rewrites ? placeholders into the $N form Postgres expects.
func rebind(d Dialect, query string) string {
	if d != DialectPostgres {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&sb, "$%d", n)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
