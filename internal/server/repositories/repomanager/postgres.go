package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/gophauth/internal/server/migrations"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/sessions"
)

// PostgresRepositoryManager keeps accounts in PostgreSQL. Sessions live in
// PostgreSQL too unless a Redis client is supplied.
type PostgresRepositoryManager struct {
	db       *sql.DB
	accounts *accounts.PostgresRepository
	sessions sessions.Repository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// NewPostgresRepositoryManager binds PostgreSQL repositories to db.
func NewPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{
		db:       db,
		accounts: accounts.NewPostgresRepository(db),
		sessions: sessions.NewPostgresRepository(db),
	}
}

// NewPostgresRedisRepositoryManager keeps accounts in db and sessions in rdb.
func NewPostgresRedisRepositoryManager(db *sql.DB, rdb *redis.Client) *PostgresRepositoryManager {
	m := NewPostgresRepositoryManager(db)
	m.sessions = sessions.NewRedisRepository(rdb)
	return m
}

// RunMigrations applies the embedded goose migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, ".")
}

func (m *PostgresRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *PostgresRepositoryManager) Sessions() sessions.Repository {
	return m.sessions
}
