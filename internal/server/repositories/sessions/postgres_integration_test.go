//go:build integration

package sessions_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("gophauth_test"),
		postgres.WithUsername("gophauth"),
		postgres.WithPassword("gophauth"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestPostgresReplaceActive_ConcurrentSingleSession(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	m := repomanager.NewPostgresRepositoryManager(db)
	require.NoError(t, m.RunMigrations(ctx))

	acc, err := m.Accounts().Create(ctx, &models.Account{Email: "race@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	const n = 20
	exp := time.Now().Add(time.Hour)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		tok := fmt.Sprintf("tok-%d", i)
		g.Go(func() error {
			return m.Sessions().ReplaceActive(gctx, acc.ID, tok, exp)
		})
	}
	require.NoError(t, g.Wait())

	var count int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT count(*) FROM sessions WHERE account_id = $1`, acc.ID).Scan(&count))
	assert.Equal(t, 1, count)

	var tok string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT token FROM sessions WHERE account_id = $1`, acc.ID).Scan(&tok))
	rec, err := m.Sessions().FindByToken(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, rec.AccountID)
}
