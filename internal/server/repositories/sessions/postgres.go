package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// DB is what the postgres store needs: plain queries plus transactions.
// *sql.DB satisfies it.
type DB interface {
	dbx.DBTX
	dbx.TxBeginner
}

type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ReplaceActive locks the owning account row so that concurrent
// replacements for one account run one after another, then swaps the
// session inside the same transaction.
func (r *PostgresRepository) ReplaceActive(ctx context.Context, accountID, token string, expiresAt time.Time) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE id = $1 FOR UPDATE`, accountID).Scan(&one)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("db error: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE account_id = $1`, accountID); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		query := `
			INSERT INTO sessions (token, account_id, expires_at)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, query, token, accountID, expiresAt.UTC()); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.SessionRecord, error) {
	query := `
		SELECT token, account_id, expires_at, created_at
		FROM sessions
		WHERE token = $1
	`
	rec := &models.SessionRecord{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&rec.Token, &rec.AccountID, &rec.ExpiresAt, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}
