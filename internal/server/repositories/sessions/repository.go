// Package sessions persists refresh-token sessions. Every backend keeps at
// most one active record per account.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository is the session store.
type Repository interface {
	// ReplaceActive atomically drops whatever session the account holds and
	// stores token as its only one. Concurrent calls for the same account
	// are serialised; the last one to commit wins.
	ReplaceActive(ctx context.Context, accountID, token string, expiresAt time.Time) error
	// FindByToken returns common.ErrorNotFound when no record holds token.
	// Expired records are returned as is; nothing is swept.
	FindByToken(ctx context.Context, token string) (*models.SessionRecord, error)
}
