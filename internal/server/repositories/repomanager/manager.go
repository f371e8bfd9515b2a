// Package repomanager hands out repository implementations for the
// configured storage backend and prepares that backend for use.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/sessions"
)

type RepositoryManager interface {
	// RunMigrations brings the backing schema up to date. A no-op where
	// the backend has no schema.
	RunMigrations(ctx context.Context) error
	Accounts() accounts.Repository
	Sessions() sessions.Repository
}
