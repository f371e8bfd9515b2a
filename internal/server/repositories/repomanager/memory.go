package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/sessions"
)

// InMemoryRepositoryManager keeps everything in process memory.
// Data is lost on restart.
type InMemoryRepositoryManager struct {
	accounts *accounts.MemoryRepository
	sessions *sessions.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		accounts: accounts.NewMemoryRepository(),
		sessions: sessions.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Accounts() accounts.Repository { return m.accounts }

func (m *InMemoryRepositoryManager) Sessions() sessions.Repository { return m.sessions }
