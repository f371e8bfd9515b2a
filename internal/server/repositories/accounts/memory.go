package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// MemoryRepository keeps accounts in process memory. Safe for concurrent use.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.Account
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]models.Account),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(_ context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[account.Email]; taken {
		return nil, common.ErrDuplicateKey
	}

	account.ID = uuid.NewString()
	account.CreatedAt = time.Now().UTC()
	r.byID[account.ID] = *account
	r.byEmail[account.Email] = account.ID

	return account, nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a := r.byID[id]
	return &a, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}
