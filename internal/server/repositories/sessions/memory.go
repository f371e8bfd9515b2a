package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// MemoryRepository keeps sessions in process memory. Safe for concurrent use.
type MemoryRepository struct {
	mu        sync.RWMutex
	byToken   map[string]models.SessionRecord
	byAccount map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byToken:   make(map[string]models.SessionRecord),
		byAccount: make(map[string]string),
	}
}

func (r *MemoryRepository) ReplaceActive(_ context.Context, accountID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byAccount[accountID]; ok {
		delete(r.byToken, prev)
	}
	r.byToken[token] = models.SessionRecord{
		Token:     token,
		AccountID: accountID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	r.byAccount[accountID] = token
	return nil
}

func (r *MemoryRepository) FindByToken(_ context.Context, token string) (*models.SessionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &rec, nil
}

// Len reports how many session records are stored.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byToken)
}
