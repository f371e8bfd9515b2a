package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

const (
	tokenKeyPrefix   = "session:token:"
	accountKeyPrefix = "session:account:"
)

// replaceScript runs atomically inside Redis. It deletes the previous token
// key, which it only learns while running, so it needs a single-node Redis.
// KEYS[1] account pointer, KEYS[2] new token record.
// ARGV[1] record JSON, ARGV[2] new token, ARGV[3] token key prefix.
var replaceScript = redis.NewScript(`
local prev = redis.call('GET', KEYS[1])
if prev then
	redis.call('DEL', ARGV[3] .. prev)
end
redis.call('SET', KEYS[2], ARGV[1])
redis.call('SET', KEYS[1], ARGV[2])
return 1
`)

type redisRecord struct {
	AccountID string    `json:"account_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisRepository stores sessions as JSON values keyed by token, plus one
// account -> token pointer per account. Keys never expire on their own.
// Only a single-node client is accepted; see replaceScript.
type RedisRepository struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client, now: time.Now}
}

func tokenKey(token string) string       { return tokenKeyPrefix + token }
func accountKey(accountID string) string { return accountKeyPrefix + accountID }

func (r *RedisRepository) ReplaceActive(ctx context.Context, accountID, token string, expiresAt time.Time) error {
	data, err := json.Marshal(redisRecord{
		AccountID: accountID,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: r.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	keys := []string{accountKey(accountID), tokenKey(token)}
	if err := replaceScript.Run(ctx, r.client, keys, data, token, tokenKeyPrefix).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) FindByToken(ctx context.Context, token string) (*models.SessionRecord, error) {
	val, err := r.client.Get(ctx, tokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	var rec redisRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}

	return &models.SessionRecord{
		Token:     token,
		AccountID: rec.AccountID,
		ExpiresAt: rec.ExpiresAt,
		CreatedAt: rec.CreatedAt,
	}, nil
}
