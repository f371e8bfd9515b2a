package sessions

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

func TestMemoryReplaceActive_KeepsOnePerAccount(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, r.ReplaceActive(ctx, "acc-1", "a", exp))
	require.NoError(t, r.ReplaceActive(ctx, "acc-1", "b", exp))
	require.NoError(t, r.ReplaceActive(ctx, "acc-2", "c", exp))

	_, err := r.FindByToken(ctx, "a")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	rec, err := r.FindByToken(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", rec.AccountID)
	assert.Equal(t, 2, r.Len())
}

func TestMemoryReplaceActive_ConcurrentSameAccount(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	exp := time.Now().Add(time.Hour)

	const n = 32
	var g errgroup.Group
	for i := 0; i < n; i++ {
		tok := fmt.Sprintf("tok-%d", i)
		g.Go(func() error {
			if err := r.ReplaceActive(ctx, "acc-1", tok, exp); err != nil {
				return err
			}
			_, _ = r.FindByToken(ctx, tok)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 1, r.Len())

	found := 0
	for i := 0; i < n; i++ {
		if _, err := r.FindByToken(ctx, fmt.Sprintf("tok-%d", i)); err == nil {
			found++
		}
	}
	assert.Equal(t, 1, found)
}
