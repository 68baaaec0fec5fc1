package repository

import (
	"context"
	"testing"

	"github.com/sangkips/receipt-studio/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKVRepository_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryKVRepository(0)

	_, ok, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, "k", []byte(`[1,2]`)))
	v, ok, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1,2]`, string(v))

	require.NoError(t, repo.Delete(ctx, "k"))
	_, ok, _ = repo.Get(ctx, "k")
	assert.False(t, ok)
	assert.Zero(t, repo.Used())
}

func TestMemoryKVRepository_ReturnedValueIsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryKVRepository(0)
	in := []byte("abc")
	require.NoError(t, repo.Set(ctx, "k", in))
	in[0] = 'z'

	v, _, _ := repo.Get(ctx, "k")
	v[1] = 'z'

	again, _, _ := repo.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryKVRepository_Quota(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryKVRepository(10)

	require.NoError(t, repo.Set(ctx, "a", []byte("12345")))
	require.NoError(t, repo.Set(ctx, "b", []byte("12345")))

	err := repo.Set(ctx, "c", []byte("1"))
	assert.ErrorIs(t, err, repository.ErrQuotaExceeded)

	// replacing a value only counts the difference
	require.NoError(t, repo.Set(ctx, "a", []byte("1234")))
	assert.Equal(t, int64(9), repo.Used())

	err = repo.Set(ctx, "a", []byte("1234567"))
	assert.ErrorIs(t, err, repository.ErrQuotaExceeded)
	v, _, _ := repo.Get(ctx, "a")
	assert.Equal(t, "1234", string(v))
}
