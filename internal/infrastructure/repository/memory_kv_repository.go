package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/sangkips/receipt-studio/internal/domain/repository"
)

// MemoryKVRepository keeps values in process memory. The quota applies to the
// sum of all stored values, the way a browser caps local storage per origin.
type MemoryKVRepository struct {
	mu         sync.RWMutex
	values     map[string][]byte
	used       int64
	quotaBytes int64
}

// NewMemoryKVRepository creates an in-memory key-value repository. A
// quotaBytes of zero means unlimited.
func NewMemoryKVRepository(quotaBytes int64) *MemoryKVRepository {
	return &MemoryKVRepository{
		values:     make(map[string][]byte),
		quotaBytes: quotaBytes,
	}
}

func (r *MemoryKVRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (r *MemoryKVRepository) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	used := r.used - int64(len(r.values[key])) + int64(len(value))
	if r.quotaBytes > 0 && used > r.quotaBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", repository.ErrQuotaExceeded, used, r.quotaBytes)
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	r.values[key] = stored
	r.used = used
	return nil
}

func (r *MemoryKVRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.used -= int64(len(r.values[key]))
	delete(r.values, key)
	return nil
}

// Used returns the number of bytes currently stored.
func (r *MemoryKVRepository) Used() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.used
}
