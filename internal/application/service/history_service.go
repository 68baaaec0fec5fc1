package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sangkips/receipt-studio/internal/config"
	"github.com/sangkips/receipt-studio/internal/domain/entity"
	"github.com/sangkips/receipt-studio/internal/domain/repository"
	"github.com/sangkips/receipt-studio/pkg/apperror"
	"github.com/sangkips/receipt-studio/pkg/money"
	"go.uber.org/zap"
)

// TimestampLayout is the human readable save time shown in history lists.
const TimestampLayout = "1/2/2006, 3:04:05 PM"

const DeletePrompt = "Delete this receipt from history?"

// HistoryStore keeps the most recent saved receipts, newest first, in one
// key-value record. The record is read once; afterwards the in-memory list
// is authoritative and every change rewrites the whole record.
type HistoryStore struct {
	mu       sync.Mutex
	repo     repository.KVRepository
	key      string
	capacity int
	node     *snowflake.Node
	now      func() time.Time
	log      *zap.SugaredLogger

	loaded  bool
	entries []entity.HistoryEntry
}

type HistoryOption func(*HistoryStore)

func WithHistoryClock(now func() time.Time) HistoryOption {
	return func(s *HistoryStore) { s.now = now }
}

func NewHistoryStore(repo repository.KVRepository, cfg config.HistoryConfig, log *zap.SugaredLogger, opts ...HistoryOption) (*HistoryStore, error) {
	if repo == nil {
		return nil, errors.New("history: key-value repository is required")
	}
	if cfg.Capacity < 1 {
		return nil, fmt.Errorf("history: capacity must be at least 1, got %d", cfg.Capacity)
	}
	if cfg.Key == "" {
		return nil, errors.New("history: storage key is required")
	}
	node, err := snowflake.NewNode(cfg.NodeID)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	s := &HistoryStore{
		repo:     repo,
		key:      cfg.Key,
		capacity: cfg.Capacity,
		node:     node,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Capacity is the maximum number of entries kept.
func (s *HistoryStore) Capacity() int { return s.capacity }

// ensureLoaded reads the record on first use. Missing or corrupt data starts
// an empty history. A failed read leaves the store unloaded so the next call
// retries and nothing overwrites the stored record. Callers hold mu.
func (s *HistoryStore) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	raw, ok, err := s.repo.Get(context.WithoutCancel(ctx), s.key)
	if err != nil {
		s.log.Warnw("history: read failed", "key", s.key, "error", err)
		return err
	}

	var entries []entity.HistoryEntry
	if ok {
		if err := json.Unmarshal(raw, &entries); err != nil {
			s.log.Warnw("history: discarding unreadable record", "key", s.key, "error", err)
			entries = nil
		}
		if len(entries) > s.capacity {
			entries = entries[:s.capacity]
		}
	}
	s.entries = entries
	s.loaded = true
	return nil
}

// persist writes the in-memory list. Callers hold mu.
func (s *HistoryStore) persist(ctx context.Context) error {
	entries := s.entries
	if entries == nil {
		entries = []entity.HistoryEntry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.repo.Set(ctx, s.key, b)
}

// Save records a snapshot of r as the newest entry, evicting the oldest
// beyond capacity. When storage rejects the write the entry is still
// returned and kept in memory, with an error wrapping
// apperror.ErrHistoryNotPersisted. When the existing record cannot be read
// the entry is returned with the same error and nothing is written.
func (s *HistoryStore) Save(ctx context.Context, r entity.Receipt) (entity.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loadErr := s.ensureLoaded(ctx)

	totals := ComputeTotals(r)
	entry := entity.HistoryEntry{
		ID:        s.node.Generate(),
		Timestamp: s.now().Format(TimestampLayout),
		Total:     money.Fixed(totals.Total.Round(2)),
		Receipt:   r.Clone(),
	}
	if loadErr != nil {
		return entry.Clone(), fmt.Errorf("%w: %w", apperror.ErrHistoryNotPersisted, loadErr)
	}

	entries := make([]entity.HistoryEntry, 0, len(s.entries)+1)
	entries = append(entries, entry)
	entries = append(entries, s.entries...)
	if len(entries) > s.capacity {
		entries = entries[:s.capacity]
	}
	s.entries = entries

	if err := s.persist(ctx); err != nil {
		s.log.Warnw("history: save not persisted", "id", entry.ID.String(), "error", err)
		return entry.Clone(), fmt.Errorf("%w: %w", apperror.ErrHistoryNotPersisted, err)
	}
	return entry.Clone(), nil
}

// List returns deep copies of all entries, newest first. It never fails.
func (s *HistoryStore) List(ctx context.Context) []entity.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ensureLoaded(ctx) != nil {
		return []entity.HistoryEntry{}
	}

	out := make([]entity.HistoryEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Clone()
	}
	return out
}

func (s *HistoryStore) GetByID(ctx context.Context, id snowflake.ID) (entity.HistoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ensureLoaded(ctx) != nil {
		return entity.HistoryEntry{}, false
	}

	for _, e := range s.entries {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return entity.HistoryEntry{}, false
}

// DeleteByID removes the entry with id once confirmer approves. Unknown ids
// are a no-op. A failed rewrite is reported but the entry stays removed.
func (s *HistoryStore) DeleteByID(ctx context.Context, id snowflake.ID, confirmer Confirmer) error {
	if confirmer == nil || !confirmer.Confirm(ctx, DeletePrompt) {
		return apperror.NewConfirmationError(DeletePrompt)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrHistoryNotPersisted, err)
	}

	idx := -1
	for i, e := range s.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	s.entries = append(s.entries[:idx:idx], s.entries[idx+1:]...)

	if err := s.persist(ctx); err != nil {
		s.log.Warnw("history: delete not persisted", "id", id.String(), "error", err)
		return fmt.Errorf("%w: %w", apperror.ErrHistoryNotPersisted, err)
	}
	return nil
}
