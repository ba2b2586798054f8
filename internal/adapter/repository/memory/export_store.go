package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iho/ledgerrange/internal/domain"
)

// Default limits of NewExportStore.
const (
	DefaultMaxEntries       = 64
	DefaultMaxBytes   int64 = 256 << 20
)

// Limits bounds the store. Zero or negative values disable a limit.
type Limits struct {
	MaxEntries int
	MaxBytes   int64
}

type item struct {
	data      []byte
	expiresAt time.Time
	seq       uint64
}

// ExportStore implements usecase.ExportStore in process memory. Used when no
// Redis URL is configured. Once a limit is reached the oldest entries are
// evicted on Save.
type ExportStore struct {
	mu     sync.Mutex
	items  map[string]item
	bytes  int64
	seq    uint64
	limits Limits
	now    func() time.Time
}

// NewExportStore creates an ExportStore with the default limits.
func NewExportStore() *ExportStore {
	return NewExportStoreWithLimits(Limits{MaxEntries: DefaultMaxEntries, MaxBytes: DefaultMaxBytes})
}

// NewExportStoreWithLimits creates an ExportStore bounded by limits.
func NewExportStoreWithLimits(limits Limits) *ExportStore {
	return &ExportStore{
		items:  make(map[string]item),
		limits: limits,
		now:    time.Now,
	}
}

// Save stores a copy of data under token. A non-positive ttl never expires.
// An entry larger than MaxBytes is still kept, alone.
func (s *ExportStore) Save(ctx context.Context, token string, data []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()
	s.remove(token)

	for len(s.items) > 0 && !s.fits(int64(len(buf))) {
		s.evictOldest()
	}

	s.seq++
	s.items[token] = item{data: buf, expiresAt: expiresAt, seq: s.seq}
	s.bytes += int64(len(buf))
	return nil
}

// Load returns the bytes stored under token.
func (s *ExportStore) Load(ctx context.Context, token string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[token]
	if !ok || s.expired(it) {
		s.remove(token)
		return nil, domain.ErrExportNotFound
	}
	return it.data, nil
}

// Ping always succeeds.
func (s *ExportStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len returns the number of live entries.
func (s *ExportStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()
	return len(s.items)
}

// Size returns the bytes held by live entries.
func (s *ExportStore) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()
	return s.bytes
}

func (s *ExportStore) expired(it item) bool {
	return !it.expiresAt.IsZero() && !s.now().Before(it.expiresAt)
}

// The helpers below must be called with mu held.

func (s *ExportStore) fits(n int64) bool {
	if s.limits.MaxEntries > 0 && len(s.items)+1 > s.limits.MaxEntries {
		return false
	}
	if s.limits.MaxBytes > 0 && s.bytes+n > s.limits.MaxBytes {
		return false
	}
	return true
}

func (s *ExportStore) remove(token string) {
	if it, ok := s.items[token]; ok {
		s.bytes -= int64(len(it.data))
		delete(s.items, token)
	}
}

func (s *ExportStore) evictOldest() {
	var (
		oldest string
		minSeq uint64
		found  bool
	)
	for k, it := range s.items {
		if !found || it.seq < minSeq {
			oldest, minSeq, found = k, it.seq, true
		}
	}
	if found {
		s.remove(oldest)
	}
}

func (s *ExportStore) evictExpired() {
	for k, it := range s.items {
		if s.expired(it) {
			s.remove(k)
		}
	}
}
