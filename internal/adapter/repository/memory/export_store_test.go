package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iho/ledgerrange/internal/domain"
)

func TestExportStore_SaveLoad(t *testing.T) {
	s := NewExportStore()
	ctx := context.Background()

	data := []byte("workbook")
	if err := s.Save(ctx, "a", data, time.Minute); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	data[0] = 'X'

	got, err := s.Load(ctx, "a")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(got) != "workbook" {
		t.Fatalf("expected stored copy to be isolated from caller, got %q", got)
	}
}

func TestExportStore_Expiry(t *testing.T) {
	s := NewExportStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_ = s.Save(ctx, "short", []byte("1"), time.Minute)
	_ = s.Save(ctx, "forever", []byte("2"), 0)

	now = now.Add(time.Minute)

	if _, err := s.Load(ctx, "short"); !errors.Is(err, domain.ErrExportNotFound) {
		t.Fatalf("expected expired entry to be gone, got %v", err)
	}
	if _, err := s.Load(ctx, "forever"); err != nil {
		t.Fatalf("expected entry without ttl to survive, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 live entry, got %d", s.Len())
	}
}

func TestExportStore_Missing(t *testing.T) {
	if _, err := NewExportStore().Load(context.Background(), "nope"); !errors.Is(err, domain.ErrExportNotFound) {
		t.Fatalf("expected ErrExportNotFound, got %v", err)
	}
}

func TestExportStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewExportStore()
	if err := s.Save(ctx, "a", nil, time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := s.Ping(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExportStore_Concurrent(t *testing.T) {
	s := NewExportStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token := string(rune('a' + i%26))
			_ = s.Save(ctx, token, []byte{byte(i)}, time.Minute)
			_, _ = s.Load(ctx, token)
		}(i)
	}
	wg.Wait()

	if s.Len() != 26 {
		t.Fatalf("expected 26 distinct tokens, got %d", s.Len())
	}
}

func TestExportStore_EvictsOldestPastMaxEntries(t *testing.T) {
	s := NewExportStoreWithLimits(Limits{MaxEntries: 3})
	ctx := context.Background()

	for _, token := range []string{"a", "b", "c", "d", "e"} {
		if err := s.Save(ctx, token, []byte(token), time.Minute); err != nil {
			t.Fatalf("save %s failed: %v", token, err)
		}
	}

	if s.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", s.Len())
	}
	for _, token := range []string{"a", "b"} {
		if _, err := s.Load(ctx, token); !errors.Is(err, domain.ErrExportNotFound) {
			t.Fatalf("expected %s to be evicted, got %v", token, err)
		}
	}
	for _, token := range []string{"c", "d", "e"} {
		if _, err := s.Load(ctx, token); err != nil {
			t.Fatalf("expected %s to be kept, got %v", token, err)
		}
	}
}

func TestExportStore_EvictsOldestPastMaxBytes(t *testing.T) {
	s := NewExportStoreWithLimits(Limits{MaxBytes: 10})
	ctx := context.Background()

	_ = s.Save(ctx, "a", make([]byte, 4), time.Minute)
	_ = s.Save(ctx, "b", make([]byte, 4), time.Minute)
	_ = s.Save(ctx, "c", make([]byte, 4), time.Minute)

	if s.Len() != 2 || s.Size() != 8 {
		t.Fatalf("expected 2 entries / 8 bytes, got %d / %d", s.Len(), s.Size())
	}
	if _, err := s.Load(ctx, "a"); !errors.Is(err, domain.ErrExportNotFound) {
		t.Fatalf("expected oldest entry to be evicted, got %v", err)
	}

	_ = s.Save(ctx, "big", make([]byte, 32), time.Minute)
	if s.Len() != 1 || s.Size() != 32 {
		t.Fatalf("expected oversized entry to be kept alone, got %d / %d", s.Len(), s.Size())
	}
}

func TestExportStore_OverwriteKeepsAccounting(t *testing.T) {
	s := NewExportStoreWithLimits(Limits{MaxEntries: 2, MaxBytes: 100})
	ctx := context.Background()

	_ = s.Save(ctx, "a", make([]byte, 10), time.Minute)
	_ = s.Save(ctx, "a", make([]byte, 20), time.Minute)
	_ = s.Save(ctx, "b", make([]byte, 5), time.Minute)

	if s.Len() != 2 || s.Size() != 25 {
		t.Fatalf("expected 2 entries / 25 bytes, got %d / %d", s.Len(), s.Size())
	}
}
