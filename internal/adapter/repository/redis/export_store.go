package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/ledgerrange/internal/domain"
)

// ExportStore implements usecase.ExportStore using Redis.
type ExportStore struct {
	client *redis.Client
	prefix string
}

// NewExportStore creates a new ExportStore.
func NewExportStore(client *redis.Client) *ExportStore {
	return &ExportStore{
		client: client,
		prefix: "export:",
	}
}

// Save stores the workbook bytes under token with TTL.
func (s *ExportStore) Save(ctx context.Context, token string, data []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+token, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save export %s: %w", token, err)
	}
	return nil
}

// Load retrieves the workbook bytes stored under token.
func (s *ExportStore) Load(ctx context.Context, token string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrExportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load export %s: %w", token, err)
	}
	return data, nil
}

// Ping checks the connection.
func (s *ExportStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
