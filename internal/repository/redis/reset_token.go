package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/quizhub-server/internal/model"
)

var _ model.ResetTokenStore = (*ResetTokenRepository)(nil)

// ResetTokenRepository maps password reset tokens to the email they reset.
type ResetTokenRepository struct {
	client goredis.UniversalClient
	prefix string
}

func NewResetTokenRepository(client goredis.UniversalClient, prefix string) *ResetTokenRepository {
	return &ResetTokenRepository{client: client, prefix: prefix}
}

func (r *ResetTokenRepository) key(token string) string {
	return key(r.prefix, "reset", token)
}

func (r *ResetTokenRepository) Save(ctx context.Context, token, email string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(token), email, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}
	return nil
}

// Consume reads and deletes the token with GETDEL, so concurrent resets
// with the same token see it at most once.
func (r *ResetTokenRepository) Consume(ctx context.Context, token string) (string, error) {
	email, err := r.client.GetDel(ctx, r.key(token)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to consume reset token: %w", err)
	}
	return email, nil
}
