package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/quizhub-server/internal/model"
)

var _ model.RegistrationStore = (*RegistrationRepository)(nil)

// RegistrationRepository stores pending registrations as JSON under the email.
type RegistrationRepository struct {
	client goredis.UniversalClient
	prefix string
}

func NewRegistrationRepository(client goredis.UniversalClient, prefix string) *RegistrationRepository {
	return &RegistrationRepository{client: client, prefix: prefix}
}

func (r *RegistrationRepository) key(email string) string {
	return key(r.prefix, "signup", email)
}

func (r *RegistrationRepository) Save(ctx context.Context, reg model.PendingRegistration, ttl time.Duration) error {
	data, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to encode registration: %w", err)
	}

	if err := r.client.Set(ctx, r.key(reg.Email), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save registration: %w", err)
	}

	return nil
}

func (r *RegistrationRepository) Replace(ctx context.Context, reg model.PendingRegistration, ttl time.Duration) error {
	data, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to encode registration: %w", err)
	}

	ok, err := r.client.SetXX(ctx, r.key(reg.Email), data, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to replace registration: %w", err)
	}
	if !ok {
		return model.ErrNotFound
	}

	return nil
}

func (r *RegistrationRepository) Get(ctx context.Context, email string) (model.PendingRegistration, error) {
	data, err := r.client.Get(ctx, r.key(email)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return model.PendingRegistration{}, model.ErrNotFound
		}
		return model.PendingRegistration{}, fmt.Errorf("failed to get registration: %w", err)
	}

	var reg model.PendingRegistration
	if err := json.Unmarshal(data, &reg); err != nil {
		return model.PendingRegistration{}, fmt.Errorf("failed to decode registration: %w", err)
	}

	return reg, nil
}

func (r *RegistrationRepository) Delete(ctx context.Context, email string) error {
	if err := r.client.Del(ctx, r.key(email)).Err(); err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	return nil
}
