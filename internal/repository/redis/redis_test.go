package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/quizhub-server/internal/model"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func pending(otp string) model.PendingRegistration {
	return model.PendingRegistration{
		Name:         "Alice",
		Email:        "a@x.com",
		PasswordHash: "$argon2id$hash",
		Role:         model.RoleUser,
		OTP:          otp,
	}
}

func TestNewClient(t *testing.T) {
	mr, _ := newTestRedis(t)

	client, err := NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	_ = client.Close()

	_, err = NewClient(context.Background(), "not a url")
	require.Error(t, err)
}

func TestRegistrationRepository_SaveGet(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	repo := NewRegistrationRepository(client, "quizhub")

	require.NoError(t, repo.Save(ctx, pending("123456"), 5*time.Minute))
	assert.True(t, mr.Exists("quizhub:signup:a@x.com"))
	assert.Equal(t, 5*time.Minute, mr.TTL("quizhub:signup:a@x.com"))

	got, err := repo.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, pending("123456"), got)
}

func TestRegistrationRepository_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	repo := NewRegistrationRepository(client, "quizhub")

	require.NoError(t, repo.Save(ctx, pending("111111"), time.Minute))
	require.NoError(t, repo.Save(ctx, pending("222222"), time.Minute))

	got, err := repo.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", got.OTP)
}

func TestRegistrationRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	repo := NewRegistrationRepository(client, "quizhub")

	require.NoError(t, repo.Save(ctx, pending("123456"), 5*time.Minute))
	mr.FastForward(5*time.Minute + time.Second)

	_, err := repo.Get(ctx, "a@x.com")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestRegistrationRepository_Replace(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	repo := NewRegistrationRepository(client, "quizhub")

	t.Run("missing", func(t *testing.T) {
		err := repo.Replace(ctx, pending("654321"), 5*time.Minute)
		require.ErrorIs(t, err, model.ErrNotFound)
		assert.False(t, mr.Exists("quizhub:signup:a@x.com"))
	})

	t.Run("resets ttl", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, pending("123456"), 5*time.Minute))
		mr.FastForward(4 * time.Minute)

		require.NoError(t, repo.Replace(ctx, pending("654321"), 5*time.Minute))
		assert.Equal(t, 5*time.Minute, mr.TTL("quizhub:signup:a@x.com"))

		got, err := repo.Get(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "654321", got.OTP)
	})
}

func TestRegistrationRepository_Delete(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	repo := NewRegistrationRepository(client, "quizhub")

	require.NoError(t, repo.Save(ctx, pending("123456"), time.Minute))
	require.NoError(t, repo.Delete(ctx, "a@x.com"))

	_, err := repo.Get(ctx, "a@x.com")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestRegistrationRepository_Unavailable(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	repo := NewRegistrationRepository(client, "quizhub")
	mr.Close()

	err := repo.Save(ctx, pending("123456"), time.Minute)
	require.Error(t, err)

	_, err = repo.Get(ctx, "a@x.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)
}

func TestResetTokenRepository(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	repo := NewResetTokenRepository(client, "quizhub")

	require.NoError(t, repo.Save(ctx, "tok", "a@x.com", 5*time.Minute))
	assert.Equal(t, 5*time.Minute, mr.TTL("quizhub:reset:tok"))

	email, err := repo.Consume(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
	assert.False(t, mr.Exists("quizhub:reset:tok"))

	_, err = repo.Consume(ctx, "tok")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestResetTokenRepository_ConsumeOnce(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	repo := NewResetTokenRepository(client, "quizhub")
	require.NoError(t, repo.Save(ctx, "tok", "a@x.com", 5*time.Minute))

	const n = 8
	var (
		wg       sync.WaitGroup
		consumed atomic.Int32
		notFound atomic.Int32
	)
	start := make(chan struct{})
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := repo.Consume(ctx, "tok")
			switch {
			case err == nil:
				consumed.Add(1)
			case errors.Is(err, model.ErrNotFound):
				notFound.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), consumed.Load())
	assert.Equal(t, int32(n-1), notFound.Load())
}

func TestResetTokenRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	repo := NewResetTokenRepository(client, "quizhub")

	require.NoError(t, repo.Save(ctx, "tok", "a@x.com", 5*time.Minute))
	mr.FastForward(6 * time.Minute)

	_, err := repo.Consume(ctx, "tok")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestPinger(t *testing.T) {
	mr, client := newTestRedis(t)
	p := NewPinger(client)

	require.NoError(t, p.Ping(context.Background()))

	mr.Close()
	assert.Error(t, p.Ping(context.Background()))
}
