package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingWithRetry_EventuallySucceeds(t *testing.T) {
	calls := 0
	ping := func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}

	err := pingWithRetry(context.Background(), ping, 5, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPingWithRetry_GivesUp(t *testing.T) {
	calls := 0
	ping := func(ctx context.Context) error {
		calls++
		return errors.New("connection refused")
	}

	err := pingWithRetry(context.Background(), ping, 3, time.Millisecond)

	assert.EqualError(t, err, "connection refused")
	assert.Equal(t, 3, calls)
}

func TestPingWithRetry_SingleAttemptByDefault(t *testing.T) {
	calls := 0
	ping := func(ctx context.Context) error {
		calls++
		return errors.New("down")
	}

	assert.Error(t, pingWithRetry(context.Background(), ping, 0, 0))
	assert.Equal(t, 1, calls)
}

func TestPingWithRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ping := func(ctx context.Context) error {
		cancel()
		return errors.New("down")
	}

	err := pingWithRetry(ctx, ping, 10, time.Hour)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewPool_InvalidURL(t *testing.T) {
	_, err := NewPool(context.Background(), Config{URL: "postgres://bad%zzuser@localhost:5432/db"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse database config")
}
