package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCompositeHealthChecker_NoChecks(t *testing.T) {
	status := NewCompositeHealthChecker("v1").Check(context.Background())

	assert.True(t, status.Healthy)
	assert.True(t, status.Ready)
	assert.Equal(t, "v1", status.Version)
}

func TestCompositeHealthChecker_RequiredFailure(t *testing.T) {
	c := NewCompositeHealthChecker("v1")
	c.AddCheck("postgres", NewPingCheck(pingFunc(func(context.Context) error { return errors.New("refused") })))
	c.AddOptionalCheck("redis", NewPingCheck(pingFunc(func(context.Context) error { return nil })))

	status := c.Check(context.Background())

	assert.False(t, status.Healthy)
	assert.False(t, status.Ready)
	require.Contains(t, status.Checks, "postgres")
	assert.Equal(t, "refused", status.Checks["postgres"].Message)
	assert.True(t, status.Checks["redis"].Healthy)
	assert.Equal(t, "Some checks failed: postgres", status.Message)
}

func TestCompositeHealthChecker_OptionalFailureDegrades(t *testing.T) {
	c := NewCompositeHealthChecker("v1")
	c.AddCheck("postgres", func(context.Context) error { return nil })
	c.AddOptionalCheck("redis", func(context.Context) error { return errors.New("timeout") })
	c.AddOptionalCheck("assistant", func(context.Context) error { return errors.New("circuit open") })

	status := c.Check(context.Background())

	assert.True(t, status.Healthy)
	assert.True(t, status.Ready)
	assert.Equal(t, "Degraded: assistant, redis", status.Message)
	assert.True(t, status.Checks["redis"].Optional)
}

func TestCompositeHealthChecker_Timeout(t *testing.T) {
	c := NewCompositeHealthChecker("v1")
	c.SetTimeout(10 * time.Millisecond)
	c.AddCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	status := c.Check(context.Background())

	assert.False(t, status.Healthy)
	assert.Equal(t, context.DeadlineExceeded.Error(), status.Checks["slow"].Message)
}
