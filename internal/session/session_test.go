package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingUpstream struct {
	logins atomic.Int64
	err    error
}

func (c *countingUpstream) Login(context.Context) error {
	c.logins.Add(1)
	return c.err
}

func TestEnsureLogsInOnce(t *testing.T) {
	upstream := &countingUpstream{}
	manager := NewManager(upstream, zap.NewNop())

	require.False(t, manager.Authenticated())
	require.NoError(t, manager.Ensure(context.Background()))
	require.NoError(t, manager.Ensure(context.Background()))
	require.NoError(t, manager.Ensure(context.Background()))

	require.True(t, manager.Authenticated())
	require.Equal(t, int64(1), upstream.logins.Load())
}

func TestEnsureConcurrentCallersShareOneLogin(t *testing.T) {
	upstream := &countingUpstream{}
	manager := NewManager(upstream, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, manager.Ensure(context.Background()))
		}()
	}
	wg.Wait()

	require.Equal(t, int64(1), upstream.logins.Load())
}

func TestEnsurePropagatesLoginFailureWithoutRetry(t *testing.T) {
	upstream := &countingUpstream{err: errors.New("bad credentials")}
	manager := NewManager(upstream, zap.NewNop())

	err := manager.Ensure(context.Background())
	require.Error(t, err)
	require.False(t, manager.Authenticated())
	require.Equal(t, int64(1), upstream.logins.Load())

	// The failure is not cached: the next call tries again.
	upstream.err = nil
	require.NoError(t, manager.Ensure(context.Background()))
	require.Equal(t, int64(2), upstream.logins.Load())
}

func TestResetForcesExactlyOneNewLogin(t *testing.T) {
	upstream := &countingUpstream{}
	manager := NewManager(upstream, zap.NewNop())

	require.NoError(t, manager.Ensure(context.Background()))
	manager.Reset()
	require.False(t, manager.Authenticated())

	require.NoError(t, manager.Ensure(context.Background()))
	require.NoError(t, manager.Ensure(context.Background()))
	require.Equal(t, int64(2), upstream.logins.Load())
}
