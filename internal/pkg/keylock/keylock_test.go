package keylock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/funko-battle/internal/pkg/keylock"
)

func TestLock_SerializesSameKey(t *testing.T) {
	locker := keylock.New()

	var (
		inside  int32
		maxSeen int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "acct_1")
			if err != nil {
				t.Error(err)
				return
			}
			defer unlock()

			n := atomic.AddInt32(&inside, 1)
			for {
				cur := atomic.LoadInt32(&maxSeen)
				if n <= cur || atomic.CompareAndSwapInt32(&maxSeen, cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen)
	assert.Equal(t, 0, locker.Len())
}

func TestLock_DifferentKeysDoNotBlock(t *testing.T) {
	locker := keylock.New()

	unlockA := mustLock(t, locker, "acct_a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock, err := locker.Lock(context.Background(), "acct_b")
		if err == nil {
			unlock()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on acct_b waited for acct_a")
	}
}

func TestLock_OppositeOrderDoesNotDeadlock(t *testing.T) {
	locker := keylock.New()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if unlock, err := locker.Lock(context.Background(), "x", "y"); err == nil {
				unlock()
			}
		}()
		go func() {
			defer wg.Done()
			if unlock, err := locker.Lock(context.Background(), "y", "x"); err == nil {
				unlock()
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("deadlock locking keys in opposite order")
	}
}

func TestLock_DuplicateKeysAndDoubleUnlock(t *testing.T) {
	locker := keylock.New()

	unlock := mustLock(t, locker, "acct_1", "acct_1")
	assert.Equal(t, 1, locker.Len())

	unlock()
	unlock()
	assert.Equal(t, 0, locker.Len())

	// still usable afterwards
	mustLock(t, locker, "acct_1")()
}

func TestLock_ContextEndsWhileWaiting(t *testing.T) {
	locker := keylock.New()

	unlockB := mustLock(t, locker, "acct_b")
	defer unlockB()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	unlock, err := locker.Lock(ctx, "acct_a", "acct_b")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, unlock)
	assert.Less(t, time.Since(start), time.Second)

	// acct_a was taken then handed back, only the held key remains
	assert.Equal(t, 1, locker.Len())
	mustLock(t, locker, "acct_a")()
}

func TestLock_CanceledContext(t *testing.T) {
	locker := keylock.New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := locker.Lock(ctx, "acct_1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, locker.Len())
}

func mustLock(t *testing.T, locker *keylock.Locker, keys ...string) func() {
	t.Helper()
	unlock, err := locker.Lock(context.Background(), keys...)
	require.NoError(t, err)
	return unlock
}
