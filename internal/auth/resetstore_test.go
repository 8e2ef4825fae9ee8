package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetIssueRedeemOnce(t *testing.T) {
	store := NewResetStore(time.Hour)

	token, err := store.Issue("user-42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := store.Redeem(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)

	_, err = store.Redeem(token)
	assert.ErrorIs(t, err, ErrResetTokenNotFound, "second redemption must fail")
}

func TestResetRedeemUnknownToken(t *testing.T) {
	store := NewResetStore(time.Hour)

	_, err := store.Redeem("no-such-token")
	assert.ErrorIs(t, err, ErrResetTokenNotFound)
}

func TestResetExpiredTokenIsRemovedLazily(t *testing.T) {
	store := NewResetStore(time.Hour)

	token, err := store.Issue("user-42")
	require.NoError(t, err)

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = store.Redeem(token)
	assert.ErrorIs(t, err, ErrResetTokenExpired)

	// The expiry check deletes the entry, so a second probe reports absence.
	_, err = store.Redeem(token)
	assert.ErrorIs(t, err, ErrResetTokenNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestResetNewIssuanceInvalidatesPrevious(t *testing.T) {
	store := NewResetStore(time.Hour)

	first, err := store.Issue("user-42")
	require.NoError(t, err)
	second, err := store.Issue("user-42")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = store.Redeem(first)
	assert.ErrorIs(t, err, ErrResetTokenNotFound, "older token is dead once a new one is issued")

	userID, err := store.Redeem(second)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestResetTokensPerUserAreIndependent(t *testing.T) {
	store := NewResetStore(time.Hour)

	t1, err := store.Issue("user-1")
	require.NoError(t, err)
	t2, err := store.Issue("user-2")
	require.NoError(t, err)

	u2, err := store.Redeem(t2)
	require.NoError(t, err)
	assert.Equal(t, "user-2", u2)

	u1, err := store.Redeem(t1)
	require.NoError(t, err)
	assert.Equal(t, "user-1", u1)
}

func TestResetInvalidate(t *testing.T) {
	store := NewResetStore(time.Hour)

	token, err := store.Issue("user-42")
	require.NoError(t, err)

	store.Invalidate(token)

	_, err = store.Redeem(token)
	assert.ErrorIs(t, err, ErrResetTokenNotFound)
}

func TestResetConcurrentRedemptionSingleWinner(t *testing.T) {
	store := NewResetStore(time.Hour)

	token, err := store.Issue("user-42")
	require.NoError(t, err)

	const n = 32
	var wg sync.WaitGroup
	start := make(chan struct{})
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := store.Redeem(token)
			results <- err
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	var wins, misses int
	for err := range results {
		switch {
		case err == nil:
			wins++
		default:
			assert.ErrorIs(t, err, ErrResetTokenNotFound)
			misses++
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent redeemer may win")
	assert.Equal(t, n-1, misses)
}

func TestResetSweepRemovesStaleEntries(t *testing.T) {
	store := NewResetStore(time.Hour)

	_, err := store.Issue("user-1")
	require.NoError(t, err)
	_, err = store.Issue("user-2")
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	store.sweep()

	assert.Equal(t, 0, store.Len())
}

func TestResetSweeperStops(t *testing.T) {
	store := NewResetStore(time.Hour)
	store.StartSweeper(10 * time.Millisecond)

	_, err := store.Issue("user-1")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		store.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
