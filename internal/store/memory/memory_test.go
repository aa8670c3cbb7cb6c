package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tapventure/internal/domain"
	"tapventure/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState(tgID int64) *domain.PlayerState {
	return domain.NewPlayerState(domain.Player{
		TgID:      tgID,
		Level:     1,
		Energy:    100,
		MaxEnergy: 100,
	})
}

func TestCreate_AssignsIDAndRejectsDuplicates(t *testing.T) {
	st := New()
	ctx := context.Background()

	a := newState(100)
	require.NoError(t, st.Create(ctx, a))
	assert.NotZero(t, a.Player.ID)

	b := newState(200)
	require.NoError(t, st.Create(ctx, b))
	assert.NotEqual(t, a.Player.ID, b.Player.ID)

	dup := newState(300)
	dup.Player.ID = a.Player.ID
	assert.ErrorIs(t, st.Create(ctx, dup), store.ErrExists)
}

func TestGet_ReturnsCopy(t *testing.T) {
	st := New()
	ctx := context.Background()

	s := newState(1)
	s.Balances["coin"] = 10
	require.NoError(t, st.Create(ctx, s))

	got, err := st.Get(ctx, s.Player.ID)
	require.NoError(t, err)
	got.Balances["coin"] = 9999

	again, err := st.Get(ctx, s.Player.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, again.Balances["coin"])
}

func TestGet_NotFound(t *testing.T) {
	st := New()
	_, err := st.Get(context.Background(), 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdate_FailedMutationLeavesStateUntouched(t *testing.T) {
	st := New()
	ctx := context.Background()

	s := newState(1)
	s.Balances["coin"] = 10
	require.NoError(t, st.Create(ctx, s))

	boom := errors.New("boom")
	err := st.Update(ctx, s.Player.ID, func(w *domain.PlayerState) error {
		w.Balances["coin"] = 0
		w.Player.Level = 99
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := st.Get(ctx, s.Player.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Balances["coin"])
	assert.Equal(t, 1, got.Player.Level)
}

func TestUpdate_ConcurrentIncrementsAreAllApplied(t *testing.T) {
	st := New()
	ctx := context.Background()

	s := newState(1)
	require.NoError(t, st.Create(ctx, s))

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := st.Update(ctx, s.Player.ID, func(w *domain.PlayerState) error {
				w.Balances["coin"]++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := st.Get(ctx, s.Player.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(n), got.Balances["coin"])
}

func TestUpdate_CancelledContext(t *testing.T) {
	st := New()
	s := newState(1)
	require.NoError(t, st.Create(context.Background(), s))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := st.Update(ctx, s.Player.ID, func(*domain.PlayerState) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
