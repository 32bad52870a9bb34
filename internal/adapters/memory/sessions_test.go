package memory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/csg33k/era-intake/internal/adapters/memory"
	"github.com/csg33k/era-intake/internal/ports"
)

var _ ports.SessionStore[string] = (*memory.Store[string])(nil)

func TestStore_CreateGetDelete(t *testing.T) {
	var evicted []string
	st := memory.New[string](0, func(s string) { evicted = append(evicted, s) })

	a := st.Create("alpha")
	b := st.Create("beta")
	require.NotEqual(t, a, b)

	got, ok := st.Get(a)
	require.True(t, ok)
	require.Equal(t, "alpha", got)

	st.Delete(a)
	_, ok = st.Get(a)
	require.False(t, ok)
	require.Equal(t, []string{"alpha"}, evicted)

	st.Delete("missing")
	require.Equal(t, 1, st.Len())
}

func TestStore_IdleExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var evicted []string
	st := memory.New[string](time.Hour, func(s string) { evicted = append(evicted, s) })
	st.SetClock(func() time.Time { return now })

	idle := st.Create("idle")
	busy := st.Create("busy")

	now = now.Add(40 * time.Minute)
	_, ok := st.Get(busy)
	require.True(t, ok)

	now = now.Add(30 * time.Minute)
	_, ok = st.Get(busy)
	require.True(t, ok, "access refreshes the idle timer")
	_, ok = st.Get(idle)
	require.False(t, ok)
	require.Equal(t, []string{"idle"}, evicted)
}
