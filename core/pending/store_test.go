package pending_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/relay/core/pending"
)

func owed(users ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(users))
	for _, u := range users {
		set[u] = struct{}{}
	}
	return set
}

func TestNewMessage(t *testing.T) {
	t.Parallel()

	t.Run("copies the owed set", func(t *testing.T) {
		t.Parallel()

		src := owed("bob")
		msg := pending.NewMessage(time.Now(), "Apples", src)

		delete(src, "bob")
		assert.True(t, msg.IsOwedTo("bob"))
		assert.Equal(t, 1, msg.OwedCount())
	})

	t.Run("messages never share owed containers", func(t *testing.T) {
		t.Parallel()

		src := owed("bob")
		first := pending.NewMessage(time.Now(), "Apples", src)
		second := pending.NewMessage(time.Now(), "Bananas", src)

		store := pending.NewStore(time.Minute)
		store.Append("food", first)
		store.Append("food", second)
		store.Deliver("food", 1, "bob")

		assert.True(t, first.IsOwedTo("bob"))
		assert.False(t, second.IsOwedTo("bob"))
	})
}

func TestStore_EvictExpired(t *testing.T) {
	t.Parallel()

	t.Run("drops expired head, keeps the rest", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		store := pending.NewStore(10 * time.Second)
		store.Append("food", pending.NewMessage(now.Add(-30*time.Second), "old", owed("bob")))
		store.Append("food", pending.NewMessage(now.Add(-15*time.Second), "stale", owed("bob")))
		store.Append("food", pending.NewMessage(now.Add(-5*time.Second), "fresh", owed("bob")))

		store.EvictExpired(now)

		require.Equal(t, 1, store.Len("food"))
		start, ok := store.FindCatchUpStart("food", time.Time{})
		require.True(t, ok)
		msgs := store.Deliver("food", start, "nobody")
		require.Len(t, msgs, 1)
		assert.Equal(t, "fresh", msgs[0].Content())
	})

	t.Run("keeps message exactly at the cutoff", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		store := pending.NewStore(10 * time.Second)
		store.Append("food", pending.NewMessage(now.Add(-10*time.Second), "edge", owed("bob")))

		store.EvictExpired(now)

		assert.Equal(t, 1, store.Len("food"))
	})

	t.Run("drops whole topic when everything expired", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		store := pending.NewStore(time.Second)
		store.Append("food", pending.NewMessage(now.Add(-time.Minute), "old", owed("bob")))

		store.EvictExpired(now)

		assert.Zero(t, store.Len("food"))
	})

	t.Run("sweeps every topic", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		store := pending.NewStore(time.Second)
		store.Append("food", pending.NewMessage(now.Add(-time.Minute), "old", owed("bob")))
		store.Append("news", pending.NewMessage(now, "fresh", owed("alice")))

		store.EvictExpired(now)

		assert.Zero(t, store.Len("food"))
		assert.Equal(t, 1, store.Len("news"))
	})
}

func TestStore_FindCatchUpStart(t *testing.T) {
	t.Parallel()

	now := time.Now()

	newStore := func() *pending.Store {
		store := pending.NewStore(time.Minute)
		store.Append("food", pending.NewMessage(now, "a", owed("bob")))
		store.Append("food", pending.NewMessage(now.Add(time.Second), "b", owed("bob")))
		store.Append("food", pending.NewMessage(now.Add(2*time.Second), "c", owed("bob")))
		return store
	}

	t.Run("first message at or after since", func(t *testing.T) {
		t.Parallel()

		start, ok := newStore().FindCatchUpStart("food", now.Add(time.Second))
		require.True(t, ok)
		assert.Equal(t, 1, start)
	})

	t.Run("since before everything returns head", func(t *testing.T) {
		t.Parallel()

		start, ok := newStore().FindCatchUpStart("food", time.Time{})
		require.True(t, ok)
		assert.Equal(t, 0, start)
	})

	t.Run("none when all messages predate since", func(t *testing.T) {
		t.Parallel()

		_, ok := newStore().FindCatchUpStart("food", now.Add(time.Hour))
		assert.False(t, ok)
	})

	t.Run("none for empty topic", func(t *testing.T) {
		t.Parallel()

		_, ok := pending.NewStore(time.Minute).FindCatchUpStart("nothing", time.Time{})
		assert.False(t, ok)
	})
}

func TestStore_Deliver(t *testing.T) {
	t.Parallel()

	t.Run("yields tail and clears owed entries", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		store := pending.NewStore(time.Minute)
		store.Append("food", pending.NewMessage(now, "a", owed("bob", "alice")))
		store.Append("food", pending.NewMessage(now.Add(time.Second), "b", owed("bob")))

		msgs := store.Deliver("food", 0, "bob")
		require.Len(t, msgs, 2)
		assert.Equal(t, "a", msgs[0].Content())
		assert.Equal(t, "b", msgs[1].Content())

		assert.False(t, msgs[0].IsOwedTo("bob"))
		assert.True(t, msgs[0].IsOwedTo("alice"))
		assert.Zero(t, msgs[1].OwedCount())
	})

	t.Run("replay to a user never owed is harmless", func(t *testing.T) {
		t.Parallel()

		store := pending.NewStore(time.Minute)
		store.Append("food", pending.NewMessage(time.Now(), "a", owed("alice")))

		msgs := store.Deliver("food", 0, "bob")
		require.Len(t, msgs, 1)
		assert.True(t, msgs[0].IsOwedTo("alice"))
	})

	t.Run("out-of-range index yields nothing", func(t *testing.T) {
		t.Parallel()

		store := pending.NewStore(time.Minute)
		store.Append("food", pending.NewMessage(time.Now(), "a", owed("bob")))

		assert.Empty(t, store.Deliver("food", 5, "bob"))
		assert.Empty(t, store.Deliver("food", -1, "bob"))
		assert.Empty(t, store.Deliver("nothing", 0, "bob"))
	})
}

func TestStore_PurgeFullyDelivered(t *testing.T) {
	t.Parallel()

	t.Run("removes only exhausted messages", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		store := pending.NewStore(time.Minute)
		store.Append("food", pending.NewMessage(now, "a", owed("bob")))
		store.Append("food", pending.NewMessage(now.Add(time.Second), "b", owed("bob", "alice")))

		store.Deliver("food", 0, "bob")
		store.PurgeFullyDelivered("food")

		require.Equal(t, 1, store.Len("food"))
		start, ok := store.FindCatchUpStart("food", time.Time{})
		require.True(t, ok)
		msgs := store.Deliver("food", start, "nobody")
		assert.Equal(t, "b", msgs[0].Content())
	})

	t.Run("drops topic entry when log empties", func(t *testing.T) {
		t.Parallel()

		store := pending.NewStore(time.Minute)
		store.Append("food", pending.NewMessage(time.Now(), "a", owed("bob")))

		store.RemoveUser("food", "bob")
		store.PurgeFullyDelivered("food")

		assert.Zero(t, store.Len("food"))
		_, ok := store.FindCatchUpStart("food", time.Time{})
		assert.False(t, ok)
	})
}

func TestStore_RemoveUser(t *testing.T) {
	t.Parallel()

	store := pending.NewStore(time.Minute)
	now := time.Now()
	store.Append("food", pending.NewMessage(now, "a", owed("bob", "alice")))
	store.Append("food", pending.NewMessage(now.Add(time.Second), "b", owed("bob")))

	store.RemoveUser("food", "bob")

	msgs := store.Deliver("food", 0, "nobody")
	require.Len(t, msgs, 2)
	assert.False(t, msgs[0].IsOwedTo("bob"))
	assert.True(t, msgs[0].IsOwedTo("alice"))
	assert.Zero(t, msgs[1].OwedCount())
}
