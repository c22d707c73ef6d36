package subscription_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/relay/core/subscription"
)

func TestRegistry_Subscribe(t *testing.T) {
	t.Parallel()

	t.Run("adds pair to both views", func(t *testing.T) {
		t.Parallel()

		reg := subscription.NewRegistry()
		reg.Subscribe("bob", "food")

		assert.True(t, reg.IsSubscribed("bob", "food"))
		assert.ElementsMatch(t, []string{"food"}, reg.TopicsOf("bob"))
		assert.Contains(t, reg.SubscribersOf("food"), "bob")
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		reg := subscription.NewRegistry()
		reg.Subscribe("bob", "food")
		reg.Subscribe("bob", "food")

		assert.Len(t, reg.TopicsOf("bob"), 1)
		assert.Len(t, reg.SubscribersOf("food"), 1)
	})

	t.Run("tracks multiple users per topic", func(t *testing.T) {
		t.Parallel()

		reg := subscription.NewRegistry()
		reg.Subscribe("alice", "news")
		reg.Subscribe("bob", "news")

		subs := reg.SubscribersOf("news")
		assert.Len(t, subs, 2)
		assert.Contains(t, subs, "alice")
		assert.Contains(t, subs, "bob")
	})
}

func TestRegistry_Unsubscribe(t *testing.T) {
	t.Parallel()

	t.Run("removes pair from both views", func(t *testing.T) {
		t.Parallel()

		reg := subscription.NewRegistry()
		reg.Subscribe("bob", "food")
		reg.Subscribe("bob", "news")

		require.True(t, reg.Unsubscribe("bob", "food"))

		assert.False(t, reg.IsSubscribed("bob", "food"))
		assert.ElementsMatch(t, []string{"news"}, reg.TopicsOf("bob"))
		assert.NotContains(t, reg.SubscribersOf("food"), "bob")
	})

	t.Run("reports absent pair", func(t *testing.T) {
		t.Parallel()

		reg := subscription.NewRegistry()

		assert.False(t, reg.Unsubscribe("bob", "food"))
	})

	t.Run("does not affect other subscribers", func(t *testing.T) {
		t.Parallel()

		reg := subscription.NewRegistry()
		reg.Subscribe("alice", "news")
		reg.Subscribe("bob", "news")

		require.True(t, reg.Unsubscribe("bob", "news"))

		assert.Contains(t, reg.SubscribersOf("news"), "alice")
		assert.True(t, reg.IsSubscribed("alice", "news"))
	})
}

func TestRegistry_Views(t *testing.T) {
	t.Parallel()

	t.Run("empty results for unknown identifiers", func(t *testing.T) {
		t.Parallel()

		reg := subscription.NewRegistry()

		assert.Empty(t, reg.TopicsOf("nobody"))
		assert.Empty(t, reg.SubscribersOf("nothing"))
	})

	t.Run("subscribers view is a copy", func(t *testing.T) {
		t.Parallel()

		reg := subscription.NewRegistry()
		reg.Subscribe("bob", "food")

		subs := reg.SubscribersOf("food")
		delete(subs, "bob")

		assert.True(t, reg.IsSubscribed("bob", "food"))
	})
}
