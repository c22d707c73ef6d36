// Package subscription tracks which users follow which topics.
//
// The registry keeps two mirrored views of the same (user, topic) pairs:
// topics grouped by user and users grouped by topic. Both views are updated
// together, so a pair is visible in one view exactly when it is visible in
// the other. Subscriptions have no expiry and survive disconnects; they are
// removed only by an explicit Unsubscribe call.
//
// The registry is not safe for concurrent use on its own. The broker owns
// the only instance and serializes every mutation behind its lock, so the
// registry itself stays lock-free.
//
// Basic usage:
//
//	reg := subscription.NewRegistry()
//	reg.Subscribe("bob", "food")
//	reg.Subscribe("bob", "news")
//
//	reg.TopicsOf("bob")        // ["food", "news"]
//	reg.SubscribersOf("food")  // {"bob"}
//
//	reg.Unsubscribe("bob", "food") // true
//	reg.Unsubscribe("bob", "food") // false, already gone
package subscription
