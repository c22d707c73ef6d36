// Package broker orchestrates the subscription registry, the session
// registry, and the pending message store into a topic-based pub/sub engine
// with bounded offline delivery.
//
// The broker is the single serialization point for all state: Connect,
// Disconnect, Publish, Subscribe, and Unsubscribe each take one mutex
// guarding all three stores together. Nothing else mutates them. Events
// from different connections may interleave arbitrarily, but each event is
// applied atomically, so a publish can never race a connect into a state
// where the connecting user both misses live delivery and is absent from
// the message's owed set.
//
// No I/O happens under the lock. Each event computes its outbound fan-out
// while locked, then dispatches through the Sender after release. Sends are
// best-effort: a dead connection during fan-out affects neither the event
// nor the other recipients, and live delivery failures are not retried.
// The at-least-once guarantee applies to offline subscribers only, via the
// owed-set mechanism.
//
// On connect, the broker evicts expired messages, then replays to the user
// every retained message on their topics published since their last
// disconnect. Replay is a time-range intersection, not an exact owed-set
// membership check for the reconnecting user: if disconnect bookkeeping is
// coarse relative to the user's connect/disconnect churn, a message can be
// delivered twice. That behavior is deliberate and externally observable;
// do not "fix" it by filtering on owed-set membership.
//
// Eviction runs opportunistically on connect only. A topic that never sees
// another connect can retain expired messages until process exit; there is
// no background sweep.
//
// Basic usage:
//
//	b := broker.New(sender,
//	    broker.WithTTL(10*time.Second),
//	    broker.WithLogger(log),
//	)
//
//	b.Subscribe("bob", "food")
//	b.Publish("food", "Apples", time.Now())   // bob offline: stored
//	err := b.Connect("bob", conn, time.Now()) // replays Apples to conn
package broker
