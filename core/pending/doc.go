// Package pending stores recently published messages until every subscriber
// who was owed them has received them, or until they expire.
//
// Messages are kept in per-topic logs ordered by publish time. The broker
// appends under its lock, so publish order equals insertion order and each
// log stays ascending; eviction exploits this by popping expired messages
// from the head only. Each message carries the set of users still owed
// delivery. A message lives in the store only while that set is non-empty:
// callers must purge after any operation that can empty an owed set.
//
// Storing one message per payload, annotated with owed users, keeps memory
// proportional to distinct payloads rather than payloads times subscribers.
//
// The store decides nothing about who is owed a message; the broker computes
// the owed set at publish time and the store only shrinks it. Deliver is
// deliberately forgiving: replaying to a user a message never owed them is a
// no-op on the owed set, which is what makes time-range catch-up replay safe.
//
// Not safe for concurrent use; the owning broker serializes access.
//
// Basic usage:
//
//	store := pending.NewStore(10 * time.Second)
//	store.Append("food", pending.NewMessage(now, "Apples", offline))
//
//	store.EvictExpired(time.Now())
//	if start, ok := store.FindCatchUpStart("food", since); ok {
//	    replayed := store.Deliver("food", start, "bob")
//	    store.PurgeFullyDelivered("food")
//	}
package pending
