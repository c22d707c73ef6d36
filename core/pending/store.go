package pending

import "time"

// Store holds per-topic logs of messages not yet delivered to every owed
// subscriber. Messages older than the retention window are evicted from the
// head of each log. Not safe for concurrent use; the owning broker
// serializes access.
type Store struct {
	ttl  time.Duration
	logs map[string][]*Message
}

// NewStore creates an empty store retaining messages for ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:  ttl,
		logs: make(map[string][]*Message),
	}
}

// TTL returns the retention window.
func (s *Store) TTL() time.Duration { return s.ttl }

// Append adds the message to the tail of the topic's log. The caller must
// have computed a non-empty owed set; appending a message nobody is owed
// only wastes memory until the next purge.
func (s *Store) Append(topic string, msg *Message) {
	s.logs[topic] = append(s.logs[topic], msg)
}

// EvictExpired drops every message whose publish time predates now minus
// the retention window. Logs are ascending by publish time, so a single
// head-ward scan per topic suffices: cost is proportional to the number of
// expired messages, not the log size.
func (s *Store) EvictExpired(now time.Time) {
	cutoff := now.Add(-s.ttl)
	for topic, log := range s.logs {
		i := 0
		for i < len(log) && log[i].publishTime.Before(cutoff) {
			i++
		}
		if i == 0 {
			continue
		}
		if i == len(log) {
			delete(s.logs, topic)
			continue
		}
		s.logs[topic] = append([]*Message(nil), log[i:]...)
	}
}

// PurgeFullyDelivered removes every message in the topic's log whose owed
// set is empty. Must be called after any operation that can empty an owed
// set, to bound memory.
func (s *Store) PurgeFullyDelivered(topic string) {
	log := s.logs[topic]
	kept := log[:0]
	for _, msg := range log {
		if msg.OwedCount() > 0 {
			kept = append(kept, msg)
		}
	}
	if len(kept) == 0 {
		delete(s.logs, topic)
		return
	}
	s.logs[topic] = kept
}

// FindCatchUpStart returns the index of the first message in the topic's
// log published at or after since. The second result is false when every
// retained message predates since, or the log is empty.
func (s *Store) FindCatchUpStart(topic string, since time.Time) (int, bool) {
	for i, msg := range s.logs[topic] {
		if !msg.publishTime.Before(since) {
			return i, true
		}
	}
	return 0, false
}

// Deliver returns every message in the topic's log from the given index to
// the tail, removing user from each message's owed set along the way.
// Replaying a message the user was never owed is harmless: the owed-set
// removal is a no-op, never an error.
func (s *Store) Deliver(topic string, from int, user string) []*Message {
	log := s.logs[topic]
	if from < 0 || from >= len(log) {
		return nil
	}
	delivered := make([]*Message, 0, len(log)-from)
	for _, msg := range log[from:] {
		msg.removeOwed(user)
		delivered = append(delivered, msg)
	}
	return delivered
}

// RemoveUser drops the user from the owed set of every message in the
// topic's log. Used when a user unsubscribes: they are no longer owed
// anything on that topic.
func (s *Store) RemoveUser(topic, user string) {
	for _, msg := range s.logs[topic] {
		msg.removeOwed(user)
	}
}

// Len returns the number of retained messages for the topic.
func (s *Store) Len(topic string) int {
	return len(s.logs[topic])
}
