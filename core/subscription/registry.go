package subscription

// Registry is a bidirectional mapping between users and the topics they
// follow. Not safe for concurrent use; the owning broker serializes access.
type Registry struct {
	topicsByUser map[string]map[string]struct{}
	usersByTopic map[string]map[string]struct{}
}

// NewRegistry creates an empty subscription registry.
func NewRegistry() *Registry {
	return &Registry{
		topicsByUser: make(map[string]map[string]struct{}),
		usersByTopic: make(map[string]map[string]struct{}),
	}
}

// Subscribe adds the (user, topic) pair to both views.
// Subscribing to an already-followed topic is a no-op.
func (r *Registry) Subscribe(user, topic string) {
	topics := r.topicsByUser[user]
	if topics == nil {
		topics = make(map[string]struct{})
		r.topicsByUser[user] = topics
	}
	topics[topic] = struct{}{}

	users := r.usersByTopic[topic]
	if users == nil {
		users = make(map[string]struct{})
		r.usersByTopic[topic] = users
	}
	users[user] = struct{}{}
}

// Unsubscribe removes the (user, topic) pair from both views and reports
// whether the pair existed. Removing an absent pair is a no-op.
func (r *Registry) Unsubscribe(user, topic string) bool {
	topics := r.topicsByUser[user]
	if _, ok := topics[topic]; !ok {
		return false
	}

	delete(topics, topic)
	if len(topics) == 0 {
		delete(r.topicsByUser, user)
	}

	users := r.usersByTopic[topic]
	delete(users, user)
	if len(users) == 0 {
		delete(r.usersByTopic, topic)
	}

	return true
}

// IsSubscribed reports whether the (user, topic) pair is present.
func (r *Registry) IsSubscribed(user, topic string) bool {
	_, ok := r.topicsByUser[user][topic]
	return ok
}

// TopicsOf returns the topics the user follows. The order is unspecified.
// Returns nil for a user with no subscriptions.
func (r *Registry) TopicsOf(user string) []string {
	set := r.topicsByUser[user]
	if len(set) == 0 {
		return nil
	}
	topics := make([]string, 0, len(set))
	for topic := range set {
		topics = append(topics, topic)
	}
	return topics
}

// SubscribersOf returns the set of users following the topic as a fresh map
// the caller may mutate freely. Returns an empty set for an unknown topic.
func (r *Registry) SubscribersOf(topic string) map[string]struct{} {
	set := r.usersByTopic[topic]
	users := make(map[string]struct{}, len(set))
	for user := range set {
		users[user] = struct{}{}
	}
	return users
}
