package ws

import "time"

const (
	// eventStart is the client's identity announcement, required first frame.
	eventStart = "start"
	// eventResponse carries one delivered message, live or replayed.
	eventResponse = "response"
)

type clientEvent struct {
	Event    string `json:"event"`
	UserName string `json:"user_name"`
}

type serverEvent struct {
	Event       string  `json:"event"`
	Topic       string  `json:"topic"`
	PublishTime float64 `json:"publish_time"`
	Content     string  `json:"content"`
}

// unixSeconds renders a timestamp as float seconds since the epoch, the
// wire representation of publish times.
func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
