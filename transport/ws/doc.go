// Package ws is the websocket connection layer of the broker.
//
// Each accepted connection gets a fresh uuid handle, a bounded outbound
// queue, and a pair of pumps: the read pump consumes inbound frames and
// drives broker connect/disconnect, the write pump drains the queue and
// keeps the connection alive with pings. The Hub indexes live connections
// by handle and implements the broker's Sender: delivery is best-effort,
// and a full queue drops the frame rather than stalling the broker.
//
// Wire protocol, JSON text frames:
//
//	client → server: {"event":"start","user_name":"bob"}
//	server → client: {"event":"response","topic":"food",
//	                  "publish_time":1716382427.251,"content":"Apples"}
//
// The first frame on every connection must be the start event. A user who
// already has a live session is rejected: the new socket is closed with a
// policy violation and the existing session stays untouched. publish_time
// is seconds since the Unix epoch with fractional precision.
//
// Wiring:
//
//	hub := ws.NewHub(ws.WithHubLogger(log))
//	b := broker.New(hub, broker.WithLogger(log))
//	mux.Handle("GET /ws", ws.NewHandler(hub, b, ws.WithLogger(log)))
package ws
