// Package httpapi exposes the publisher/administrative HTTP surface of the
// broker.
//
// Endpoints, all JSON request/response:
//
//	POST /publish_messages
//	    {"messages": [{"topic": "food", "content": "Apples"}, ...]}
//	    Every message in one call shares a single publish timestamp.
//	    Entries missing topic or content are logged and skipped, not fatal.
//
//	POST /subscribe
//	POST /unsubscribe
//	    {"user_name": "bob", "topics": ["food", "news"]}
//	    Unsubscribing from a topic the user never followed is logged and
//	    skipped.
//
//	GET /health
//	    Liveness probe, returns "ALIVE".
//
// Malformed requests are rejected with a 400 and a descriptive
// {"error": "..."} body before any state mutation. Every handled request is
// logged with method, path, status, and elapsed time.
//
// Wiring:
//
//	api := httpapi.New(b, httpapi.WithLogger(log))
//	handler := api.Router()
package httpapi
