// Package websocket streams live Art of War game updates to browsers.
//
// A central Hub owns every connection. Clients join a single session by
// passing ?session=<id> when the connection is upgraded, and only receive
// messages for that session.
//
// Outgoing messages are JSON objects, one per frame:
//
//	{"session_id": "a1b2c3d4", "event": "state_update", "game_state": {...}}
//	{"session_id": "a1b2c3d4", "event": "game_over", "data": {...}}
//
// Incoming frames are read and discarded; the connection exists to keep the
// ping/pong heartbeat alive.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Broadcasts never block the caller. When the hub queue is full the message
// is dropped, and a client whose own buffer is full is disconnected.
package websocket
