// Package websocket provides WebSocket transport for the Sokoban game server.
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a read and a
// write goroutine.
//
// Message Protocol:
//
// Outgoing messages are JSON with the session ID, an event name and, for
// "state_update", the complete GameState. Incoming messages carry control
// keys, either as {"signal": "wasd"} or as a bare text frame; they are
// applied through the hub's SignalHandler and the resulting state is
// broadcast to every client of the session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	hub.SetSignalHandler(applyKeys)
//	go hub.Run()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
