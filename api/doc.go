// Package api provides HTTP REST API handlers for the Sokoban game server.
//
// The api package implements:
//   - Session management endpoints
//   - Move, bulk move, key signal, undo and reset endpoints
//   - Paginated move history
//   - Level pack browsing
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"level_id": "microban/3"})
//   - GET /api/sessions - List sessions (sort, order, limit, level)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/move - {"direction": "up", "reset": false}
//   - POST /api/sessions/{id}/bulk-move - {"moves": ["up", "left"]}
//   - POST /api/sessions/{id}/signal - {"signal": "wwa d"} (space undoes)
//   - POST /api/sessions/{id}/undo
//   - POST /api/sessions/{id}/reset
//   - GET /api/sessions/{id}/history - page, limit, order
//
// Levels:
//   - GET /api/levels - List levels, optionally ?pack=name
//   - GET /api/levels/{pack}/{index} - Level with its map
//
// WebSocket:
//   - GET /ws?session={id} - State updates; inbound frames carry key signals
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with a status derived from the engine error code:
//
//	{
//	  "error": "session ab12 not found",
//	  "code": "not_found"
//	}
package api
