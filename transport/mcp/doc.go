// Package mcp provides the Model Context Protocol interface for the Sokoban game.
//
// Client is a thin MCP server whose tools proxy to the REST API, so the same
// server process can be driven by HTTP clients, websocket pages and AI agents.
//
// MCP Tools:
//   - create_session: Create a session for a level id such as "microban/3"
//   - list_sessions, get_session: Inspect sessions
//   - game_state: Board, coverage and possible moves
//   - move, bulk_move: Directional movement with an optional reset
//   - send_signal: WASD keys in one string, space undoes
//   - undo, reset_game: Step back or restart the level
//   - move_history: Paginated history
//   - list_levels: Browse level packs
//   - game_instructions: Rules and strategy notes
//
// Transport Modes:
//
// The returned server can be served over stdio or mounted as a streamable
// HTTP endpoint:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
//	handler := server.NewStreamableHTTPServer(client.GetMCPServer())
//	mux.Handle("/mcp", handler)
package mcp
