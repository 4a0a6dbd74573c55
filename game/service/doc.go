// Package service provides the business logic layer for the Sokoban game.
//
// The service package implements:
//   - Multi-session game management
//   - Level selection from level packs
//   - Move, signal and undo processing with event reporting
//   - Session lifecycle management
//   - Move history tracking
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// LevelManager looks up levels from the level packs.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine, providing session isolation and level selection. Each
// session owns its own game engine; every command is processed one at a time
// so each one can be reported as events.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	levelMgr, _ := levels.NewManager("levels")
//	gameService := service.NewGameService(sessionMgr, levelMgr, service.Options{})
//
//	// Create a new session on a pack level
//	sessionInfo, err := gameService.CreateSession(ctx, "microban/1")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Execute moves
//	result, err := gameService.Move(ctx, sessionInfo.ID, "up", false)
//
// Errors:
//
// Errors carry engine codes, so transports can map them with
// engine.HTTPStatus: unknown sessions and levels are not_found, bad input is
// validation_failed.
package service
