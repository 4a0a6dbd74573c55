// Package session provides session management for the Sokoban game server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Pluggable persistence (files, SQLite, PostgreSQL, Redis)
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager keeps live sessions in memory and writes them through to a
// SessionPersistence backend when one is configured. A session owns its
// engine, the ID of the level it plays and its access times.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive and generated IDs never collide with stored ones.
//
// Storage:
//
// Every backend stores the same PersistedSessionData document: the
// session metadata plus the engine's exported State. Documents are
// validated against a JSON schema reflected from PersistedSessionData on
// load. SQL and Redis backends may compress documents with zstd; files are
// always written as indented JSON.
//
// Usage:
//
//	persistence, err := session.NewPersistence(cfg.Sessions)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//
//	sess, err := manager.Create("", level, gameEngine)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve it later, from memory or storage
//	sess, err = manager.Get(sess.ID)
package session
