// Package engine provides the core game logic for the Sokoban puzzle game.
//
// The engine package implements the game mechanics including:
//   - A sparse grid of layered tiles (ground below, object above)
//   - Level text parsing, rendering, repair and rotation
//   - Push-chain move resolution with a power budget
//   - Undo through a linear action history
//   - Rules deciding victory and defeat
//
// Core Types:
//
// GameEngine owns one level in play. Commands are queued with Enqueue and
// turned into actions by Process; each action is applied to the Grid,
// recorded in the ActionHistory and judged by the Rule. GameState is the
// read-only view handed to transports, while State is the complete form
// used for persistence.
//
// Usage:
//
//	grid, err := engine.ParseString(levelText)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(grid, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Push up, then undo
//	gameEngine.Enqueue(engine.MoveUp, engine.Rollback)
//	gameEngine.Process()
//	fmt.Print(gameEngine.Render(engine.Console))
package engine
