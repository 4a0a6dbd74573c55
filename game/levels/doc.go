// Package levels provides level pack management for the Sokoban game.
//
// The levels package handles:
//   - Parsing level packs from the plain text pack format
//   - Level discovery and listing across pack files
//   - Random level selection and a built-in default level
//   - Writing packs back to disk
//
// Pack Format:
//
// A pack is a text file of blocks separated by blank lines. A block starts
// with its map rows (lines beginning with '-' or '#') followed by header
// lines such as "Title: Easy Start" or "Author: someone". Lines that are not
// headers continue the previous header. Blocks without a map that come
// before the first level make up the pack description.
//
//	-#####
//	-#--*#
//	-#-.-#
//	##-$-#
//	#-@-##
//	#####
//	Title: test
//	Author: author
//
// Level IDs:
//
// Levels are addressed as "pack/index" with a 1-based index, for example
// "microban/3". The pack name is the file name without its ".txt" suffix.
//
// Usage:
//
//	manager, err := levels.NewManager("levels")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific level
//	level, err := manager.Level("microban/3")
//
//	// Pick any level of a pack
//	level, err = manager.Random("microban")
//
//	// Build the playable grid
//	grid, err := level.Grid(nil, engine.Standard)
package levels
