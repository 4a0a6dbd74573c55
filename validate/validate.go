// Command validate checks the level packs in a levels directory. For every
// pack it reports:
//   - Blocks the pack parser had to skip, and unparseable dates
//   - Levels that fail to parse as a grid
//   - Levels without balls or targets, or with fewer balls than targets
//   - Balls or targets the player cannot reach
//   - Balls already cornered off a target
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/sokoban-game/game/engine"
	"github.com/wricardo/sokoban-game/game/levels"
)

// ValidationResult captures the outcome of validating a single pack file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validatePack loads a pack file and validates each of its levels
func validatePack(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	f, err := os.Open(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}
	defer f.Close()

	name := strings.TrimSuffix(result.File, filepath.Ext(result.File))
	pack, warnings, err := levels.ParsePack(name, f)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid pack: %v", err))
		return result
	}

	for _, w := range warnings {
		result.Valid = false
		result.Errors = append(result.Errors, w.String())
	}

	if len(pack.Levels) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Pack has no levels")
		return result
	}

	var notes []string
	for _, level := range pack.Levels {
		problems, hint := validateLevel(level)
		if len(problems) > 0 {
			result.Valid = false
			for _, p := range problems {
				result.Errors = append(result.Errors, fmt.Sprintf("Level %d (%s): %s", level.Index, level.Title(), p))
			}
			continue
		}
		if hint != "" {
			notes = append(notes, fmt.Sprintf("✓ Level %d: %s", level.Index, hint))
		}
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Pack: %s", pack.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Levels: %d", len(pack.Levels)))
		result.Errors = append(result.Errors, notes...)
	}

	return result
}

// validateLevel returns the problems that make a level unplayable and a
// deadlock hint for levels that are playable but start stuck.
func validateLevel(level *levels.Level) ([]string, string) {
	grid, err := level.Grid(nil, engine.Standard)
	if err != nil {
		return []string{fmt.Sprintf("bad map: %v", err)}, ""
	}

	var problems []string
	if err := engine.ValidateGrid(grid); err != nil {
		problems = append(problems, err.Error())
	}

	balls := grid.Count(engine.Ball)
	targets := grid.Count(engine.Target)
	if balls > 0 && balls < targets {
		problems = append(problems, fmt.Sprintf("%d balls for %d targets", balls, targets))
	}
	if len(problems) > 0 {
		return problems, ""
	}

	return nil, engine.AnalyzeDeadlock(grid)
}

// main scans the levels directory for *.txt packs and validates each one,
// printing a concise report and exiting with non-zero status if any are
// invalid.
func main() {
	levelsDir := flag.String("dir", "../levels", "directory containing level packs")
	flag.Parse()

	files, err := filepath.Glob(filepath.Join(*levelsDir, "*.txt"))
	if err != nil {
		fmt.Printf("Error finding level packs: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No level packs found in %s\n", *levelsDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validatePack(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All level packs are valid!")
	} else {
		fmt.Println("❌ Some level packs have errors")
		os.Exit(1)
	}
}
