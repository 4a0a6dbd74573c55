package engine

// State is the complete, pointer-free state of an engine, used for persistence
type State struct {
	Rule     string       `json:"rule"`
	Origin   Snapshot     `json:"origin"`
	Grid     Snapshot     `json:"grid"`
	History  HistoryState `json:"history"`
	Finished *bool        `json:"finished,omitempty"`
	Player   Position     `json:"player"`
}

// Export captures the engine state
func (e *GameEngine) Export() *State {
	return &State{
		Rule:     e.rule.Name(),
		Origin:   e.origin,
		Grid:     e.grid.Snapshot(),
		History:  e.history.Export(),
		Finished: e.IsFinished(),
		Player:   e.GetPlayerPosition(),
	}
}

// RestoreEngine rebuilds an engine from an exported state
func RestoreEngine(s *State) (*GameEngine, error) {
	if s == nil {
		return nil, ValidationFailedf("state cannot be nil")
	}
	rule, err := NewRule(s.Rule)
	if err != nil {
		return nil, err
	}
	grid, err := RestoreGrid(s.Grid)
	if err != nil {
		return nil, Wrap(err, CodeValidationFailed, "restore grid")
	}
	if _, err := RestoreGrid(s.Origin); err != nil {
		return nil, Wrap(err, CodeValidationFailed, "restore origin")
	}
	player := grid.Tile(s.Player, LayerObject)
	if player == nil || player.ID != Player {
		players := grid.Find(Player)
		if len(players) == 0 {
			return nil, ValidationFailedf("@Player not found")
		}
		player = players[0]
	}

	e := &GameEngine{
		grid:    grid,
		origin:  s.Origin,
		history: ImportHistory(s.History),
		rule:    rule,
		player:  player,
	}
	if s.Finished != nil {
		v := *s.Finished
		e.finished = &v
	}
	// Targets and ball count never change during play, so priming the rule
	// from the current grid gives the same cache as the original start.
	rule.OnLevelStart(e.ruleContext())
	return e, nil
}
