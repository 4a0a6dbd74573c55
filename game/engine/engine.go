package engine

// Engine provides the main interface for game operations
type Engine interface {
	// Command pipeline
	Enqueue(kinds ...ActionKind)
	Process() []Step
	SendSignal(signal string) []Step

	// Game state
	GetState() *GameState
	Export() *State
	Reset() *GameState
	IsFinished() *bool
	IsVictory() bool
	IsGameOver() bool
	Status() GameStatus
	StateLabel() string
	GetPlayerPosition() Position

	// Movement queries
	CanMove(direction string) bool
	GetPossibleMoves() []string

	// Level and history
	Grid() *Grid
	History() *ActionHistory
	GetMoveHistory() []MoveHistoryEntry
}

// Step reports what became of one processed command
type Step struct {
	Command Command `json:"command"`
	Action  *Action `json:"action,omitempty"`
	Stored  bool    `json:"stored"`
	Events  []Event `json:"events,omitempty"`
}

// GameEngine runs one level: it turns queued commands into actions,
// applies them to the grid and lets the rule judge the result.
type GameEngine struct {
	grid      *Grid
	origin    Snapshot
	history   *ActionHistory
	rule      Rule
	queue     CommandQueue
	finished  *bool
	player    *Tile
	debugHook func(*GameEngine)
}

// NewEngine creates a new game engine for grid judged by rule. The grid as
// given becomes the restart point. A nil rule means the classic rule.
func NewEngine(grid *Grid, rule Rule) (*GameEngine, error) {
	if grid == nil {
		return nil, ValidationFailedf("grid cannot be nil")
	}
	if rule == nil {
		rule = &ClassicRule{}
	}
	if len(grid.Find(Player)) == 0 {
		return nil, ValidationFailedf("@Player not found")
	}

	e := &GameEngine{
		grid:    grid,
		origin:  grid.Snapshot(),
		history: NewActionHistory(),
		rule:    rule,
	}
	e.startLevel()
	return e, nil
}

// NewEngineFromText parses standard level text and creates an engine
func NewEngineFromText(text string, repair *RepairOptions, rule Rule) (*GameEngine, error) {
	grid, err := ParseGrid(text, repair, Standard)
	if err != nil {
		return nil, err
	}
	return NewEngine(grid, rule)
}

func (e *GameEngine) ruleContext() RuleContext {
	return RuleContext{Grid: e.grid, History: e.history}
}

func (e *GameEngine) startLevel() {
	e.finished = nil
	e.history.Reset()
	e.player = nil
	if players := e.grid.Find(Player); len(players) > 0 {
		e.player = players[0]
	}
	e.dispatch(e.rule.OnLevelStart(e.ruleContext()), nil)
}

// Enqueue adds commands to the pending queue
func (e *GameEngine) Enqueue(kinds ...ActionKind) {
	for _, k := range kinds {
		e.queue.Push(Command{Kind: k})
	}
}

// Process drains the command queue and reports one step per command
func (e *GameEngine) Process() []Step {
	var steps []Step
	for {
		cmd, ok := e.queue.Pop()
		if !ok {
			return steps
		}
		steps = append(steps, e.processCommand(cmd))
	}
}

func (e *GameEngine) processCommand(cmd Command) Step {
	step := Step{Command: cmd}

	action := e.actionFor(cmd)
	if action == nil {
		return step
	}

	before := e.rule.BeforeAction(e.ruleContext(), action)
	if before.Kind == EventStopAction {
		step.Events = append(step.Events, before)
		return step
	}
	e.dispatch(before, &step)

	step.Action = action
	stored := e.apply(action)
	if stored != nil && e.finished == nil {
		e.history.Append(stored)
		step.Stored = true
	}

	judged := action
	if stored != nil {
		judged = stored
	}
	e.dispatch(e.rule.AfterAction(e.ruleContext(), judged), &step)
	return step
}

func (e *GameEngine) actionFor(cmd Command) *Action {
	switch cmd.Kind {
	case Debug, Restart, Rollback:
		return &Action{Kind: cmd.Kind}
	}
	if !cmd.Kind.IsMove() || e.player == nil {
		return nil
	}
	action, ok := Resolve(e.grid, e.player.Position, cmd.Kind)
	if !ok {
		return nil
	}
	return action
}

// apply performs the action and returns it when it should be recorded
func (e *GameEngine) apply(a *Action) *Action {
	switch a.Kind {
	case Debug:
		if e.debugHook != nil {
			e.debugHook(e)
		}
		return nil
	case Restart:
		e.restart()
		return nil
	}

	if e.finished != nil {
		return nil
	}

	if a.Kind == Rollback {
		e.rollback()
		return nil
	}
	if err := ApplyAction(e.grid, a); err != nil {
		return nil
	}
	return a
}

func (e *GameEngine) restart() {
	if err := e.grid.Restore(e.origin); err != nil {
		return
	}
	e.startLevel()
}

func (e *GameEngine) rollback() {
	current := e.history.Current()
	if current == nil {
		return
	}
	if err := UndoAction(e.grid, current); err != nil {
		return
	}
	e.history.StepBack()
}

func (e *GameEngine) dispatch(ev Event, step *Step) {
	switch ev.Kind {
	case EventNone:
		return
	case EventVictory:
		won := true
		e.finished = &won
	case EventDefeat:
		lost := false
		e.finished = &lost
	}
	if step != nil {
		step.Events = append(step.Events, ev)
	}
}

// SetDebugHook installs the callback run by the debug action
func (e *GameEngine) SetDebugHook(hook func(*GameEngine)) {
	e.debugHook = hook
}

// IsFinished returns nil while playing, true on victory and false on defeat
func (e *GameEngine) IsFinished() *bool {
	if e.finished == nil {
		return nil
	}
	v := *e.finished
	return &v
}

// IsVictory reports whether the level was won
func (e *GameEngine) IsVictory() bool {
	return e.finished != nil && *e.finished
}

// IsGameOver reports whether the level ended either way
func (e *GameEngine) IsGameOver() bool {
	return e.finished != nil
}

// Status returns the coarse level state
func (e *GameEngine) Status() GameStatus {
	switch {
	case e.finished == nil:
		return StatusPlaying
	case *e.finished:
		return StatusVictory
	default:
		return StatusDefeat
	}
}

// StateLabel returns the rule's human readable progress line
func (e *GameEngine) StateLabel() string {
	return e.rule.Label(e.ruleContext())
}

// Rule returns the rule judging the level
func (e *GameEngine) Rule() Rule {
	return e.rule
}

// Grid returns the live grid; callers must not modify it
func (e *GameEngine) Grid() *Grid {
	return e.grid
}

// History returns the live action history; callers must not modify it
func (e *GameEngine) History() *ActionHistory {
	return e.history
}

// Render draws the current grid
func (e *GameEngine) Render(symbols SymbolMap) string {
	return e.grid.Render(symbols)
}

// GetPlayerPosition returns the position of the active player
func (e *GameEngine) GetPlayerPosition() Position {
	if e.player == nil {
		return Position{}
	}
	return e.player.Position
}

// Move queues a single move and processes it; true when it was recorded
func (e *GameEngine) Move(direction string) bool {
	kind, err := ParseDirection(direction)
	if err != nil {
		return false
	}
	e.Enqueue(kind)
	steps := e.Process()
	return len(steps) > 0 && steps[len(steps)-1].Stored
}

// CanMove checks if the player can move in the given direction
func (e *GameEngine) CanMove(direction string) bool {
	kind, err := ParseDirection(direction)
	if err != nil || e.player == nil || e.finished != nil {
		return false
	}
	_, ok := Resolve(e.grid, e.player.Position, kind)
	return ok
}

// GetPossibleMoves returns the directions that currently resolve
func (e *GameEngine) GetPossibleMoves() []string {
	moves := []string{}
	for _, k := range MoveKinds() {
		if e.CanMove(k.String()) {
			moves = append(moves, k.String())
		}
	}
	return moves
}

// Reset restarts the level from its original layout
func (e *GameEngine) Reset() *GameState {
	e.Enqueue(Restart)
	e.Process()
	return e.GetState()
}

// GetState builds a read-only view of the engine
func (e *GameEngine) GetState() *GameState {
	ctx := e.ruleContext()
	state := &GameState{
		Board:         e.grid.Lines(Standard),
		Width:         e.grid.Width(),
		Height:        e.grid.Height(),
		PlayerPos:     e.GetPlayerPosition(),
		Status:        e.Status(),
		Finished:      e.IsFinished(),
		Label:         e.rule.Label(ctx),
		Rule:          e.rule.Name(),
		Step:          e.history.Step(),
		Steps:         e.history.Len(),
		PossibleMoves: e.GetPossibleMoves(),
		Hint:          AnalyzeDeadlock(e.grid),
	}
	if cr, ok := e.rule.(CoverageReporter); ok {
		state.Covered, state.Required = cr.Coverage(ctx)
	}
	return state
}

// GetMoveHistory lists the recorded actions with the player's path
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	cursor, started := e.history.Cursor()
	actions := e.history.Actions()
	entries := make([]MoveHistoryEntry, 0, len(actions))
	for i, a := range actions {
		entry := MoveHistoryEntry{
			Action:     a.Kind.String(),
			Pushed:     a.Pushed(),
			MoveNumber: i + 1,
			Current:    started && i == cursor,
		}
		if p, ok := a.Pusher(); ok {
			dir, _ := a.Kind.Direction()
			entry.FromPosition = p.From
			entry.ToPosition = p.From.Add(dir.DX, dir.DY)
		}
		entries = append(entries, entry)
	}
	return entries
}
