package engine

import (
	"fmt"
	"strings"
)

// RuleContext gives a rule borrowed access to the running level
type RuleContext struct {
	Grid    *Grid
	History *ActionHistory
}

// Rule judges a level: it may veto actions and decides victory or defeat
type Rule interface {
	Name() string
	OnLevelStart(ctx RuleContext) Event
	BeforeAction(ctx RuleContext, a *Action) Event
	AfterAction(ctx RuleContext, a *Action) Event
	Label(ctx RuleContext) string
}

// CoverageReporter is implemented by rules that track targets
type CoverageReporter interface {
	Coverage(ctx RuleContext) (covered, required int)
}

// NewRule returns a fresh rule by name
func NewRule(name string) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "classic":
		return &ClassicRule{}, nil
	default:
		return nil, NotFoundf("undefined rule %q", name)
	}
}

// ClassicRule wins once as many targets hold a ball as the level allows
type ClassicRule struct {
	targets []Position
	balls   int
}

func (r *ClassicRule) Name() string {
	return "classic"
}

// OnLevelStart caches target positions and the ball count
func (r *ClassicRule) OnLevelStart(ctx RuleContext) Event {
	r.targets = r.targets[:0]
	for _, t := range ctx.Grid.Find(Target) {
		r.targets = append(r.targets, t.Position)
	}
	r.balls = ctx.Grid.Count(Ball)
	return Event{}
}

func (r *ClassicRule) BeforeAction(ctx RuleContext, a *Action) Event {
	return Event{}
}

func (r *ClassicRule) AfterAction(ctx RuleContext, a *Action) Event {
	covered, required := r.Coverage(ctx)
	if ctx.History.Step() > 0 && covered == required {
		return Event{Kind: EventVictory, Message: fmt.Sprintf("All %d targets covered!", required)}
	}
	return Event{}
}

// Coverage counts targets holding a ball against min(balls, targets)
func (r *ClassicRule) Coverage(ctx RuleContext) (covered, required int) {
	for _, p := range r.targets {
		if obj := ctx.Grid.Tile(p, LayerObject); obj != nil && obj.ID == Ball {
			covered++
		}
	}
	return covered, min(r.balls, len(r.targets))
}

func (r *ClassicRule) Label(ctx RuleContext) string {
	covered, required := r.Coverage(ctx)
	return fmt.Sprintf("Covered: %d/%d; steps: %s", covered, required, stepLabel(ctx.History))
}

func stepLabel(h *ActionHistory) string {
	step := h.Step()
	if step < h.Len() {
		return fmt.Sprintf("%d/%d", step, h.Len())
	}
	return fmt.Sprintf("%d", step)
}
