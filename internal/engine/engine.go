// Package engine drives the tick pipeline: collect requests, translate
// them through systems, apply the resulting actions in order, commit.
package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/wormgrid/server/internal/core/action"
	"github.com/wormgrid/server/internal/core/request"
	"github.com/wormgrid/server/internal/system"
	"github.com/wormgrid/server/internal/world"
	"go.uber.org/zap"
)

// ErrReactionBoundExceeded is fatal for the tick: application halts, the
// world stays uncommitted, and the caller must treat the tick as corrupt.
// There is no silent continuation.
var ErrReactionBoundExceeded = errors.New("reaction bound exceeded")

// Producer is the script-execution collaborator: it reads the committed
// snapshot and appends this tick's requests. Produce returning is the
// "requests complete" signal that closes the collection window.
type Producer interface {
	Produce(v *world.View, q *request.Queue)
}

// TickResult summarizes one committed tick.
type TickResult struct {
	Tick       uint64
	Requests   int
	Actions    int
	MaxDepth   int
	Rejections []system.Rejection
	Checksum   uint64
}

// Engine owns the request queue and the tick loop over one world. No tick
// begins before the previous one committed; the engine is the only caller
// of the world's phase transitions.
type Engine struct {
	w        *world.World
	reg      *system.Registry
	requests *request.Queue
	maxDepth int
	log      *zap.Logger
}

func New(w *world.World, reg *system.Registry, maxDepth int, log *zap.Logger) *Engine {
	return &Engine{
		w:        w,
		reg:      reg,
		requests: request.NewQueue(),
		maxDepth: maxDepth,
		log:      log,
	}
}

// Requests exposes the queue for the producing collaborator's wrappers.
func (e *Engine) Requests() *request.Queue { return e.requests }

// World exposes the read-only snapshot for post-commit consumers.
func (e *Engine) Snapshot() *world.View { return e.w.Snapshot() }

// RunTick executes one full collect→translate→apply→commit cycle.
func (e *Engine) RunTick(p Producer) (*TickResult, error) {
	return e.runTick(p, nil)
}

// Bootstrap runs one tick with no producer and the given pre-seeded
// actions, so even initial world population goes through ordered
// application.
func (e *Engine) Bootstrap(seed []action.Action) (*TickResult, error) {
	return e.runTick(nil, seed)
}

func (e *Engine) runTick(p Producer, seed []action.Action) (*TickResult, error) {
	// Collect.
	if err := e.w.BeginCollecting(); err != nil {
		return nil, err
	}
	e.requests.Open()
	if p != nil {
		p.Produce(e.w.Snapshot(), e.requests)
	}
	e.requests.Close()

	// Translate.
	if err := e.w.BeginTranslating(); err != nil {
		return nil, err
	}
	reqs := e.requests.Drain()
	// Stable sort by source entity id: conflict outcomes become a pure
	// function of entity identifiers, not of arrival order. Per-source
	// insertion order survives the stable sort.
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].Source() < reqs[j].Source()
	})

	e.reg.ResetAll()
	snapshot := e.w.Snapshot()
	queue := action.NewQueue()
	for _, a := range seed {
		queue.Push(a, 0)
	}
	result := &TickResult{Requests: len(reqs)}
	for _, req := range reqs {
		sys, ok := e.reg.System(req.Kind())
		if !ok {
			result.Rejections = append(result.Rejections, system.Rejection{
				Entity: req.Source(),
				Player: req.Player(),
				Kind:   req.Kind(),
				Reason: "no system registered for request kind",
			})
			continue
		}
		acts, rej := sys.Translate(snapshot, req)
		if rej != nil {
			result.Rejections = append(result.Rejections, *rej)
		}
		for _, a := range acts {
			queue.Push(a, 0)
		}
	}

	// Apply: one forward pass over a queue that may grow at the tail.
	if err := e.w.BeginApplying(); err != nil {
		return nil, err
	}
	for {
		a, hop, ok := queue.Next()
		if !ok {
			break
		}
		if hop > e.maxDepth {
			return result, fmt.Errorf("tick %d: action %s at hop %d: %w",
				e.w.Tick(), a.Kind(), hop, ErrReactionBoundExceeded)
		}
		if hop > result.MaxDepth {
			result.MaxDepth = hop
		}
		if err := a.Apply(e.w); err != nil {
			// Local fault: the action did not apply, so its reactions
			// must not run. Logged, never swallowed silently.
			e.log.Warn("action failed to apply",
				zap.String("action", a.Kind().String()),
				zap.Error(err))
			continue
		}
		for _, r := range e.reg.Reactions(a.Kind()) {
			for _, emitted := range r.React(snapshot, a) {
				queue.Push(emitted, hop+1)
			}
		}
	}
	result.Actions = queue.Len()

	if err := e.w.Commit(); err != nil {
		return nil, err
	}
	result.Tick = e.w.Tick()
	result.Checksum = e.w.Checksum()

	e.log.Debug("tick committed",
		zap.Uint64("tick", result.Tick),
		zap.Int("requests", result.Requests),
		zap.Int("actions", result.Actions),
		zap.Int("max_depth", result.MaxDepth),
		zap.Int("rejections", len(result.Rejections)),
		zap.Uint64("checksum", result.Checksum))
	return result, nil
}
