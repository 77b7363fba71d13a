// Package system holds the translators that turn requests into actions.
// Systems are the only place decision logic and conflict pre-checks live;
// they read committed world state through the snapshot and never write.
package system

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/wormgrid/server/internal/core/action"
	"github.com/wormgrid/server/internal/core/ecs"
	"github.com/wormgrid/server/internal/core/request"
	"github.com/wormgrid/server/internal/world"
)

// System translates one request kind. Translate receives the read-only
// snapshot and returns the actions to enqueue, or a rejection explaining
// why no action was produced. Unhandled cases map to "no action", never to
// a swallowed error.
type System interface {
	RequestKind() request.Kind

	// Reset clears per-tick translation state (conflict claims). Called
	// once per tick before the first Translate.
	Reset()

	Translate(v *world.View, r request.Request) ([]action.Action, *Rejection)
}

// Reaction translates an applied action into follow-up actions. React runs
// right after the action applies and observes live (mid-application) world
// state — state is the only channel between actions. Reacts and Emits
// declare the static reaction graph validated at startup.
type Reaction interface {
	Reacts() action.Kind
	Emits() []action.Kind
	React(v *world.View, a action.Action) []action.Action
}

// Rejection reports a request that produced no action: a lost conflict or
// a failed pre-check. Not an error — the tick continues — but the losing
// side must be observable, so rejections travel on the tick result.
type Rejection struct {
	Entity ecs.EntityID
	Player uuid.UUID
	Kind   request.Kind
	Reason string
}

func reject(r request.Request, reason string) *Rejection {
	return &Rejection{
		Entity: r.Source(),
		Player: r.Player(),
		Kind:   r.Kind(),
		Reason: reason,
	}
}

// Registry maps request kinds to systems and action kinds to reactions.
type Registry struct {
	systems   map[request.Kind]System
	reactions map[action.Kind][]Reaction
}

func NewRegistry() *Registry {
	return &Registry{
		systems:   make(map[request.Kind]System, 8),
		reactions: make(map[action.Kind][]Reaction, 8),
	}
}

func (reg *Registry) Register(s System) error {
	if _, dup := reg.systems[s.RequestKind()]; dup {
		return fmt.Errorf("duplicate system for request kind %s", s.RequestKind())
	}
	reg.systems[s.RequestKind()] = s
	return nil
}

func (reg *Registry) RegisterReaction(r Reaction) {
	reg.reactions[r.Reacts()] = append(reg.reactions[r.Reacts()], r)
}

func (reg *Registry) System(k request.Kind) (System, bool) {
	s, ok := reg.systems[k]
	return s, ok
}

func (reg *Registry) Reactions(k action.Kind) []Reaction {
	return reg.reactions[k]
}

// ResetAll clears per-tick state on every registered system.
func (reg *Registry) ResetAll() {
	for _, s := range reg.systems {
		s.Reset()
	}
}

// Validate walks the declared reaction graph and rejects, at startup, any
// configuration whose chains could run away: a cycle, or a straight-line
// chain deeper than maxDepth hops. The runtime hop counter still guards
// dynamically; this catches bad wiring before the first tick.
func (reg *Registry) Validate(maxDepth int) error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[action.Kind]int)
	depth := make(map[action.Kind]int) // longest chain starting at kind

	var walk func(k action.Kind) error
	walk = func(k action.Kind) error {
		switch state[k] {
		case visiting:
			return fmt.Errorf("reaction cycle through action kind %s", k)
		case done:
			return nil
		}
		state[k] = visiting
		longest := 0
		for _, r := range reg.reactions[k] {
			for _, out := range r.Emits() {
				if err := walk(out); err != nil {
					return err
				}
				if d := depth[out] + 1; d > longest {
					longest = d
				}
			}
		}
		state[k] = done
		depth[k] = longest
		return nil
	}

	for k := range reg.reactions {
		if err := walk(k); err != nil {
			return err
		}
		if depth[k] > maxDepth {
			return fmt.Errorf("reaction chain from %s is %d hops deep, bound is %d",
				k, depth[k], maxDepth)
		}
	}
	return nil
}
