package component

import "github.com/google/uuid"

// Environment is the pseudo-player owning all non-player-controlled
// entities (resources, obstacles, wildlife).
var Environment = uuid.Nil

// Owner names the player an entity belongs to. Every spawned entity has
// exactly one owner; world-owned entities use Environment. Immutable — no
// transfer-of-ownership action exists.
type Owner struct {
	null   bool
	Player uuid.UUID
}

// NoOwner is the shared absent instance.
var NoOwner = &Owner{null: true}

func NewOwner(player uuid.UUID) *Owner {
	return &Owner{Player: player}
}

func (o *Owner) IsAbsent() bool { return o.null }

func (o *Owner) IsEnvironment() bool { return !o.null && o.Player == Environment }

func (o *Owner) OwnedBy(player uuid.UUID) bool { return !o.null && o.Player == player }
