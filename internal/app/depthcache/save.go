package depthcache

import (
	"encoding/json"
	"fmt"

	"emberdelve/internal/domain/dungeon"
)

const saveVersion = 1

// IdentificationState tracks which item templates the player has learned and
// the scrambled display names assigned to the rest.
type IdentificationState struct {
	Identified []string          `json:"identified"`
	Obscured   map[string]string `json:"unidentified_names"`
}

// SavePayload is the versioned on-disk shape of a whole run: the player, the
// active depth, every cached floor, and run-scoped extras.
type SavePayload struct {
	Version      int                   `json:"version"`
	Time         int64                 `json:"time"`
	CurrentDepth int                   `json:"current_depth"`
	Player       json.RawMessage       `json:"player"`
	DepthState   map[int]DepthSnapshot `json:"depth_state"`
	Data         SaveExtras            `json:"data"`
}

// SaveExtras holds run state that belongs to neither a depth nor the actor.
type SaveExtras struct {
	Identification IdentificationState `json:"identification"`
}

// ExportFullSave folds the live world back into the cache and emits the
// complete payload.
func (c *Cache) ExportFullSave(w *dungeon.World, ident IdentificationState) (*SavePayload, error) {
	if w == nil || w.Player == nil {
		return nil, fmt.Errorf("no active world to save")
	}
	c.LeaveDepth(w)

	rawPlayer, err := json.Marshal(w.Player)
	if err != nil {
		return nil, fmt.Errorf("encode player: %w", err)
	}
	payload := &SavePayload{
		Version:      saveVersion,
		Time:         w.Time,
		CurrentDepth: w.Depth,
		Player:       rawPlayer,
		DepthState:   map[int]DepthSnapshot{},
		Data:         SaveExtras{Identification: ident},
	}
	for depth, snap := range c.snapshots {
		payload.DepthState[depth] = snap
	}
	return payload, nil
}

// ImportFullSave replaces the cache contents with the payload's depth state
// and rebuilds the active world. The version gate is strict; everything
// below it is best-effort, with unreadable records dropped one at a time.
func (c *Cache) ImportFullSave(payload *SavePayload) (*dungeon.World, IdentificationState, error) {
	var ident IdentificationState
	if payload == nil {
		return nil, ident, fmt.Errorf("empty save payload")
	}
	if payload.Version != saveVersion {
		return nil, ident, fmt.Errorf("unsupported save version %d", payload.Version)
	}

	var player dungeon.Actor
	if err := json.Unmarshal(payload.Player, &player); err != nil {
		return nil, ident, fmt.Errorf("decode player: %w", err)
	}
	if player.Effects == nil {
		player.Effects = dungeon.EffectSet{}
	}

	c.snapshots = map[int]DepthSnapshot{}
	for depth, snap := range payload.DepthState {
		c.snapshots[depth] = snap
	}

	var w *dungeon.World
	if snap, ok := c.snapshots[payload.CurrentDepth]; ok {
		w = restoreDepth(payload.CurrentDepth, snap, c.templates)
		w.Time = payload.Time
		w.Player = &player
		if w.Player.Position == (dungeon.Position{}) || !w.Walkable(w.Player.Position) {
			if spot, found := w.FindTile(byte(dungeon.TileStairsUp)); found {
				w.Player.Position = spot
			}
		}
		dungeon.RecomputeVisibility(w)
	} else {
		// A save can record a depth whose snapshot was lost or stripped.
		// Carve that floor fresh instead of refusing the whole load.
		var err error
		w, err = c.EnterDepth(&player, payload.CurrentDepth, payload.Time, true)
		if err != nil {
			return nil, ident, fmt.Errorf("regenerate depth %d: %w", payload.CurrentDepth, err)
		}
	}

	ident = payload.Data.Identification
	if ident.Obscured == nil {
		ident.Obscured = map[string]string{}
	}
	return w, ident, nil
}
