package game

// Request is one player intent. Exactly one action runs per request; the
// turn pipeline advances only when the action is accepted.
type Request struct {
	HeroID string `json:"hero_id"`
	Action string `json:"action"`

	// Move deltas, each -1..1.
	DX int `json:"dx,omitempty"`
	DY int `json:"dy,omitempty"`

	// Tile target for disarm and open_chest.
	X int `json:"x,omitempty"`
	Y int `json:"y,omitempty"`

	// Tool quality bonus granted by carried picks and probes.
	ToolBonus int `json:"tool_bonus,omitempty"`

	// Anchor name for bind_anchor and remove_anchor.
	Anchor string `json:"anchor,omitempty"`
}

// PlayerView is the client-facing slice of the hero's state.
type PlayerView struct {
	Name        string   `json:"name"`
	HP          int      `json:"hp"`
	MaxHP       int      `json:"max_hp"`
	Mana        int      `json:"mana"`
	MaxMana     int      `json:"max_mana"`
	Level       int      `json:"level"`
	XP          int      `json:"xp"`
	Depth       int      `json:"depth"`
	X           int      `json:"x"`
	Y           int      `json:"y"`
	Hunger      int      `json:"hunger"`
	LightFuel   int      `json:"light_fuel"`
	Encumbrance string   `json:"encumbrance"`
	Effects     []string `json:"effects"`
	RecallTurns int      `json:"recall_turns"`
}

// Response is returned from every game operation.
type Response struct {
	Turn     int64      `json:"turn"`
	Depth    int        `json:"depth"`
	Player   PlayerView `json:"player"`
	Events   []string   `json:"events"`
	Warnings []string   `json:"warnings,omitempty"`
	GameOver bool       `json:"game_over"`
}
