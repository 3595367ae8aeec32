package dungeon

// Tile symbols used by the map grid.
const (
	TileFloor           = '.'
	TileWall            = '#'
	TileStairsUp        = '<'
	TileStairsDown      = '>'
	TileDoorOpen        = '\''
	TileDoorClosed      = '+'
	TileSecretDoor      = '&'
	TileSecretDoorFound = ';'
)

// Rect is an axis-aligned room, half-open on x2/y2.
type Rect struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (r Rect) Center() Position {
	return Position{X: (r.X1 + r.X2) / 2, Y: (r.Y1 + r.Y2) / 2}
}

func (r Rect) Contains(p Position) bool {
	return r.X1 <= p.X && p.X < r.X2 && r.Y1 <= p.Y && p.Y < r.Y2
}

// NoiseEvent is a transient stimulus that can wake sleeping monsters. It is
// pruned once the decay window elapses.
type NoiseEvent struct {
	Pos       Position `json:"pos"`
	Radius    int      `json:"radius"`
	Intensity int      `json:"intensity"`
	Turn      int64    `json:"turn"`
}

type Projectile struct {
	From       Position   `json:"from"`
	To         Position   `json:"to"`
	Damage     int        `json:"damage"`
	DamageType DamageType `json:"damage_type"`
	Source     string     `json:"source"`
}

// World is the live mutable state of one depth plus the global clock. It is
// owned by the game session and passed by reference into every subsystem
// call; subsystems never keep a handle to it between calls.
type World struct {
	Depth int
	Time  int64

	Grid   [][]byte
	Width  int
	Height int
	Rooms  []Rect

	Player   *Actor
	Monsters []*Actor

	GroundItems  map[Position][]string
	Traps        map[Position]*TrapRecord
	Chests       map[Position]*ChestRecord
	KnownTraps   map[Position]bool
	SecretDoors  map[Position]int
	Explored     [][]bool
	LitRooms     map[int]bool
	DeathDropLog []string

	NoiseEvents []NoiseEvent
	Projectiles []Projectile

	// Set by a drop_level trap; consumed by the turn scheduler.
	PendingDepthChange *int

	PrevPlayerPos *Position

	eventLog    []string
	eventsTotal int
	dirtyTiles  map[Position]struct{}
}

func NewWorld(depth int, grid [][]byte, rooms []Rect) *World {
	w := &World{
		Depth:       depth,
		Grid:        grid,
		Rooms:       rooms,
		GroundItems: map[Position][]string{},
		Traps:       map[Position]*TrapRecord{},
		Chests:      map[Position]*ChestRecord{},
		KnownTraps:  map[Position]bool{},
		SecretDoors: map[Position]int{},
		LitRooms:    map[int]bool{},
	}
	w.Height = len(grid)
	if w.Height > 0 {
		w.Width = len(grid[0])
	}
	w.Explored = make([][]bool, w.Height)
	for y := range w.Explored {
		w.Explored[y] = make([]bool, w.Width)
	}
	return w
}

func (w *World) InBounds(p Position) bool {
	return p.X >= 0 && p.X < w.Width && p.Y >= 0 && p.Y < w.Height
}

func (w *World) TileAt(p Position) (byte, bool) {
	if !w.InBounds(p) {
		return 0, false
	}
	return w.Grid[p.Y][p.X], true
}

func (w *World) Walkable(p Position) bool {
	tile, ok := w.TileAt(p)
	if !ok {
		return false
	}
	switch tile {
	case TileFloor, TileStairsUp, TileStairsDown, TileDoorOpen:
		return true
	}
	return false
}

func (w *World) MonsterAt(p Position) *Actor {
	for _, m := range w.Monsters {
		if m.Alive() && m.Position == p {
			return m
		}
	}
	return nil
}

func (w *World) ActorAt(p Position) *Actor {
	if w.Player != nil && w.Player.Alive() && w.Player.Position == p {
		return w.Player
	}
	return w.MonsterAt(p)
}

// PlacementValid reports whether an actor may stand on the tile.
func (w *World) PlacementValid(p Position) bool {
	return w.Walkable(p) && w.ActorAt(p) == nil
}

// NearestValidPlacement walks outward from p until it finds a free walkable
// tile, so teleports and recalls never land an actor inside a wall or on
// top of another actor.
func (w *World) NearestValidPlacement(p Position) (Position, bool) {
	if w.PlacementValid(p) {
		return p, true
	}
	maxRing := w.Width + w.Height
	for ring := 1; ring <= maxRing; ring++ {
		for dy := -ring; dy <= ring; dy++ {
			for dx := -ring; dx <= ring; dx++ {
				if max(abs(dx), abs(dy)) != ring {
					continue
				}
				cand := Position{X: p.X + dx, Y: p.Y + dy}
				if w.PlacementValid(cand) {
					return cand, true
				}
			}
		}
	}
	return Position{}, false
}

// FindTile returns the first occurrence of a tile symbol, scanning rows.
func (w *World) FindTile(tile byte) (Position, bool) {
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			if w.Grid[y][x] == tile {
				return Position{X: x, Y: y}, true
			}
		}
	}
	return Position{}, false
}

// LogEvent appends to the bounded in-world message log, dropping the oldest
// entry past capacity.
func (w *World) LogEvent(message string) {
	w.eventLog = append(w.eventLog, message)
	w.eventsTotal++
	if len(w.eventLog) > EventLogCapacity {
		w.eventLog = w.eventLog[len(w.eventLog)-EventLogCapacity:]
	}
}

func (w *World) EventLog() []string {
	out := make([]string, len(w.eventLog))
	copy(out, w.eventLog)
	return out
}

// EventsLogged counts every event ever logged on this world, including the
// ones the bounded log has already dropped. Readers that poll the log use it
// to tell new entries from trimmed ones.
func (w *World) EventsLogged() int {
	return w.eventsTotal
}

func (w *World) MarkDirtyTile(x, y int) {
	if !w.InBounds(Position{X: x, Y: y}) {
		return
	}
	if w.dirtyTiles == nil {
		w.dirtyTiles = map[Position]struct{}{}
	}
	w.dirtyTiles[Position{X: x, Y: y}] = struct{}{}
}

// ConsumeDirtyMapTiles drains the accumulated set of changed tiles. The
// rendering layer calls this once per frame.
func (w *World) ConsumeDirtyMapTiles() []Position {
	out := make([]Position, 0, len(w.dirtyTiles))
	for p := range w.dirtyTiles {
		out = append(out, p)
	}
	w.dirtyTiles = nil
	return out
}

func (w *World) DropItems(p Position, items []string) {
	if len(items) == 0 {
		return
	}
	w.GroundItems[p] = append(w.GroundItems[p], items...)
	w.MarkDirtyTile(p.X, p.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
