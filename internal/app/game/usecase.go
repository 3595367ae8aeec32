package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"emberdelve/internal/app/depthcache"
	"emberdelve/internal/app/ports"
	"emberdelve/internal/app/recall"
	"emberdelve/internal/app/turn"
	"emberdelve/internal/domain/dungeon"
)

var (
	ErrInvalidRequest = errors.New("invalid game request")
	ErrUnknownAction  = errors.New("unknown action")
	ErrNoSession      = errors.New("no active run for hero")
	ErrHeroDead       = errors.New("the hero is dead")

	// ErrActionRejected wraps in-fiction refusals: the intent was well
	// formed but the world said no. No turn is spent.
	ErrActionRejected = errors.New("action rejected")
)

// UseCase owns the live runs. Each hero has at most one session; a session
// holds the active world plus the per-run machinery built around it.
type UseCase struct {
	Templates dungeon.TemplateRepository
	MapGen    ports.MapGenerator
	Spawner   ports.EntitySpawner
	Rand      ports.RandomSource
	SaveRepo  ports.SaveRepository
	EventRepo ports.EventRepository
	Tx        ports.TxManager
	Logger    *log.Logger
	Now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu     sync.Mutex
	world  *dungeon.World
	cache  *depthcache.Cache
	recall *recall.Controller
	sched  *turn.Scheduler
	ident  depthcache.IdentificationState
	seen   int
}

func (u *UseCase) logger() *log.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return log.Default()
}

func (u *UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

func (u *UseCase) newSession() *session {
	cache := depthcache.NewCache(u.MapGen, u.Spawner, u.Templates, u.Rand)
	rc := recall.NewController(cache)
	return &session{
		cache:  cache,
		recall: rc,
		sched:  turn.NewScheduler(u.Rand, u.Templates, rc, cache, u.logger()),
		ident:  depthcache.IdentificationState{Obscured: map[string]string{}},
	}
}

func (u *UseCase) session(heroID string) (*session, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	s, ok := u.sessions[heroID]
	return s, ok
}

func (u *UseCase) storeSession(heroID string, s *session) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.sessions == nil {
		u.sessions = map[string]*session{}
	}
	u.sessions[heroID] = s
}

// StartRun begins a fresh run on the surface for the given hero, replacing
// any session already in memory.
func (u *UseCase) StartRun(ctx context.Context, heroID, heroName string) (Response, error) {
	if heroID == "" {
		return Response{}, ErrInvalidRequest
	}
	if heroName == "" {
		heroName = "the delver"
	}
	s := u.newSession()
	player := dungeon.NewPlayer(heroName, dungeon.Position{})
	w, err := s.cache.EnterDepth(player, 0, 0, true)
	if err != nil {
		return Response{}, fmt.Errorf("start run: %w", err)
	}
	w.LogEvent("You stand at the mouth of the delve.")
	s.world = w
	u.storeSession(heroID, s)
	return u.snapshot(ctx, heroID, s, nil), nil
}

// Observe returns the current view without spending a turn.
func (u *UseCase) Observe(ctx context.Context, heroID string) (Response, error) {
	s, ok := u.session(heroID)
	if !ok {
		return Response{}, ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return u.viewLocked(s), nil
}

// Act applies one player intent and, when the intent is accepted, advances
// the turn pipeline once.
func (u *UseCase) Act(ctx context.Context, req Request) (Response, error) {
	if req.HeroID == "" || req.Action == "" {
		return Response{}, ErrInvalidRequest
	}
	s, ok := u.session(req.HeroID)
	if !ok {
		return Response{}, ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.world
	if w == nil || w.Player == nil {
		return Response{}, ErrNoSession
	}
	if !w.Player.Alive() {
		return u.viewLocked(s), ErrHeroDead
	}

	if err := u.applyAction(ctx, s, req); err != nil {
		return u.viewLocked(s), err
	}

	hpBefore := s.world.Player.HP
	next, phaseErrs := s.sched.Advance(ctx, s.world)
	if next != s.world {
		s.world = next
		s.seen = 0
	}
	if s.world.Player.HP < hpBefore {
		s.sched.NotePlayerDamage(s.world.Time)
	}

	resp := u.snapshot(ctx, req.HeroID, s, phaseErrs)
	return resp, nil
}

func (u *UseCase) applyAction(ctx context.Context, s *session, req Request) error {
	w := s.world
	switch req.Action {
	case "move":
		return u.movePlayer(s, req.DX, req.DY)
	case "wait":
		return nil
	case "disarm":
		s.sched.Dispatcher().Disarm(w, dungeon.Position{X: req.X, Y: req.Y}, req.ToolBonus)
		return nil
	case "open_chest":
		s.sched.Dispatcher().OpenChest(w, dungeon.Position{X: req.X, Y: req.Y}, req.ToolBonus)
		return nil
	case "recall":
		if err := s.recall.Activate(ctx, w, req.Anchor); err != nil {
			return fmt.Errorf("%w: %v", ErrActionRejected, err)
		}
		return nil
	case "bind_anchor":
		return recall.BindAnchor(w, req.Anchor)
	case "remove_anchor":
		if err := recall.RemoveAnchor(w, req.Anchor); err != nil {
			return fmt.Errorf("%w: %v", ErrActionRejected, err)
		}
		return nil
	case "descend":
		return u.takeStairs(w, byte(dungeon.TileStairsDown), w.Depth+1)
	case "ascend":
		if w.Depth == 0 {
			return fmt.Errorf("%w: there is nothing above the surface", ErrActionRejected)
		}
		return u.takeStairs(w, byte(dungeon.TileStairsUp), w.Depth-1)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
}

func (u *UseCase) movePlayer(s *session, dx, dy int) error {
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 || (dx == 0 && dy == 0) {
		return ErrInvalidRequest
	}
	w := s.world
	player := w.Player
	dest := dungeon.Position{X: player.Position.X + dx, Y: player.Position.Y + dy}
	if target := w.MonsterAt(dest); target != nil {
		u.meleeAttack(s, target)
		return nil
	}
	if !w.Walkable(dest) {
		tile, ok := w.TileAt(dest)
		switch {
		case ok && tile == byte(dungeon.TileDoorClosed):
			w.Grid[dest.Y][dest.X] = byte(dungeon.TileDoorOpen)
			w.MarkDirtyTile(dest.X, dest.Y)
			w.LogEvent("You push the door open.")
			return nil
		case ok && tile == byte(dungeon.TileSecretDoorFound):
			w.Grid[dest.Y][dest.X] = byte(dungeon.TileDoorOpen)
			delete(w.SecretDoors, dest)
			w.MarkDirtyTile(dest.X, dest.Y)
			w.LogEvent("The hidden door swings open.")
			return nil
		}
		return fmt.Errorf("%w: you cannot move there", ErrActionRejected)
	}
	prev := player.Position
	w.PrevPlayerPos = &prev
	player.Position = dest
	return nil
}

func (u *UseCase) meleeAttack(s *session, target *dungeon.Actor) {
	w := s.world
	player := w.Player
	base := dungeon.RollDice(u.Rand, 1, 4) + player.StatModifier("str")
	if base < 1 {
		base = 1
	}
	dmg, tag := dungeon.ResolveDamage(base, dungeon.DamagePhysical, target)
	target.WakeUp()
	died := target.TakeDamage(dmg)
	msg := fmt.Sprintf("You strike %s for %d damage", target.Name, dmg)
	switch tag {
	case dungeon.MitigationResisted:
		msg += " (resisted)"
	case dungeon.MitigationVulnerable, dungeon.MitigationFrozen:
		msg += " (vulnerable)"
	}
	w.LogEvent(msg + ".")
	dungeon.CreateNoise(w, u.Rand, target.Position, 6, 5)
	if died {
		dungeon.ProcessMonsterDeaths(w)
	}
}

func (u *UseCase) takeStairs(w *dungeon.World, tile byte, target int) error {
	if cur, ok := w.TileAt(w.Player.Position); !ok || cur != tile {
		return fmt.Errorf("%w: there is no staircase here", ErrActionRejected)
	}
	w.PendingDepthChange = &target
	return nil
}

// snapshot builds the response and journals the turn's fresh events.
func (u *UseCase) snapshot(ctx context.Context, heroID string, s *session, phaseErrs []turn.PhaseError) Response {
	resp := u.viewLocked(s)
	for _, pe := range phaseErrs {
		resp.Warnings = append(resp.Warnings, pe.Error())
	}
	if u.EventRepo != nil && len(resp.Events) > 0 {
		batch := make([]ports.TurnEvent, 0, len(resp.Events))
		for _, msg := range resp.Events {
			batch = append(batch, ports.TurnEvent{
				HeroID:     heroID,
				Turn:       resp.Turn,
				Depth:      resp.Depth,
				Message:    msg,
				OccurredAt: u.now(),
			})
		}
		if err := u.EventRepo.Append(ctx, heroID, batch); err != nil {
			u.logger().Printf("append turn events: %v", err)
		}
	}
	return resp
}

// viewLocked renders the session. Caller holds s.mu.
func (u *UseCase) viewLocked(s *session) Response {
	w := s.world
	player := w.Player
	// s.seen is a cursor into the world's monotonic event count, not the
	// trimmed log slice, so events keep flowing after the log saturates.
	full := w.EventLog()
	total := w.EventsLogged()
	if s.seen > total {
		s.seen = total
	}
	n := total - s.seen
	if n > len(full) {
		n = len(full)
	}
	fresh := append([]string(nil), full[len(full)-n:]...)
	s.seen = total

	var effects []string
	for _, eff := range player.Effects.Active() {
		effects = append(effects, eff.Name)
	}
	return Response{
		Turn:  w.Time,
		Depth: w.Depth,
		Player: PlayerView{
			Name:        player.Name,
			HP:          player.HP,
			MaxHP:       player.MaxHP,
			Mana:        player.Mana,
			MaxMana:     player.MaxMana,
			Level:       player.Level,
			XP:          player.XP,
			Depth:       player.Depth,
			X:           player.Position.X,
			Y:           player.Position.Y,
			Hunger:      player.Hunger,
			LightFuel:   player.LightFuel,
			Encumbrance: player.EncumbranceLevel,
			Effects:     effects,
			RecallTurns: s.recall.TurnsLeft(),
		},
		Events:   fresh,
		GameOver: !player.Alive(),
	}
}

// Save exports the full run and stores it under the hero's ID.
func (u *UseCase) Save(ctx context.Context, heroID string) error {
	s, ok := u.session(heroID)
	if !ok {
		return ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := s.cache.ExportFullSave(s.world, s.ident)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	rec := ports.SaveRecord{HeroID: heroID, Payload: raw, SavedAt: u.now()}
	if u.Tx != nil {
		return u.Tx.RunInTx(ctx, func(txCtx context.Context) error {
			return u.SaveRepo.Put(txCtx, rec)
		})
	}
	return u.SaveRepo.Put(ctx, rec)
}

// Load restores a run from storage, replacing any in-memory session.
func (u *UseCase) Load(ctx context.Context, heroID string) (Response, error) {
	if heroID == "" {
		return Response{}, ErrInvalidRequest
	}
	rec, err := u.SaveRepo.GetByHeroID(ctx, heroID)
	if err != nil {
		return Response{}, err
	}
	var payload depthcache.SavePayload
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		return Response{}, fmt.Errorf("decode save: %w", err)
	}

	s := u.newSession()
	w, ident, err := s.cache.ImportFullSave(&payload)
	if err != nil {
		return Response{}, err
	}
	s.world = w
	s.ident = ident
	w.LogEvent("You pick up where you left off.")
	u.storeSession(heroID, s)

	s.mu.Lock()
	defer s.mu.Unlock()
	return u.viewLocked(s), nil
}

// History returns the persisted event journal for the hero.
func (u *UseCase) History(ctx context.Context, heroID string, limit int) ([]ports.TurnEvent, error) {
	if heroID == "" {
		return nil, ErrInvalidRequest
	}
	if u.EventRepo == nil {
		return nil, nil
	}
	return u.EventRepo.ListByHeroID(ctx, heroID, limit)
}
