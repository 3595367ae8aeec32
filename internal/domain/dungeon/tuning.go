package dungeon

const (
	// Saving throws against harmful status effects.
	SaveBaseDC            = 12
	SaveMagnitudePivot    = 5
	SavePartialBand       = 5
	SavePartialBandScale  = 5.0
	DefaultEffectDuration = 10

	// Trap handling.
	DetectChanceMin        = 5.0
	DetectChanceMax        = 95.0
	TrapDetectBase         = 15
	ChestDetectBase        = 10
	DisarmChanceBase       = 20
	DisarmFailTriggerPct   = 0.35
	ChestBypassChanceMin   = 5
	ChestBypassChanceMax   = 80
	ChestBypassBase        = 10
	DefaultTrapDifficulty  = 50
	DefaultChestDifficulty = 40

	DefaultSecretDoorDifficulty  = 40
	SecretDoorDifficultyPerDepth = 2

	// Hunger.
	HungerTurnDecayBase      = 2
	HungerMinDecay           = 1
	HungerWellFedThreshold   = 800
	HungerSatiatedThreshold  = 600
	HungerHungryThreshold    = 300
	HungerWeakThreshold      = 150
	HungerWeakDamageInterval = 10
	HungerStarvingDamage     = 2
	DefaultMaxHunger         = 1000

	// Per-turn upkeep.
	ManaRegenInterval        = 5
	NoiseDecayTurns          = 3
	EventLogCapacity         = 50
	EncumbranceWarnInterval  = 50
	LightRadiusLit           = 5
	LightRadiusDark          = 2
	OverweightCapacityPerSTR = 100

	// Recall.
	RecallDelayTurns    = 20
	RecallCooldownTurns = 200
	RecallWarnInterval  = 5
	RecallSpellName     = "recall"

	// Depth generation.
	TrapDensityBase     = 0.01
	TrapDensityPerDepth = 0.0005
	TrapDensityCap      = 0.04
	RoomChestChance     = 0.3
)

// FrozenDefaultVulnerability is the bonus physical vulnerability percent a
// Frozen effect confers when its magnitude is unset. Bespoke source number,
// kept for compatibility; tunable, not load-bearing.
const FrozenDefaultVulnerability = 50
