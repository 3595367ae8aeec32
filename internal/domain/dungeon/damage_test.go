package dungeon

import "testing"

func TestResolveDamage_ResistanceHalvesFire(t *testing.T) {
	target := &Actor{Resistances: map[DamageType]int{DamageFire: 50}}
	got, tag := ResolveDamage(10, DamageFire, target)
	if got != 5 || tag != MitigationResisted {
		t.Fatalf("expected (5, resisted), got (%d, %q)", got, tag)
	}
}

func TestResolveDamage_ResistanceFloorsAtOne(t *testing.T) {
	target := &Actor{Resistances: map[DamageType]int{DamagePoison: 90}}
	got, tag := ResolveDamage(2, DamagePoison, target)
	if got != 1 || tag != MitigationResisted {
		t.Fatalf("expected (1, resisted), got (%d, %q)", got, tag)
	}

	// Even full resistance leaves a point through.
	got, _ = ResolveDamage(5, DamagePoison, &Actor{Resistances: map[DamageType]int{DamagePoison: 100}})
	if got != 1 {
		t.Fatalf("expected floor of 1 at 100%% resistance, got %d", got)
	}
}

func TestResolveDamage_VulnerabilityScalesUp(t *testing.T) {
	target := &Actor{Vulnerabilities: map[DamageType]int{DamageCold: 50}}
	got, tag := ResolveDamage(10, DamageCold, target)
	if got != 15 || tag != MitigationVulnerable {
		t.Fatalf("expected (15, vulnerable), got (%d, %q)", got, tag)
	}
}

func TestResolveDamage_FrozenTargetTakesBonusPhysical(t *testing.T) {
	target := &Actor{Effects: EffectSet{}}
	target.Effects.Install(NewStatusEffect(EffectFrozen, 5, 0, 1, 1, ""), StackModeReplace)

	got, tag := ResolveDamage(10, DamagePhysical, target)
	if got != 15 || tag != MitigationFrozen {
		t.Fatalf("expected (15, frozen) with default vulnerability, got (%d, %q)", got, tag)
	}

	target.Effects.Get(EffectFrozen).Magnitude = 100
	got, _ = ResolveDamage(10, DamagePhysical, target)
	if got != 20 {
		t.Fatalf("expected doubled physical at 100 magnitude, got %d", got)
	}
}

func TestResolveDamage_ZeroAndNegativeBase(t *testing.T) {
	target := &Actor{}
	if got, _ := ResolveDamage(0, DamageFire, target); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got, _ := ResolveDamage(-3, DamagePhysical, target); got != 0 {
		t.Fatalf("expected 0 for negative base, got %d", got)
	}
}

func TestResolveDamage_NeverIncreasesUnderResistance(t *testing.T) {
	target := &Actor{Resistances: map[DamageType]int{DamageLightning: 25}}
	prev := 1 << 30
	for base := 20; base >= 1; base-- {
		got, _ := ResolveDamage(base, DamageLightning, target)
		if got > base {
			t.Fatalf("resisted damage %d exceeds base %d", got, base)
		}
		if got > prev {
			t.Fatalf("damage not monotonic: base %d gave %d after %d", base, got, prev)
		}
		prev = got
	}
}
