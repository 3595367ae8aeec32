package dungeon

// MitigationTag describes how resistance math changed a damage number. It
// feeds message composition only.
type MitigationTag string

const (
	MitigationNone       MitigationTag = ""
	MitigationResisted   MitigationTag = "resisted"
	MitigationVulnerable MitigationTag = "vulnerable"
	MitigationFrozen     MitigationTag = "frozen"
)

// ResolveDamage applies the target's resistance or vulnerability percentage
// for the damage type. Resistance never reduces positive damage below 1.
// Physical damage against a Frozen target gains the frozen bonus instead of
// a percent lookup. Pure; the caller mutates hit points.
func ResolveDamage(base int, damageType DamageType, target *Actor) (int, MitigationTag) {
	if base <= 0 {
		return 0, MitigationNone
	}

	if damageType == DamagePhysical {
		if frozen := target.Effects.Get(EffectFrozen); frozen != nil {
			vuln := frozen.Magnitude
			if vuln <= 0 {
				vuln = FrozenDefaultVulnerability
			}
			modified := int(float64(base) * (1.0 + float64(vuln)/100.0))
			if modified > base {
				return modified, MitigationFrozen
			}
		}
		return base, MitigationNone
	}

	if pct, ok := target.Resistances[damageType]; ok && pct != 0 {
		factor := 1.0 - float64(pct)/100.0
		if factor < 0 {
			factor = 0
		}
		modified := int(float64(base) * factor)
		if modified < 1 {
			modified = 1
		}
		if modified < base {
			return modified, MitigationResisted
		}
		return modified, MitigationNone
	}

	if pct, ok := target.Vulnerabilities[damageType]; ok && pct != 0 {
		modified := int(float64(base) * (1.0 + float64(pct)/100.0))
		if modified > base {
			return modified, MitigationVulnerable
		}
		return modified, MitigationNone
	}

	return base, MitigationNone
}
