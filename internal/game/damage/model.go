package damage

// Offense is the attacker-side input to ComputeAction.
type Offense struct {
	// Bonus is flat damage added to every channel the payload touches.
	Bonus Vector
	// BonusPercent is the per-channel percentage bonus.
	BonusPercent Vector
	// Stats are the attacker's current (modified) stats.
	Stats Stats
	// SpellDamagePercent applies to magical payloads only.
	SpellDamagePercent int
}

// Formula is the payload-side input to ComputeAction.
type Formula struct {
	Base       Vector
	Scalars    Scalars
	Multiplier int
	Magical    bool
}

// Defense is the target-side input to Mitigate.
type Defense struct {
	Armor            Vector
	ArmorPercent     Vector
	ResistAll        int
	ResistAllPercent int
}

// ComputeAction computes the outgoing damage vector for a payload fired by an attacker.
//
// A channel is computed only when the payload's base value or any of its stat scalars
// for that channel is nonzero. The computation is integer math applied in this order:
//
//	v = base + bonus + Σ scalar×stat
//	v = v * (100 + bonusPercent) / 100
//	v = v * (100 + multiplier) / 100
//	v = v * (100 + spellDamagePercent) / 100   (magical payloads only)
//
// Postcondition: channels untouched by the payload are zero.
func ComputeAction(off Offense, f Formula) Vector {
	var out Vector
	for c := range out {
		ch := Channel(c)
		if f.Base[c] == 0 && !f.Scalars.Any(ch) {
			continue
		}
		v := f.Base[c] + off.Bonus[c] + f.Scalars[c].Dot(off.Stats)
		v = v * (100 + off.BonusPercent[c]) / 100
		v = v * (100 + f.Multiplier) / 100
		if f.Magical {
			v = v * (100 + off.SpellDamagePercent) / 100
		}
		out[c] = v
	}
	return out
}

// Mitigate converts an incoming damage vector into a signed health delta for a target.
//
// The result is negative for damage and positive for healing, so callers add it to
// health directly. Per channel with incoming x:
//   - armor percentage above 100 turns a positive hit into healing of
//     x*(armorPct-100)/100;
//   - resist-all percentage above 100 does the same, independently;
//   - when neither applies and x exceeds the channel's flat armor, the excess is
//     scaled by (100-armorPct)/100 then (100-resistAllPct)/100 and subtracted.
//
// Flat resist-all takes no part in mitigation.
func Mitigate(v Vector, def Defense) int {
	result := 0
	for c, x := range v {
		armorPct := def.ArmorPercent[c]
		overArmor := armorPct > 100 && x > 0
		overResist := def.ResistAllPercent > 100 && x > 0
		if overArmor {
			result -= x * (100 - armorPct) / 100
		}
		if overResist {
			result -= x * (100 - def.ResistAllPercent) / 100
		}
		if overArmor || overResist {
			continue
		}
		if x > def.Armor[c] {
			excess := x - def.Armor[c]
			excess = excess * (100 - armorPct) / 100
			excess = excess * (100 - def.ResistAllPercent) / 100
			result -= excess
		}
	}
	return result
}

// Heal returns flat + Σ scalar×stat.
func Heal(stats Stats, flat int, scalars Stats) int {
	return flat + scalars.Dot(stats)
}
