// Package roles classifies a six-stat attribute profile into one of a
// fixed set of functional battle roles.
package roles

import (
	"fmt"
	"strings"
)

type Role string

const (
	Offense  Role = "offense"
	Defense  Role = "defense"
	Support  Role = "support"
	Speed    Role = "speed"
	Balanced Role = "balanced"
)

const (
	// speedThreshold qualifies a profile for the speed role.
	speedThreshold = 90
	// attackFloor is the minimum an offensive stat must reach even when
	// it tops the profile. Same floor applies to the defensive pair.
	attackFloor  = 80
	defenseFloor = 80
)

// rolePriority breaks ties when a profile qualifies for several roles.
var rolePriority = []Role{Offense, Defense, Speed, Support, Balanced}

// spanishNames are the user-facing role labels, matching the prompt
// language of the workflows.
var spanishNames = map[Role]string{
	Offense:  "ataque",
	Defense:  "defensa",
	Support:  "soporte",
	Speed:    "velocidad",
	Balanced: "equilibrado",
}

// Classification is the result of classifying a stat profile.
type Classification struct {
	Role      Role   `json:"role"`
	Highlight string `json:"highlight"`
	Rationale string `json:"rationale"`
}

// Classify determines which role a six-stat profile best satisfies. It
// is pure and total: any profile yields a classification, falling back
// to Balanced.
func Classify(stats map[string]int) Classification {
	hp := stats["hp"]
	attack := stats["attack"]
	defense := stats["defense"]
	spAttack := stats["special-attack"]
	spDefense := stats["special-defense"]
	speed := stats["speed"]

	total := hp + attack + defense + spAttack + spDefense + speed
	profileMax := maxOf(hp, attack, defense, spAttack, spDefense, speed)

	qualified := map[Role]bool{Balanced: true}

	if best := maxOf(attack, spAttack); best == profileMax && best >= attackFloor {
		qualified[Offense] = true
	}
	if best := maxOf(defense, spDefense); best == profileMax && best >= defenseFloor {
		qualified[Defense] = true
	}
	if speed >= speedThreshold {
		qualified[Speed] = true
	}
	// Survivability high relative to the profile: hp strictly above the
	// six-stat mean. Integer comparison avoids float rounding, and a
	// flat profile stays balanced.
	if hp*6 > total {
		qualified[Support] = true
	}

	for _, role := range rolePriority {
		if qualified[role] {
			return describe(role, stats, total)
		}
	}
	return describe(Balanced, stats, total)
}

func describe(role Role, stats map[string]int, total int) Classification {
	switch role {
	case Offense:
		best := maxOf(stats["attack"], stats["special-attack"])
		return Classification{
			Role:      Offense,
			Highlight: fmt.Sprintf("Ataque: %d", best),
			Rationale: "Excelente para roles ofensivos con alto daño.",
		}
	case Defense:
		best := maxOf(stats["defense"], stats["special-defense"])
		return Classification{
			Role:      Defense,
			Highlight: fmt.Sprintf("Defensa: %d", best),
			Rationale: "Perfecto para aguantar ataques enemigos.",
		}
	case Speed:
		return Classification{
			Role:      Speed,
			Highlight: fmt.Sprintf("Velocidad: %d", stats["speed"]),
			Rationale: "Ideal para atacar primero en batalla.",
		}
	case Support:
		return Classification{
			Role:      Support,
			Highlight: fmt.Sprintf("HP: %d", stats["hp"]),
			Rationale: "Excelente para soporte con buena supervivencia.",
		}
	default:
		return Classification{
			Role:      Balanced,
			Highlight: fmt.Sprintf("Stats balanceadas (Total: %d)", total),
			Rationale: "Versátil, funciona en múltiples roles.",
		}
	}
}

// ParseRole matches free-text role input against the fixed role set.
// English role names and their Spanish labels are accepted; there is no
// fuzzy matching.
func ParseRole(raw string) (Role, bool) {
	token := strings.ToLower(strings.TrimSpace(raw))

	for role, spanish := range spanishNames {
		if token == string(role) || token == spanish {
			return role, true
		}
	}
	return "", false
}

// All returns the fixed role set in priority order.
func All() []Role {
	out := make([]Role, len(rolePriority))
	copy(out, rolePriority)
	return out
}

// SpanishName returns the user-facing label for a role.
func SpanishName(role Role) string {
	return spanishNames[role]
}

func maxOf(values ...int) int {
	best := values[0]
	for _, v := range values[1:] {
		if v > best {
			best = v
		}
	}
	return best
}
