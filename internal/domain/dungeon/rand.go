package dungeon

import "strconv"

// Rand is the pseudo-random source every chance roll goes through, so tests
// can swap in a scripted sequence.
type Rand interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
}

// RollDice rolls num dice with the given number of sides.
func RollDice(rng Rand, num, sides int) int {
	if num <= 0 || sides <= 0 {
		return 0
	}
	total := 0
	for i := 0; i < num; i++ {
		total += rng.Intn(sides) + 1
	}
	return total
}

// RollDamageExpr evaluates a dice expression such as "2d4". A bare integer
// is returned as-is; anything unparseable degrades to 1.
func RollDamageExpr(rng Rand, expr string) int {
	numStr, sidesStr, found := cutDamageExpr(expr)
	if !found {
		if flat, err := strconv.Atoi(numStr); err == nil && flat > 0 {
			return flat
		}
		return 1
	}
	num, err1 := strconv.Atoi(numStr)
	sides, err2 := strconv.Atoi(sidesStr)
	if err1 != nil || err2 != nil || num <= 0 || sides <= 0 {
		return 1
	}
	return RollDice(rng, num, sides)
}

func cutDamageExpr(expr string) (before, after string, found bool) {
	for i := 0; i < len(expr); i++ {
		if expr[i] == 'd' || expr[i] == 'D' {
			return expr[:i], expr[i+1:], true
		}
	}
	return expr, "", false
}
