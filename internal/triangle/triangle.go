// Package triangle classifies three integer side lengths.
package triangle

// Classify returns the triangle type formed by sides a, b and c.
// Any ordering of the same three values yields the same result.
// Zero, negative and degenerate (x + y == z) inputs are Invalid.
func Classify(a, b, c int) Type {
	x, y, z := sort3(a, b, c)

	if !strictInequality(x, y, z) {
		return Invalid
	}

	switch {
	case x == z:
		return Equilateral
	case x == y || y == z:
		return Isosceles
	default:
		return Scalene
	}
}

// strictInequality reports x + y > z for x <= y <= z without overflowing int.
func strictInequality(x, y, z int) bool {
	// x <= 0 implies x + y <= y <= z
	if x <= 0 {
		return false
	}
	// z >= y > 0 so z - y cannot wrap
	return x > z-y
}

func sort3(a, b, c int) (int, int, int) {
	if a > b {
		a, b = b, a
	}
	if a > c {
		a, c = c, a
	}
	if b > c {
		b, c = c, b
	}
	return a, b, c
}
