package triangle

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownType is returned when a name does not match any Type
var ErrUnknownType = errors.New("unknown triangle type")

// Type is the classification of three side lengths
type Type int

const (
	Invalid Type = iota
	Scalene
	Equilateral
	Isosceles
)

var typeNames = [...]string{
	Invalid:     "INVALID",
	Scalene:     "SCALENE",
	Equilateral: "EQUILATERAL",
	Isosceles:   "ISOSCELES",
}

// Types lists every classification in declaration order
func Types() []Type {
	return []Type{Invalid, Scalene, Equilateral, Isosceles}
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// IsValid reports whether t is one of the declared types
func (t Type) IsValid() bool {
	return t >= Invalid && int(t) < len(typeNames)
}

// ParseType resolves a type name, case-insensitively
func ParseType(s string) (Type, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return Invalid, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Type) MarshalYAML() (any, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	return t.String(), nil
}

func (t *Type) UnmarshalYAML(value *yaml.Node) error {
	return t.UnmarshalText([]byte(value.Value))
}

// Sides holds three side lengths as given by the caller
type Sides struct {
	A int `json:"a" yaml:"a"`
	B int `json:"b" yaml:"b"`
	C int `json:"c" yaml:"c"`
}

// Sorted returns the sides reordered so that A <= B <= C
func (s Sides) Sorted() Sides {
	x, y, z := sort3(s.A, s.B, s.C)
	return Sides{A: x, B: y, C: z}
}

// Permutations returns all six orderings of the sides
func (s Sides) Permutations() [6]Sides {
	a, b, c := s.A, s.B, s.C
	return [6]Sides{
		{a, b, c}, {a, c, b},
		{b, a, c}, {b, c, a},
		{c, a, b}, {c, b, a},
	}
}

// Classify is shorthand for Classify(s.A, s.B, s.C)
func (s Sides) Classify() Type {
	return Classify(s.A, s.B, s.C)
}

func (s Sides) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s.A, s.B, s.C)
}
