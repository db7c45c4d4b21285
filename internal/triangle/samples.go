package triangle

// Sample is a labelled set of sides
type Sample struct {
	Sides Sides `json:"sides" yaml:"sides"`
	Want  Type  `json:"want" yaml:"want"`
}

var samples = []Sample{
	{Sides{1, 2, 9}, Invalid},
	{Sides{1, 9, 2}, Invalid},
	{Sides{2, 1, 9}, Invalid},
	{Sides{2, 9, 1}, Invalid},
	{Sides{9, 1, 2}, Invalid},
	{Sides{9, 2, 1}, Invalid},
	{Sides{1, 1, -1}, Invalid},
	{Sides{1, -1, 1}, Invalid},
	{Sides{-1, 1, 1}, Invalid},

	{Sides{1, 1, 1}, Equilateral},
	{Sides{100, 100, 100}, Equilateral},
	{Sides{99, 99, 99}, Equilateral},

	{Sides{100, 90, 90}, Isosceles},
	{Sides{90, 100, 90}, Isosceles},
	{Sides{90, 90, 100}, Isosceles},
	{Sides{2, 2, 3}, Isosceles},

	{Sides{5, 4, 3}, Scalene},
	{Sides{5, 3, 4}, Scalene},
	{Sides{4, 5, 3}, Scalene},
	{Sides{4, 3, 5}, Scalene},
	{Sides{3, 5, 4}, Scalene},
}

// Samples returns the reference corpus used by the run and benchmark tools.
// The slice is a copy and may be modified by the caller.
func Samples() []Sample {
	out := make([]Sample, len(samples))
	copy(out, samples)
	return out
}
