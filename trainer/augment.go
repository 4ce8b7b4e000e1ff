package trainer

// Symmetry is an element of the dihedral group of the board: Rotations
// quarter turns counterclockwise, then a left-right mirror if Mirror is set.
type Symmetry struct {
	Rotations int
	Mirror    bool
}

// Symmetries lists the 8 board symmetries in augmentation order. Quarter
// turns change the shape of a non-square board, so such a board only has
// identity, half turn and the two mirrors. Each of them is listed twice to
// keep 8 samples per ply.
func Symmetries(height, width int) []Symmetry {
	if height == width {
		syms := make([]Symmetry, 0, 8)
		for r := 1; r <= 4; r++ {
			syms = append(syms, Symmetry{Rotations: r % 4}, Symmetry{Rotations: r % 4, Mirror: true})
		}
		return syms
	}
	// A half turn followed by a left-right mirror is the up-down mirror
	rect := []Symmetry{{Rotations: 0}, {Rotations: 2}, {Mirror: true}, {Rotations: 2, Mirror: true}}
	return append(rect, rect...)
}

// target returns where cell (r, c) of a height x width grid moves to.
func (s Symmetry) target(r, c, height, width int) (int, int) {
	h, w := height, width
	for i := 0; i < ((s.Rotations%4)+4)%4; i++ {
		r, c = w-1-c, r // Counterclockwise quarter turn
		h, w = w, h
	}
	if s.Mirror {
		c = w - 1 - c
	}
	return r, c
}

// Apply transforms a row-major height x width grid. The result keeps the
// grid's shape for every symmetry returned by Symmetries.
func (s Symmetry) Apply(grid []float64, height, width int) []float64 {
	out := make([]float64, len(grid))
	outWidth := width
	if s.Rotations%2 != 0 {
		outWidth = height
	}
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			tr, tc := s.target(r, c, height, width)
			out[tr*outWidth+tc] = grid[r*width+c]
		}
	}
	return out
}

// Compose returns the symmetry equal to applying s, then t.
func (s Symmetry) Compose(t Symmetry) Symmetry {
	// Moving a rotation past a mirror reverses it: M R^k = R^-k M
	rot := t.Rotations
	if s.Mirror {
		rot = -rot
	}
	return Symmetry{
		Rotations: (((s.Rotations + rot) % 4) + 4) % 4,
		Mirror:    s.Mirror != t.Mirror,
	}
}

// Augment expands an episode into 8 samples per ply, transforming every
// state plane and the search distribution identically. Outcomes are copied.
func Augment(episode []Sample, height, width int) []Sample {
	syms := Symmetries(height, width)
	out := make([]Sample, 0, len(episode)*len(syms))
	for _, s := range episode {
		for _, sym := range syms {
			planes := make([][]float64, len(s.State))
			for i, plane := range s.State {
				planes[i] = sym.Apply(plane, height, width)
			}
			out = append(out, Sample{
				State:   planes,
				Probs:   sym.Apply(s.Probs, height, width),
				Outcome: s.Outcome,
			})
		}
	}
	return out
}
