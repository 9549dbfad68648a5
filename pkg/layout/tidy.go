package layout

import "math"

// contour holds, per depth below a subtree's root, the leftmost and rightmost
// card edge relative to the root unit's centre.
type contour struct {
	left, right []float64
}

// packer implements the tidy tree: every subtree is packed against its left
// neighbour as tightly as the separation rules allow, and every parent is
// centred over its first and last child.
type packer struct {
	siblingGap float64 // edge gap between children of the same unit
	cousinGap  float64 // edge gap between people with different parents
	memberStep float64 // centre distance between partners inside a unit
	extent     float64 // card size along the sibling axis
}

func (p packer) width(u *unit) float64 {
	return float64(len(u.members)-1)*p.memberStep + p.extent
}

// place lays out the subtree below u, fills u.offsets and returns the
// subtree's contour. When virtual is set, u is the super-root: its own row is
// not part of the contour and its children are separated as cousins.
func (p packer) place(u *unit, virtual bool) contour {
	var merged contour
	positions := make([]float64, len(u.children))

	for i, c := range u.children {
		cc := p.place(c, false)
		shift := 0.0
		if i > 0 {
			shift = math.Inf(-1)
			for d := 0; d < len(cc.left) && d < len(merged.left); d++ {
				gap := p.cousinGap
				if d == 0 && !virtual {
					gap = p.siblingGap
				}
				shift = math.Max(shift, merged.right[d]+gap-cc.left[d])
			}
		}
		positions[i] = shift
		for d := range cc.left {
			if d < len(merged.left) {
				merged.right[d] = cc.right[d] + shift
				continue
			}
			merged.left = append(merged.left, cc.left[d]+shift)
			merged.right = append(merged.right, cc.right[d]+shift)
		}
	}

	mid := 0.0
	if n := len(positions); n > 0 {
		mid = (positions[0] + positions[n-1]) / 2
	}
	u.offsets = make([]float64, len(positions))
	for i, pos := range positions {
		u.offsets[i] = pos - mid
	}

	var out contour
	if !virtual {
		half := p.width(u) / 2
		out.left = append(out.left, -half)
		out.right = append(out.right, half)
	}
	for d := range merged.left {
		out.left = append(out.left, merged.left[d]-mid)
		out.right = append(out.right, merged.right[d]-mid)
	}
	return out
}
