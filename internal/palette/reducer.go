package palette

import (
	"cmp"
	"math"
	"slices"

	"github.com/jmylchreest/huepick/internal/colour"
)

// Reduce orders colours by fused rank, most representative first.
//
// Each colour is ranked three times: by saturation (highest first), by how
// far its lightness is from the midpoint (closest first) and by size
// (largest first). Its fused score is the product of its three 1-based
// positions. Colours are sorted by ascending fused score; equal scores keep
// their input order. The input is not modified.
func Reduce(colours []colour.ClassifiedColour) []colour.ClassifiedColour {
	scores := FusedScores(colours)

	order := identity(len(colours))
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(scores[a], scores[b])
	})

	ranked := make([]colour.ClassifiedColour, len(colours))
	for i, idx := range order {
		ranked[i] = colours[idx]
	}
	return ranked
}

// FusedScores returns the fused score of each colour, aligned with the input.
func FusedScores(colours []colour.ClassifiedColour) []int {
	n := len(colours)

	sat := positions(n, func(a, b int) int {
		return cmp.Compare(colours[b].HSL.S, colours[a].HSL.S)
	})
	lum := positions(n, func(a, b int) int {
		return cmp.Compare(lightnessDistance(colours[a]), lightnessDistance(colours[b]))
	})
	size := positions(n, func(a, b int) int {
		return cmp.Compare(colours[b].Size, colours[a].Size)
	})

	scores := make([]int, n)
	for i := range scores {
		scores[i] = sat[i] * lum[i] * size[i]
	}
	return scores
}

// Top returns the first n colours of a ranked palette. n <= 0 keeps all.
func Top(ranked []colour.ClassifiedColour, n int) []colour.ClassifiedColour {
	if n <= 0 || n > len(ranked) {
		n = len(ranked)
	}
	return slices.Clone(ranked[:n])
}

func lightnessDistance(c colour.ClassifiedColour) float64 {
	return math.Abs(c.HSL.L - colour.Midpoint)
}

// positions stable-sorts the indices 0..n-1 with compare and returns the
// 1-based position of each index.
func positions(n int, compare func(a, b int) int) []int {
	order := identity(n)
	slices.SortStableFunc(order, compare)

	pos := make([]int, n)
	for p, idx := range order {
		pos[idx] = p + 1
	}
	return pos
}

func identity(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
