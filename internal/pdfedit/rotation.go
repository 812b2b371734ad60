package pdfedit

import (
	"fmt"
	"sort"
)

// NormalizeRotation maps any angle into [0, 360).
func NormalizeRotation(degrees int) int {
	return ((degrees % 360) + 360) % 360
}

// ValidDelta reports whether d is an accepted rotation delta.
func ValidDelta(d int) bool {
	return d == 90 || d == 180 || d == 270
}

// RotationPlan accumulates rotations requested for pages before they are applied.
// Entries whose net rotation is 0 are dropped.
type RotationPlan map[int]int

// Add accumulates degrees (a multiple of 90, negative allowed) onto page.
func (p RotationPlan) Add(page, degrees int) error {
	if degrees%90 != 0 {
		return fmt.Errorf("rotate page %d by %d: %w", page, degrees, ErrInvalidRotationDelta)
	}
	net := NormalizeRotation(p[page] + degrees)
	if net == 0 {
		delete(p, page)
		return nil
	}
	p[page] = net
	return nil
}

// Pages returns the planned page indices in ascending order.
func (p RotationPlan) Pages() []int {
	pages := make([]int, 0, len(p))
	for page := range p {
		pages = append(pages, page)
	}
	sort.Ints(pages)
	return pages
}

// checkRotations validates the whole map before any page is touched and
// returns its keys in ascending order.
func checkRotations(rotations map[int]int, count int) ([]int, error) {
	if len(rotations) == 0 {
		return nil, ErrEmptyRotationSet
	}
	pages := RotationPlan(rotations).Pages()
	for _, page := range pages {
		if d := rotations[page]; !ValidDelta(d) {
			return nil, fmt.Errorf("page index %d: delta %d: %w", page, d, ErrInvalidRotationDelta)
		}
		if page < 0 || page >= count {
			return nil, &SelectionError{Op: "rotate", Index: page, Reason: fmt.Sprintf("outside [0,%d)", count)}
		}
	}
	return pages, nil
}
