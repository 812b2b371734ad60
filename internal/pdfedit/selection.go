package pdfedit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// IdentityOrder returns [0, 1, ..., n-1].
func IdentityOrder(n int) []int {
	if n < 0 {
		n = 0
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// MovePage returns a copy of order with the entry at position from moved to position to,
// shifting the entries in between.
func MovePage(order []int, from, to int) ([]int, error) {
	if from < 0 || from >= len(order) {
		return nil, &SelectionError{Op: "move", Index: from, Reason: "position out of range"}
	}
	if to < 0 || to >= len(order) {
		return nil, &SelectionError{Op: "move", Index: to, Reason: "position out of range"}
	}
	out := make([]int, 0, len(order))
	moved := order[from]
	for i, v := range order {
		if i == from {
			continue
		}
		out = append(out, v)
	}
	out = append(out, 0)
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out, nil
}

// keepIndices returns [0, count) minus toDelete, ascending. Out of range entries never match.
func keepIndices(count int, toDelete []int) []int {
	drop := make(map[int]struct{}, len(toDelete))
	for _, i := range toDelete {
		drop[i] = struct{}{}
	}
	keep := make([]int, 0, count)
	for i := 0; i < count; i++ {
		if _, ok := drop[i]; ok {
			continue
		}
		keep = append(keep, i)
	}
	return keep
}

// sortedSet deduplicates indices, rejects out of range values and sorts ascending.
func sortedSet(op string, indices []int, count int) ([]int, error) {
	seen := make(map[int]struct{}, len(indices))
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= count {
			return nil, &SelectionError{Op: op, Index: i, Reason: fmt.Sprintf("outside [0,%d)", count)}
		}
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	sort.Ints(out)
	return out, nil
}

// checkDistinct ensures every index is in range and appears at most once.
func checkDistinct(op string, indices []int, count int) error {
	seen := make([]bool, count)
	for _, i := range indices {
		if i < 0 || i >= count {
			return &SelectionError{Op: op, Index: i, Reason: fmt.Sprintf("outside [0,%d)", count)}
		}
		if seen[i] {
			return &SelectionError{Op: op, Index: i, Reason: "duplicated"}
		}
		seen[i] = true
	}
	return nil
}

// checkPermutation ensures order contains every index of [0, count) exactly once.
func checkPermutation(op string, order []int, count int) error {
	if err := checkDistinct(op, order, count); err != nil {
		return err
	}
	if len(order) != count {
		missing := keepIndices(count, order)
		return &SelectionError{Op: op, Index: missing[0], Reason: "missing from order"}
	}
	return nil
}

// ParsePageRanges converts a 1-based page list such as "1-3,5,7-" into zero-based
// indices, in the order written. Descending ranges ("5-3") are expanded descending.
func ParsePageRanges(list string, count int) ([]int, error) {
	var out []int
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, err := parseRange(part, count)
		if err != nil {
			return nil, err
		}
		if lo <= hi {
			for p := lo; p <= hi; p++ {
				out = append(out, p-1)
			}
		} else {
			for p := lo; p >= hi; p-- {
				out = append(out, p-1)
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("page range %q: %w", list, ErrEmptySelection)
	}
	return out, nil
}

func parseRange(part string, count int) (int, int, error) {
	from, to, isRange := strings.Cut(part, "-")
	lo, err := parsePageNumber(from, 1, count)
	if err != nil {
		return 0, 0, err
	}
	if !isRange {
		return lo, lo, nil
	}
	hi, err := parsePageNumber(to, count, count)
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

func parsePageNumber(s string, def, count int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("page %q: %w", s, ErrInvalidPageSelection)
	}
	if n < 1 || n > count {
		return 0, &SelectionError{Op: "parse", Index: n - 1, Reason: fmt.Sprintf("page %d outside 1..%d", n, count)}
	}
	return n, nil
}
