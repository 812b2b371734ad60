package common

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/local/pdftools/internal/pdfedit"
)

// ParseMove parses a 1-based "FROM:TO" page move into zero-based positions.
func ParseMove(s string) (from, to int, err error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, errors.Errorf("invalid move '%s', expected FROM:TO", s)
	}
	if from, err = parsePage(a); err != nil {
		return 0, 0, errors.Wrapf(err, "invalid move '%s'", s)
	}
	if to, err = parsePage(b); err != nil {
		return 0, 0, errors.Wrapf(err, "invalid move '%s'", s)
	}
	return from, to, nil
}

// ApplyMoves applies successive moves to the identity order of count pages.
func ApplyMoves(moves []string, count int) ([]int, error) {
	order := pdfedit.IdentityOrder(count)
	for _, m := range moves {
		from, to, err := ParseMove(m)
		if err != nil {
			return nil, err
		}
		if order, err = pdfedit.MovePage(order, from, to); err != nil {
			return nil, errors.Wrapf(err, "move '%s'", m)
		}
	}
	return order, nil
}

// ParseRotations accumulates "PAGES:DEGREES" entries, where PAGES is a page
// range list without commas ("3", "2-4", "5-") and DEGREES any multiple of 90,
// negative for counterclockwise.
func ParseRotations(entries []string, count int) (pdfedit.RotationPlan, error) {
	plan := pdfedit.RotationPlan{}
	for _, entry := range entries {
		i := strings.LastIndex(entry, ":")
		if i < 0 {
			return nil, errors.Errorf("invalid rotation '%s', expected PAGES:DEGREES", entry)
		}
		pages, err := pdfedit.ParsePageRanges(entry[:i], count)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid rotation '%s'", entry)
		}
		degrees, err := strconv.Atoi(strings.TrimSpace(entry[i+1:]))
		if err != nil {
			return nil, errors.Wrapf(pdfedit.ErrInvalidRotationDelta, "invalid rotation '%s'", entry)
		}
		for _, p := range pages {
			if err := plan.Add(p, degrees); err != nil {
				return nil, errors.WithStack(err)
			}
		}
	}
	return plan, nil
}

func parsePage(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, errors.Wrapf(pdfedit.ErrInvalidPageSelection, "page '%s'", s)
	}
	return n - 1, nil
}
