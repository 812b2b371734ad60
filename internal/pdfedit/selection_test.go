package pdfedit

import (
	"errors"
	"reflect"
	"testing"
)

func TestIdentityOrder(t *testing.T) {
	if got := IdentityOrder(4); !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Errorf("IdentityOrder(4) = %v", got)
	}
	if got := IdentityOrder(-1); len(got) != 0 {
		t.Errorf("IdentityOrder(-1) = %v, want empty", got)
	}
}

func TestMovePage(t *testing.T) {
	tests := []struct {
		name     string
		order    []int
		from, to int
		want     []int
	}{
		{"forward", []int{0, 1, 2, 3}, 0, 2, []int{1, 2, 0, 3}},
		{"backward", []int{0, 1, 2, 3}, 3, 0, []int{3, 0, 1, 2}},
		{"to end", []int{0, 1, 2, 3}, 1, 3, []int{0, 2, 3, 1}},
		{"same position", []int{2, 0, 1}, 1, 1, []int{2, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := append([]int(nil), tt.order...)
			got, err := MovePage(tt.order, tt.from, tt.to)
			if err != nil {
				t.Fatalf("MovePage: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MovePage(%v, %d, %d) = %v, want %v", tt.order, tt.from, tt.to, got, tt.want)
			}
			if !reflect.DeepEqual(tt.order, orig) {
				t.Errorf("input mutated: %v", tt.order)
			}
			if err := checkPermutation("move", got, len(got)); err != nil {
				t.Errorf("result is not a permutation: %v", err)
			}
		})
	}

	if _, err := MovePage([]int{0, 1}, 2, 0); !errors.Is(err, ErrInvalidPageSelection) {
		t.Errorf("err = %v, want ErrInvalidPageSelection", err)
	}
	if _, err := MovePage([]int{0, 1}, 0, -1); !errors.Is(err, ErrInvalidPageSelection) {
		t.Errorf("err = %v, want ErrInvalidPageSelection", err)
	}
}

func TestKeepIndices(t *testing.T) {
	if got := keepIndices(5, []int{3, 1, 9, -2}); !reflect.DeepEqual(got, []int{0, 2, 4}) {
		t.Errorf("keepIndices = %v", got)
	}
	if got := keepIndices(2, []int{0, 1}); len(got) != 0 {
		t.Errorf("keepIndices = %v, want empty", got)
	}
}

func TestSortedSet(t *testing.T) {
	got, err := sortedSet("extract", []int{4, 0, 2, 0, 4}, 5)
	if err != nil {
		t.Fatalf("sortedSet: %v", err)
	}
	if !reflect.DeepEqual(got, []int{0, 2, 4}) {
		t.Errorf("sortedSet = %v", got)
	}
	if _, err := sortedSet("extract", []int{1, 5}, 5); !errors.Is(err, ErrInvalidPageSelection) {
		t.Errorf("err = %v", err)
	}
}

func TestParsePageRanges(t *testing.T) {
	tests := []struct {
		list string
		want []int
	}{
		{"1", []int{0}},
		{"1-3,5", []int{0, 1, 2, 4}},
		{" 2 , 4 ", []int{1, 3}},
		{"4-", []int{3, 4, 5}},
		{"-2", []int{0, 1}},
		{"3-1", []int{2, 1, 0}},
		{"6,1", []int{5, 0}},
	}
	for _, tt := range tests {
		got, err := ParsePageRanges(tt.list, 6)
		if err != nil {
			t.Errorf("ParsePageRanges(%q): %v", tt.list, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParsePageRanges(%q) = %v, want %v", tt.list, got, tt.want)
		}
	}
}

func TestParsePageRangesErrors(t *testing.T) {
	tests := []struct {
		list    string
		wantErr error
	}{
		{"", ErrEmptySelection},
		{" , ", ErrEmptySelection},
		{"0", ErrInvalidPageSelection},
		{"7", ErrInvalidPageSelection},
		{"2-9", ErrInvalidPageSelection},
		{"a", ErrInvalidPageSelection},
		{"1-b", ErrInvalidPageSelection},
	}
	for _, tt := range tests {
		if _, err := ParsePageRanges(tt.list, 6); !errors.Is(err, tt.wantErr) {
			t.Errorf("ParsePageRanges(%q) err = %v, want %v", tt.list, err, tt.wantErr)
		}
	}
}
