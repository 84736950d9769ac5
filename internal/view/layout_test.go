package view

import (
	"reflect"
	"testing"
)

func TestFitRows(t *testing.T) {
	tests := []struct {
		name   string
		widths []int
		width  int
		gap    int
		want   [][]int
	}{
		{"empty", nil, 10, 1, nil},
		{"one row", []int{3, 3, 3}, 11, 1, [][]int{{0, 1, 2}}},
		{"wraps", []int{3, 3, 3}, 7, 1, [][]int{{0, 1}, {2}}},
		{"exact fit", []int{5, 5}, 10, 0, [][]int{{0, 1}}},
		{"oversized item", []int{2, 20, 2}, 10, 1, [][]int{{0}, {1}, {2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitRows(tt.widths, tt.width, tt.gap); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FitRows() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWidths(t *testing.T) {
	if got := Widths([]string{"Pride", "Fire"}, 2); !reflect.DeepEqual(got, []int{7, 6}) {
		t.Errorf("Widths() = %v", got)
	}
}

func TestMove(t *testing.T) {
	rows := [][]int{{0, 1, 2}, {3, 4}, {5}}

	tests := []struct {
		name       string
		item       int
		dRow, dCol int
		want       int
	}{
		{"right", 0, 0, 1, 1},
		{"right edge", 2, 0, 1, 2},
		{"down keeps column", 1, 1, 0, 4},
		{"down into short row", 2, 1, 0, 4},
		{"up from bottom", 5, -1, 0, 3},
		{"up edge", 1, -1, 0, 1},
		{"unknown item", 9, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Move(rows, tt.item, tt.dRow, tt.dCol); got != tt.want {
				t.Errorf("Move() = %d, want %d", got, tt.want)
			}
		})
	}

	if got := Move(nil, 0, 1, 0); got != -1 {
		t.Errorf("Move(nil) = %d, want -1", got)
	}
}
