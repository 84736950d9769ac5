package view

import (
	"github.com/charmbracelet/lipgloss"
)

// Widths measures rendered labels, adding pad cells to each.
func Widths(labels []string, pad int) []int {
	widths := make([]int, len(labels))
	for i, l := range labels {
		widths[i] = lipgloss.Width(l) + pad
	}
	return widths
}

// FitRows packs items left to right into rows no wider than width, with gap
// cells between neighbours. Each row holds item indices. An item wider than
// width gets a row of its own.
func FitRows(widths []int, width, gap int) [][]int {
	var rows [][]int
	var row []int
	used := 0

	for i, w := range widths {
		need := w
		if len(row) > 0 {
			need += gap
		}
		if len(row) > 0 && used+need > width {
			rows = append(rows, row)
			row, used, need = nil, 0, w
		}
		row = append(row, i)
		used += need
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// Locate returns the row and column of item in rows, or -1, -1.
func Locate(rows [][]int, item int) (int, int) {
	for r, row := range rows {
		for c, i := range row {
			if i == item {
				return r, c
			}
		}
	}
	return -1, -1
}

// Move returns the item reached from item by moving dRow rows and dCol
// columns, stopping at the edges. Moving between rows keeps the column
// where the target row is long enough.
func Move(rows [][]int, item, dRow, dCol int) int {
	r, c := Locate(rows, item)
	if r < 0 {
		if len(rows) == 0 || len(rows[0]) == 0 {
			return -1
		}
		return rows[0][0]
	}

	r = clampInt(r+dRow, 0, len(rows)-1)
	c = clampInt(c+dCol, 0, len(rows[r])-1)
	return rows[r][c]
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
