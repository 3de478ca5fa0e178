// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package readmat

import "testing"

func TestColsRagged(t *testing.T) {
	m := Matrix{
		{1, 2, 3},
		{1, 2},
	}
	_, err := m.Cols()
	if err == nil {
		t.Fatal("expected a ShapeError for a ragged matrix")
	}
	se, ok := err.(*ShapeError)
	if !ok {
		t.Fatalf("expected *ShapeError, got %T", err)
	}
	if se.Rows != 1 || se.Want != 3 || se.Got != 2 {
		t.Errorf("unexpected ShapeError fields: %+v", se)
	}
}

func TestColsEmpty(t *testing.T) {
	var m Matrix
	l, err := m.Cols()
	if err != nil {
		t.Fatalf("unexpected error for empty matrix: %v", err)
	}
	if l != 0 {
		t.Errorf("Cols() = %d, want 0", l)
	}
}

func TestCheckCols(t *testing.T) {
	m := Matrix{{1, 2, 3}, {0, 0, 0}}
	if err := m.CheckCols(3); err != nil {
		t.Errorf("CheckCols(3) = %v, want nil", err)
	}
	if err := m.CheckCols(4); err == nil {
		t.Error("CheckCols(4) = nil, want a ShapeError")
	}
}

func TestSelect(t *testing.T) {
	m := Matrix{{1}, {2}, {3}, {4}}
	got := m.Select([]int{3, 0, 0})
	want := Matrix{{4}, {1}, {1}}
	if len(got) != len(want) {
		t.Fatalf("Select returned %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i][0] != want[i][0] {
			t.Errorf("row %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDeleteMask(t *testing.T) {
	m := Matrix{{1}, {2}, {3}, {4}}
	kept, idx := m.DeleteMask([]bool{false, true, false, true})
	if len(kept) != 2 || kept[0][0] != 1 || kept[1][0] != 3 {
		t.Errorf("kept = %v, want rows 1 and 3", kept)
	}
	if len(idx) != 2 || idx[0] != 0 || idx[1] != 2 {
		t.Errorf("keptIndex = %v, want [0 2]", idx)
	}
}

func TestDeleteMaskShortMask(t *testing.T) {
	m := Matrix{{1}, {2}, {3}}
	kept, idx := m.DeleteMask([]bool{true})
	if len(kept) != 2 || len(idx) != 2 {
		t.Errorf("expected the two rows beyond the mask to survive, got %v %v", kept, idx)
	}
}

func TestNonGapCounts(t *testing.T) {
	m := Matrix{
		{0, 1, 2, 0},
		{1, 1, 1, 1},
		{0, 0, 0, 0},
	}
	got := m.NonGapCounts()
	want := []int{2, 4, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NonGapCounts()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
