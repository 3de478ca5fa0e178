// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import "testing"

func TestDefaultErrRate(t *testing.T) {
	c := Default()
	if got := c.ErrRate(); got != 0.002 {
		t.Errorf("ErrRate() = %v, want 0.002", got)
	}
}

func TestCheckShapeMismatch(t *testing.T) {
	err := CheckShape("pos.txt", 10, "matrix.txt", 9)
	if err == nil {
		t.Fatal("expected an error for mismatched SNV counts")
	}
}

func TestCheckShapeOK(t *testing.T) {
	if err := CheckShape("pos.txt", 10, "matrix.txt", 10); err != nil {
		t.Errorf("CheckShape = %v, want nil", err)
	}
}
