// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package x11

import (
	"testing"

	"github.com/gogpu/softblit"
)

// TestRegistered tests that importing the package registers the backend.
func TestRegistered(t *testing.T) {
	entry, ok := softblit.Get(Name)
	if !ok {
		t.Fatal("x11 backend not registered")
	}
	if entry.Priority != 100 {
		t.Errorf("priority = %d, want 100 (native)", entry.Priority)
	}
}
