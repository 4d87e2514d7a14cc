// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build darwin

package cocoa

import (
	"errors"
	"testing"

	"github.com/gogpu/softblit"
)

// TestNewRejectsWrongHandleKind tests that non-cocoa handles are refused
// before any AppKit call is made.
func TestNewRejectsWrongHandleKind(t *testing.T) {
	cfg := softblit.Config{Width: 64, Height: 64, ScanlineAlign: 4}

	for _, h := range []softblit.WindowHandle{
		softblit.Offscreen(),
		softblit.X11Window(99),
		{},
	} {
		_, err := New(h, cfg)
		if !errors.Is(err, softblit.ErrUnsupportedWindow) {
			t.Errorf("New(%v) error = %v, want ErrUnsupportedWindow", h, err)
		}
	}
}

// TestNewRejectsNilWindow tests that a cocoa handle with a nil pointer is
// refused.
func TestNewRejectsNilWindow(t *testing.T) {
	cfg := softblit.Config{Width: 64, Height: 64, ScanlineAlign: 4}

	_, err := New(softblit.CocoaWindow(0), cfg)
	if !errors.Is(err, softblit.ErrUnsupportedWindow) {
		t.Errorf("New error = %v, want ErrUnsupportedWindow", err)
	}
}
