// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build windows

package win32

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/gogpu/softblit"
)

// TestNewRejectsWrongHandleKind tests that non-Win32 handles are refused.
func TestNewRejectsWrongHandleKind(t *testing.T) {
	_, err := New(softblit.Offscreen(), softblit.Config{Width: 10, Height: 10})
	if !errors.Is(err, softblit.ErrUnsupportedWindow) {
		t.Errorf("error = %v, want ErrUnsupportedWindow", err)
	}
}

// TestBitmapInfoHeaderLayout tests the struct against the Win32 ABI.
func TestBitmapInfoHeaderLayout(t *testing.T) {
	// BITMAPINFOHEADER is exactly 40 bytes; GDI rejects anything else.
	if size := unsafe.Sizeof(bitmapInfoHeader{}); size != 40 {
		t.Errorf("header size = %d, want 40", size)
	}
}

// TestSetSizeStride tests DWORD-aligned stride computation.
func TestSetSizeStride(t *testing.T) {
	s := &Surface{align: 16, valid: true}
	if err := s.setSize(33, 10); err != nil {
		t.Fatalf("setSize failed: %v", err)
	}
	// 33*4 = 132, padded to the next multiple of 16.
	if s.stride != 144 {
		t.Errorf("stride = %d, want 144", s.stride)
	}

	if err := s.setSize(0, 10); !errors.Is(err, softblit.ErrInvalidDimensions) {
		t.Errorf("setSize(0, 10) error = %v, want ErrInvalidDimensions", err)
	}
}
