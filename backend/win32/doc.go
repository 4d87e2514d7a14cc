// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package win32 presents buffers on Win32 windows through GDI.
//
// # Overview
//
// Each Blit describes the frame as a packed 32-bit top-down DIB and hands
// it to StretchDIBits against the window's device context, which GDI copies
// to the screen synchronously. There is no persistent GDI object to manage:
// the DC is acquired and released around every blit, and the bitmap header
// is rebuilt from the current dimensions each time. Row padding is carried
// in the header by describing the bitmap as stride/4 pixels wide while
// blitting only the visible width.
//
// The user32 and gdi32 entry points are resolved lazily through
// golang.org/x/sys/windows, so the package needs no cgo.
//
// # Registration
//
// Importing the package registers the backend under the name "win32" at
// native priority:
//
//	import _ "github.com/gogpu/softblit/backend/win32"
//
// It accepts KindWin32 handles carrying an HWND.
//
// # Build Tags
//
// The real implementation builds on Windows. Elsewhere the package
// compiles to a stub that registers the backend as unavailable.
//
// # Pixel Format
//
// Surfaces report FormatBGRA: a BI_RGB 32-bit DIB stores pixels as
// B, G, R, X in memory.
//
// # Threading
//
// Blit must run on the thread that owns the window, the same thread that
// pumps its messages.
package win32
