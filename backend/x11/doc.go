// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package x11 presents buffers on X11 windows over the pure-Go X protocol.
//
// # Overview
//
// The backend speaks the wire protocol directly through github.com/jezek/xgb,
// so it needs no Xlib, no cgo and no display-specific toolkit. Frames travel
// to the server through MIT-SHM: the surface owns a SysV shared memory
// segment, Blit copies the frame into it and a single shm.PutImage request
// tells the server to read it. When the extension is missing, typically on
// forwarded or nested displays, the backend falls back to core-protocol
// PutImage requests, chunked to respect the server's request size limit.
//
// # Registration
//
// Importing the package registers the backend under the name "x11" at
// native priority:
//
//	import _ "github.com/gogpu/softblit/backend/x11"
//
// The backend reports itself available when $DISPLAY is set. It accepts
// KindX11 handles only; Config.Display overrides the display to connect to.
//
// # Build Tags
//
// The real implementation builds on Linux. Elsewhere the package compiles
// to a stub that registers the backend as unavailable, so cross-platform
// code can import it unconditionally.
//
// # Pixel Format
//
// Surfaces report FormatBGRA: a little-endian ZPixmap at depth 24 or 32
// stores pixels as B, G, R, X in memory, which is what the server blits
// without conversion.
//
// # Threading
//
// A surface must be used from the goroutine that owns the window's event
// loop. The X connection created here is private to the surface and never
// selects for events, so it does not interfere with the host's own
// connection.
package x11
