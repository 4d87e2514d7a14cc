// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cocoa presents buffers on macOS windows through Core Animation.
//
// # Overview
//
// The surface targets the content view of an NSWindow, made layer-backed
// at attach time. Blit wraps the frame in a CGImage whose backing store is
// a copy of the pixels (CFDataCreate) and swaps it into the layer's
// contents inside a single CATransaction, so a frame is always shown whole.
// Nothing persists between frames on the native side beyond the layer
// itself; resize is pure bookkeeping.
//
// # Registration
//
// Importing the package registers the backend under the name "cocoa" at
// native priority:
//
//	import _ "github.com/gogpu/softblit/backend/cocoa"
//
// It accepts KindCocoa handles carrying an NSWindow pointer.
//
// # Build Tags
//
// The real implementation builds on Darwin with cgo. Elsewhere the package
// compiles to a stub that registers the backend as unavailable.
//
// # Pixel Format
//
// Surfaces report FormatBGRA: byte-order-32-little with alpha-none-skip-
// first stores pixels as B, G, R, X in memory.
//
// # Threading
//
// AppKit and Core Animation expect the main thread. Run the presenter on
// the goroutine that locked the main OS thread for the event loop.
package cocoa
