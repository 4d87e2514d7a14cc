package softblit

import "image"

// Config carries the construction parameters a backend needs at attach
// time. Presenters build it from their options; code driving the registry
// directly fills it by hand.
type Config struct {
	// Width and Height are the initial surface dimensions in physical
	// pixels. Both must be positive.
	Width  int
	Height int

	// ScanlineAlign is the required byte alignment of buffer rows. Zero
	// means the default of 4 (no padding beyond the pixel size).
	ScanlineAlign int

	// Display overrides the X11 display to connect to. Empty means
	// $DISPLAY. Other backends ignore it.
	Display string
}

// Surface is a presentation target attached to one window (or, for the
// memory backend, to nothing). It owns whatever native resources the
// platform needs to get pixels on screen: a shared memory segment and GC on
// X11, a DIB description on Win32, a layer-backed view on Cocoa.
//
// A surface is used from a single goroutine, the one that owns the window.
// Methods do not lock.
//
// Once a surface reports ErrSurfaceInvalid it never recovers; the caller
// attaches a fresh surface to a fresh window instead.
type Surface interface {
	// Name returns the backend name the surface was created by.
	Name() string

	// Format returns the pixel byte order this surface presents. Buffers
	// blitted to the surface must be in this format; the choice is made at
	// attach time so Blit never converts.
	Format() PixelFormat

	// Size returns the current surface dimensions in physical pixels.
	Size() (width, height int)

	// Resize releases and recreates the native buffering resources for the
	// new dimensions. Resizing to the current size is a no-op. On failure
	// the surface is invalid: the old resources are gone and no new ones
	// exist to present from.
	Resize(width, height int) error

	// Blit copies the buffer's pixels to the window and asks the platform
	// to composite them. The frame is copied out atomically: the buffer can
	// be drawn into again as soon as Blit returns. Blit panics if the
	// buffer's dimensions or format do not match the surface; that
	// mismatch means the presenter protocol was bypassed.
	Blit(buf *Buffer) error

	// Invalidate marks the surface dead without touching native resources.
	// Called when the window is being destroyed, at which point the native
	// side is already lost.
	Invalidate()

	// Release frees native resources. The surface is invalid afterwards.
	// Release is idempotent.
	Release() error
}

// Readback is an optional interface for surfaces that can return the last
// frame presented to them. Window-backed surfaces generally cannot; the
// memory backend can, which is what makes byte-exact presentation checks
// possible in tests and headless captures.
type Readback interface {
	// Snapshot returns a copy of the last presented frame in RGBA order,
	// or nil if nothing has been presented yet.
	Snapshot() *image.RGBA
}
