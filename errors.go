package softblit

import "errors"

// The error taxonomy separates environment failures, which are returned,
// from caller mistakes the state machine can observe, which are also
// returned, and broken preconditions such as an out-of-range Row index or a
// Blit dimension mismatch, which panic.
var (
	// ErrInvalidDimensions is returned when a width or height is zero or
	// negative.
	ErrInvalidDimensions = errors.New("softblit: width and height must be positive")

	// ErrUnsupportedWindow is returned when a backend cannot attach to the
	// given window handle: wrong windowing subsystem, a stale window ID, or
	// a display server that cannot be reached.
	ErrUnsupportedWindow = errors.New("softblit: window not supported by backend")

	// ErrResourceExhausted is returned when the platform refuses to allocate
	// surface memory, for example when a shared memory segment cannot be
	// created or a buffer would exceed the addressable size.
	ErrResourceExhausted = errors.New("softblit: platform resource allocation failed")

	// ErrSurfaceInvalid is returned by every operation after the surface has
	// been invalidated, either explicitly or because its window was
	// destroyed. The condition is terminal; attach a new presenter to a new
	// window to recover.
	ErrSurfaceInvalid = errors.New("softblit: surface invalidated")

	// ErrAlreadyAcquired is returned by Acquire and Resize while a frame is
	// in flight, between Acquire and the matching Present.
	ErrAlreadyAcquired = errors.New("softblit: buffer already acquired")

	// ErrNotAcquired is returned by Present when no Acquire preceded it.
	ErrNotAcquired = errors.New("softblit: no buffer acquired")
)
