package softblit

// Option configures a Presenter during creation.
//
// Example:
//
//	// Auto-select the best backend for the handle
//	p, err := softblit.New(handle, 800, 600)
//
//	// Pin a specific backend
//	p, err := softblit.New(handle, 800, 600, softblit.WithBackend("memory"))
type Option func(*presenterOptions)

// presenterOptions holds optional configuration for Presenter creation.
type presenterOptions struct {
	backend       string
	scanlineAlign int
	display       string
}

// defaultPresenterOptions returns the default presenter options.
func defaultPresenterOptions() presenterOptions {
	return presenterOptions{
		backend:       "", // auto-select by priority
		scanlineAlign: defaultAlign,
	}
}

// WithBackend pins surface creation to a specific registered backend
// instead of automatic priority selection. Attach fails with
// BackendNotFoundError if no such backend is registered.
//
// Example:
//
//	p, err := softblit.New(softblit.Offscreen(), 256, 256,
//	    softblit.WithBackend("memory"))
func WithBackend(name string) Option {
	return func(o *presenterOptions) {
		o.backend = name
	}
}

// WithScanlineAlign sets the byte alignment of buffer rows. Some blit
// targets require rows padded to a fixed boundary; the original use case is
// GDI's DWORD-aligned scanlines, where odd widths need a padded stride.
// The value must be a positive multiple of 4. The default of 4 adds no
// padding.
func WithScanlineAlign(align int) Option {
	return func(o *presenterOptions) {
		o.scanlineAlign = align
	}
}

// WithDisplay overrides the X11 display the x11 backend connects to.
// Empty means $DISPLAY. Backends other than x11 ignore it.
//
// Example:
//
//	p, err := softblit.New(softblit.X11Window(xid), 800, 600,
//	    softblit.WithDisplay(":1"))
func WithDisplay(display string) Option {
	return func(o *presenterOptions) {
		o.display = display
	}
}
