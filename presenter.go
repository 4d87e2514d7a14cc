package softblit

import "fmt"

// presenterState tracks where a Presenter is in the acquire/present cycle.
type presenterState uint8

const (
	// stateReady means no frame is in flight; Acquire and Resize are legal.
	stateReady presenterState = iota

	// stateAcquired means the caller holds the buffer; only Present (or
	// destruction) moves the presenter on.
	stateAcquired

	// stateInvalid is terminal. Entered when the window is destroyed or the
	// presenter is closed; every subsequent operation fails with
	// ErrSurfaceInvalid.
	stateInvalid
)

func (s presenterState) String() string {
	switch s {
	case stateReady:
		return "ready"
	case stateAcquired:
		return "acquired"
	case stateInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Presenter owns one presentation buffer and one surface and runs the
// acquire/draw/present cycle between them.
//
// The cycle is strict: Acquire hands out the buffer, Present blits it and
// hands it back. Acquiring twice without presenting, or presenting without
// acquiring, is reported as an error rather than tolerated, because those
// call patterns are how half-drawn frames end up on screen.
//
// A Presenter is single-goroutine, like the Surface it drives. The
// acquired flag is the only in-flight guard; there are no locks to lean on
// from other goroutines.
type Presenter struct {
	surface Surface
	buffer  *Buffer
	state   presenterState

	align int

	// Logical viewport bookkeeping for HiDPI hosts. Purely informational;
	// only physical pixels flow through Resize and Blit.
	logicalW int
	logicalH int
	scale    float64
}

// New attaches a presenter to a window. width and height are the initial
// surface size in physical pixels.
//
// The backend is chosen from the registry by priority unless WithBackend
// pins one. The presentation buffer is allocated in the backend's native
// pixel format, so presenting never converts pixels.
//
// Errors: ErrInvalidDimensions for non-positive sizes, ErrUnsupportedWindow
// when no backend accepts the handle, ErrNoBackendAvailable when the
// registry is empty, and backend attach failures as-is.
func New(h WindowHandle, width, height int, opts ...Option) (*Presenter, error) {
	o := defaultPresenterOptions()
	for _, opt := range opts {
		opt(&o)
	}

	// Validate geometry before touching any backend, including the
	// alignment so a bad option fails here and not inside a backend.
	if _, _, err := bufferLayout(width, height, o.scanlineAlign); err != nil {
		return nil, err
	}

	cfg := Config{
		Width:         width,
		Height:        height,
		ScanlineAlign: o.scanlineAlign,
		Display:       o.display,
	}

	var (
		s   Surface
		err error
	)
	if o.backend != "" {
		s, err = NewSurfaceByName(o.backend, h, cfg)
	} else {
		s, err = NewSurface(h, cfg)
	}
	if err != nil {
		return nil, err
	}

	buf, err := newBufferAligned(width, height, s.Format(), o.scanlineAlign)
	if err != nil {
		// Layout was validated above, so this cannot happen; keep the
		// surface from leaking if it somehow does.
		_ = s.Release()
		return nil, err
	}

	Logger().Info("surface attached",
		"backend", s.Name(),
		"window", h.String(),
		"width", width,
		"height", height,
		"format", s.Format().String(),
		"stride", buf.Stride(),
	)

	return &Presenter{
		surface:  s,
		buffer:   buf,
		state:    stateReady,
		align:    o.scanlineAlign,
		logicalW: width,
		logicalH: height,
		scale:    1,
	}, nil
}

// Acquire hands out the presentation buffer for drawing. The buffer keeps
// its previous contents, so callers that repaint everything each frame can
// skip clearing.
//
// The buffer stays valid until Present or Resize; holding it longer is the
// error the state machine exists to catch. Returns ErrAlreadyAcquired if a
// frame is already in flight and ErrSurfaceInvalid after destruction.
func (p *Presenter) Acquire() (*Buffer, error) {
	switch p.state {
	case stateInvalid:
		return nil, ErrSurfaceInvalid
	case stateAcquired:
		return nil, ErrAlreadyAcquired
	}
	p.state = stateAcquired
	return p.buffer, nil
}

// Present blits the acquired buffer to the window and returns the
// presenter to the ready state. The pixels are copied out before Present
// returns; the caller may draw into the buffer again immediately.
//
// Returns ErrNotAcquired when no Acquire preceded it, ErrSurfaceInvalid
// after destruction, and the backend's error when the blit itself fails.
// A failed blit still ends the acquisition: the frame is abandoned, not
// retried.
func (p *Presenter) Present() error {
	switch p.state {
	case stateInvalid:
		return ErrSurfaceInvalid
	case stateReady:
		return ErrNotAcquired
	}
	p.state = stateReady

	if err := p.surface.Blit(p.buffer); err != nil {
		return err
	}

	Logger().Debug("frame presented",
		"backend", p.surface.Name(),
		"width", p.buffer.Width(),
		"height", p.buffer.Height(),
	)
	return nil
}

// Resize reallocates the presentation buffer and the surface's native
// resources for a new physical size. Contents are discarded; the next
// acquired buffer is blank. Resizing to the current size is a no-op.
//
// Resize is rejected with ErrAlreadyAcquired while a frame is in flight:
// the acquired buffer would be yanked out from under the caller otherwise.
// A backend failure is returned as-is and leaves the surface invalid, the
// same terminal state a destroyed window produces.
func (p *Presenter) Resize(width, height int) error {
	switch p.state {
	case stateInvalid:
		return ErrSurfaceInvalid
	case stateAcquired:
		return ErrAlreadyAcquired
	}
	if width == p.buffer.Width() && height == p.buffer.Height() {
		return nil
	}
	if _, _, err := bufferLayout(width, height, p.align); err != nil {
		return err
	}

	// Surface first: it is the only step that can fail. The buffer swap
	// below cannot, so surface and buffer dimensions never diverge.
	if err := p.surface.Resize(width, height); err != nil {
		return err
	}
	buf, err := newBufferAligned(width, height, p.buffer.Format(), p.align)
	if err != nil {
		return err
	}
	p.buffer = buf

	Logger().Debug("surface resized",
		"backend", p.surface.Name(),
		"width", width,
		"height", height,
	)
	return nil
}

// WindowDestroyed tells the presenter its window is going away. The host
// must call it before releasing the native handle, so that no present can
// race the teardown. The presenter becomes invalid whatever state it was
// in; an in-flight acquisition is abandoned.
//
// Native resources are released on the spot. Release failures are logged,
// not returned, because the caller is reacting to a destruction that has
// already happened. Calling WindowDestroyed more than once is harmless.
func (p *Presenter) WindowDestroyed() {
	if err := p.invalidate(); err != nil {
		Logger().Warn("surface release failed during window destruction", "err", err)
	}
}

// Close invalidates the presenter and releases native resources. Unlike
// WindowDestroyed it reports release failures. Close is idempotent;
// closing an already destroyed presenter returns nil.
func (p *Presenter) Close() error {
	return p.invalidate()
}

// invalidate moves the presenter to its terminal state and tears down the
// surface. Only the first call does any work.
func (p *Presenter) invalidate() error {
	if p.state == stateInvalid {
		return nil
	}
	p.state = stateInvalid
	p.surface.Invalidate()
	if err := p.surface.Release(); err != nil {
		return fmt.Errorf("softblit: releasing surface: %w", err)
	}
	Logger().Info("surface released", "backend", p.surface.Name())
	return nil
}

// SetViewport records the logical window size and scale factor reported by
// the host. It is bookkeeping for HiDPI-aware drawing code; the physical
// pixel size changes only through Resize. A non-positive scale is treated
// as 1.
func (p *Presenter) SetViewport(logicalW, logicalH int, scale float64) {
	if scale <= 0 {
		scale = 1
	}
	p.logicalW = logicalW
	p.logicalH = logicalH
	p.scale = scale
}

// Size returns the current surface size in physical pixels.
func (p *Presenter) Size() (width, height int) {
	return p.buffer.Width(), p.buffer.Height()
}

// LogicalSize returns the window size in logical units as last reported
// via SetViewport. Before any report it equals the initial pixel size.
func (p *Presenter) LogicalSize() (width, height int) {
	return p.logicalW, p.logicalH
}

// Scale returns the HiDPI scale factor as last reported via SetViewport.
func (p *Presenter) Scale() float64 { return p.scale }

// Backend returns the name of the backend driving this presenter.
func (p *Presenter) Backend() string { return p.surface.Name() }

// Surface returns the underlying surface, for access to optional
// backend capabilities such as Readback. Driving the surface directly
// while the presenter is in use bypasses the acquire/present protocol.
func (p *Presenter) Surface() Surface { return p.surface }
