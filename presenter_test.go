package softblit

import (
	"errors"
	"fmt"
	"image/color"
	"testing"
)

// fakeSurface records every surface call in order so tests can assert on
// the protocol the presenter drives, and can be told to fail on demand.
type fakeSurface struct {
	format PixelFormat
	width  int
	height int
	valid  bool

	calls       []string
	frames      [][]byte
	invalidated int
	released    int

	blitErr    error
	resizeErr  error
	releaseErr error
}

var _ Surface = (*fakeSurface)(nil)

func (f *fakeSurface) Name() string        { return "recorder" }
func (f *fakeSurface) Format() PixelFormat { return f.format }

func (f *fakeSurface) Size() (int, int) { return f.width, f.height }

func (f *fakeSurface) Resize(width, height int) error {
	if !f.valid {
		return ErrSurfaceInvalid
	}
	if f.resizeErr != nil {
		// Contract: a failed resize leaves the surface invalid.
		f.valid = false
		return f.resizeErr
	}
	f.width, f.height = width, height
	f.calls = append(f.calls, fmt.Sprintf("resize %dx%d", width, height))
	return nil
}

func (f *fakeSurface) Blit(buf *Buffer) error {
	if !f.valid {
		return ErrSurfaceInvalid
	}
	if buf.Width() != f.width || buf.Height() != f.height {
		panic(fmt.Sprintf("blit of %dx%d buffer onto %dx%d fake",
			buf.Width(), buf.Height(), f.width, f.height))
	}
	if f.blitErr != nil {
		return f.blitErr
	}
	f.calls = append(f.calls, fmt.Sprintf("blit %dx%d", buf.Width(), buf.Height()))
	f.frames = append(f.frames, append([]byte(nil), buf.Pix()...))
	return nil
}

func (f *fakeSurface) Invalidate() {
	f.valid = false
	f.invalidated++
	f.calls = append(f.calls, "invalidate")
}

func (f *fakeSurface) Release() error {
	f.released++
	f.calls = append(f.calls, "release")
	return f.releaseErr
}

// newFakePresenter registers a recording backend under a test-unique name
// and attaches a presenter pinned to it.
func newFakePresenter(t *testing.T, width, height int, opts ...Option) (*Presenter, *fakeSurface) {
	t.Helper()

	f := &fakeSurface{format: FormatBGRA}
	name := "recorder-" + t.Name()
	Register(name, 500, func(h WindowHandle, cfg Config) (Surface, error) {
		f.width, f.height = cfg.Width, cfg.Height
		f.valid = true
		return f, nil
	}, nil)
	t.Cleanup(func() { Unregister(name) })

	opts = append(opts, WithBackend(name))
	p, err := New(Offscreen(), width, height, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p, f
}

// TestPresenterNew tests attach validation.
func TestPresenterNew(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		wantErr error
	}{
		{"valid", 640, 480, nil},
		{"zero width", 0, 480, ErrInvalidDimensions},
		{"zero height", 640, 0, ErrInvalidDimensions},
		{"negative", -640, -480, ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(Offscreen(), tt.width, tt.height, WithBackend(MemorySurfaceName))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			defer func() { _ = p.Close() }()

			w, h := p.Size()
			if w != tt.width || h != tt.height {
				t.Errorf("size = %dx%d, want %dx%d", w, h, tt.width, tt.height)
			}
			if p.Backend() != MemorySurfaceName {
				t.Errorf("backend = %q, want %q", p.Backend(), MemorySurfaceName)
			}
			if p.Scale() != 1 {
				t.Errorf("initial scale = %v, want 1", p.Scale())
			}
		})
	}
}

// TestPresenterUnknownBackend tests pinning a backend that does not exist.
func TestPresenterUnknownBackend(t *testing.T) {
	_, err := New(Offscreen(), 100, 100, WithBackend("no-such-backend"))

	var notFound *BackendNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want BackendNotFoundError", err)
	}
}

// TestPresenterZeroHandleRejected tests that the zero handle attaches
// nothing, not even the memory backend.
func TestPresenterZeroHandleRejected(t *testing.T) {
	_, err := New(WindowHandle{}, 100, 100, WithBackend(MemorySurfaceName))
	if !errors.Is(err, ErrUnsupportedWindow) {
		t.Errorf("error = %v, want ErrUnsupportedWindow", err)
	}
}

// TestPresenterLifecycle tests the plain acquire/draw/present cycle.
func TestPresenterLifecycle(t *testing.T) {
	p, f := newFakePresenter(t, 100, 50)

	buf, err := p.Acquire()
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if buf.Width() != 100 || buf.Height() != 50 {
		t.Errorf("buffer = %dx%d, want 100x50", buf.Width(), buf.Height())
	}
	if buf.Format() != FormatBGRA {
		t.Errorf("buffer format = %v, want surface format %v", buf.Format(), FormatBGRA)
	}

	buf.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	if err := p.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}

	if len(f.frames) != 1 {
		t.Fatalf("recorded %d blits, want 1", len(f.frames))
	}
	for i, b := range f.frames[0] {
		if b != 0xff {
			t.Fatalf("presented byte %d = %#x, want 0xff", i, b)
		}
	}

	// The cycle is reusable: the presenter is back in its ready state.
	if _, err := p.Acquire(); err != nil {
		t.Fatalf("Acquire after Present failed: %v", err)
	}
}

// TestPresenterAcquireTwice tests double acquisition.
func TestPresenterAcquireTwice(t *testing.T) {
	p, _ := newFakePresenter(t, 64, 64)

	if _, err := p.Acquire(); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if _, err := p.Acquire(); !errors.Is(err, ErrAlreadyAcquired) {
		t.Errorf("second Acquire error = %v, want ErrAlreadyAcquired", err)
	}
}

// TestPresenterPresentWithoutAcquire tests presenting with no frame in
// flight, including right after a present.
func TestPresenterPresentWithoutAcquire(t *testing.T) {
	p, _ := newFakePresenter(t, 64, 64)

	if err := p.Present(); !errors.Is(err, ErrNotAcquired) {
		t.Errorf("Present error = %v, want ErrNotAcquired", err)
	}

	if _, err := p.Acquire(); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if err := p.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	if err := p.Present(); !errors.Is(err, ErrNotAcquired) {
		t.Errorf("double Present error = %v, want ErrNotAcquired", err)
	}
}

// TestPresenterResize tests buffer and surface reallocation.
func TestPresenterResize(t *testing.T) {
	p, f := newFakePresenter(t, 100, 100)

	buf, _ := p.Acquire()
	buf.Fill(color.RGBA{R: 1, G: 2, B: 3, A: 4})
	if err := p.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}

	if err := p.Resize(300, 200); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}

	w, h := p.Size()
	if w != 300 || h != 200 {
		t.Errorf("size = %dx%d, want 300x200", w, h)
	}

	// The next acquisition sees a fresh blank buffer at the new size, and
	// presenting it blits the new dimensions.
	buf, err := p.Acquire()
	if err != nil {
		t.Fatalf("Acquire after resize failed: %v", err)
	}
	if buf.Width() != 300 || buf.Height() != 200 {
		t.Errorf("buffer = %dx%d, want 300x200", buf.Width(), buf.Height())
	}
	if got := buf.RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("buffer after resize not blank: %v", got)
	}
	if err := p.Present(); err != nil {
		t.Fatalf("Present after resize failed: %v", err)
	}

	want := []string{"blit 100x100", "resize 300x200", "blit 300x200"}
	if len(f.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", f.calls, want)
	}
	for i := range want {
		if f.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", f.calls, want)
		}
	}
}

// TestPresenterResizeSameSize tests that an unchanged size does not touch
// the surface or the buffer.
func TestPresenterResizeSameSize(t *testing.T) {
	p, f := newFakePresenter(t, 100, 100)

	if err := p.Resize(100, 100); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if len(f.calls) != 0 {
		t.Errorf("same-size resize reached the surface: %v", f.calls)
	}
}

// TestPresenterResizeWhileAcquired tests that resize cannot interrupt a
// frame in flight.
func TestPresenterResizeWhileAcquired(t *testing.T) {
	p, _ := newFakePresenter(t, 100, 100)

	buf, _ := p.Acquire()
	if err := p.Resize(50, 50); !errors.Is(err, ErrAlreadyAcquired) {
		t.Fatalf("Resize while acquired error = %v, want ErrAlreadyAcquired", err)
	}

	// The acquired buffer was not yanked: presenting it still works and
	// still has the original dimensions.
	if buf.Width() != 100 {
		t.Errorf("buffer width = %d, want 100", buf.Width())
	}
	if err := p.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
}

// TestPresenterResizeInvalid tests dimension validation on resize.
func TestPresenterResizeInvalid(t *testing.T) {
	p, f := newFakePresenter(t, 100, 100)

	if err := p.Resize(0, 50); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Resize(0, 50) error = %v, want ErrInvalidDimensions", err)
	}
	if len(f.calls) != 0 {
		t.Errorf("invalid resize reached the surface: %v", f.calls)
	}
}

// TestPresenterResizeFailure tests a backend that cannot reallocate.
func TestPresenterResizeFailure(t *testing.T) {
	p, f := newFakePresenter(t, 100, 100)
	f.resizeErr = fmt.Errorf("attach shm: %w", ErrResourceExhausted)

	err := p.Resize(4000, 4000)
	if !errors.Is(err, ErrResourceExhausted) {
		t.Fatalf("Resize error = %v, want ErrResourceExhausted", err)
	}

	// The surface is gone. Acquire still works (it is presenter-local)
	// but the present fails against the invalid surface.
	if _, err := p.Acquire(); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if err := p.Present(); !errors.Is(err, ErrSurfaceInvalid) {
		t.Errorf("Present error = %v, want ErrSurfaceInvalid", err)
	}
}

// TestPresenterPresentFailure tests that a failed blit abandons the frame
// instead of wedging the state machine.
func TestPresenterPresentFailure(t *testing.T) {
	p, f := newFakePresenter(t, 100, 100)

	blitErr := errors.New("connection reset")
	f.blitErr = blitErr

	if _, err := p.Acquire(); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if err := p.Present(); !errors.Is(err, blitErr) {
		t.Fatalf("Present error = %v, want %v", err, blitErr)
	}

	// Back in the ready state: the next cycle can succeed.
	f.blitErr = nil
	if _, err := p.Acquire(); err != nil {
		t.Fatalf("Acquire after failed present: %v", err)
	}
	if err := p.Present(); err != nil {
		t.Fatalf("Present after failed present: %v", err)
	}
}

// TestPresenterWindowDestroyed tests the terminal state.
func TestPresenterWindowDestroyed(t *testing.T) {
	p, f := newFakePresenter(t, 100, 100)

	p.WindowDestroyed()

	if _, err := p.Acquire(); !errors.Is(err, ErrSurfaceInvalid) {
		t.Errorf("Acquire error = %v, want ErrSurfaceInvalid", err)
	}
	if err := p.Present(); !errors.Is(err, ErrSurfaceInvalid) {
		t.Errorf("Present error = %v, want ErrSurfaceInvalid", err)
	}
	if err := p.Resize(10, 10); !errors.Is(err, ErrSurfaceInvalid) {
		t.Errorf("Resize error = %v, want ErrSurfaceInvalid", err)
	}

	if f.invalidated != 1 || f.released != 1 {
		t.Errorf("invalidated=%d released=%d, want 1 and 1", f.invalidated, f.released)
	}

	// Idempotent: no further native calls.
	p.WindowDestroyed()
	if f.invalidated != 1 || f.released != 1 {
		t.Errorf("repeat destruction touched the surface again: invalidated=%d released=%d",
			f.invalidated, f.released)
	}
}

// TestPresenterWindowDestroyedWhileAcquired tests destruction with a frame
// in flight.
func TestPresenterWindowDestroyedWhileAcquired(t *testing.T) {
	p, f := newFakePresenter(t, 100, 100)

	if _, err := p.Acquire(); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	p.WindowDestroyed()

	if err := p.Present(); !errors.Is(err, ErrSurfaceInvalid) {
		t.Errorf("Present error = %v, want ErrSurfaceInvalid", err)
	}
	if len(f.frames) != 0 {
		t.Error("a frame was presented into a destroyed window")
	}
}

// TestPresenterClose tests Close semantics.
func TestPresenterClose(t *testing.T) {
	p, f := newFakePresenter(t, 100, 100)

	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if f.released != 1 {
		t.Errorf("released %d times, want 1", f.released)
	}
}

// TestPresenterCloseReleaseError tests that Close reports release failures
// while WindowDestroyed swallows them.
func TestPresenterCloseReleaseError(t *testing.T) {
	p, f := newFakePresenter(t, 100, 100)
	f.releaseErr = errors.New("DetachShm failed")

	if err := p.Close(); !errors.Is(err, f.releaseErr) {
		t.Errorf("Close error = %v, want wrapped release error", err)
	}

	p2, f2 := newFakePresenter(t, 100, 100)
	f2.releaseErr = errors.New("DetachShm failed")
	p2.WindowDestroyed() // must not panic, logs instead
	if err := p2.Close(); err != nil {
		t.Errorf("Close after destroyed = %v, want nil", err)
	}
}

// TestPresenterViewport tests HiDPI bookkeeping.
func TestPresenterViewport(t *testing.T) {
	p, _ := newFakePresenter(t, 200, 100)

	lw, lh := p.LogicalSize()
	if lw != 200 || lh != 100 {
		t.Errorf("initial logical size = %dx%d, want 200x100", lw, lh)
	}

	p.SetViewport(100, 50, 2)
	lw, lh = p.LogicalSize()
	if lw != 100 || lh != 50 || p.Scale() != 2 {
		t.Errorf("viewport = %dx%d @ %v, want 100x50 @ 2", lw, lh, p.Scale())
	}

	p.SetViewport(100, 50, 0)
	if p.Scale() != 1 {
		t.Errorf("scale = %v, non-positive scale should clamp to 1", p.Scale())
	}
}

// TestPresenterScanlineAlign tests that the alignment option reaches the
// buffer.
func TestPresenterScanlineAlign(t *testing.T) {
	p, _ := newFakePresenter(t, 33, 10, WithScanlineAlign(64))

	buf, err := p.Acquire()
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	// 33*4 = 132 bytes, padded up to 192.
	if buf.Stride() != 192 {
		t.Errorf("stride = %d, want 192", buf.Stride())
	}
}

// TestPresenterBadAlignOption tests option validation at attach.
func TestPresenterBadAlignOption(t *testing.T) {
	_, err := New(Offscreen(), 100, 100,
		WithBackend(MemorySurfaceName), WithScanlineAlign(7))
	if err == nil {
		t.Fatal("expected error for misaligned scanline option")
	}
}

// TestPresenterAutoSelection tests registry-driven backend choice: the
// native-priority backend refuses the offscreen handle and selection falls
// through to the memory backend.
func TestPresenterAutoSelection(t *testing.T) {
	Register("native-"+t.Name(), 200, func(h WindowHandle, cfg Config) (Surface, error) {
		if h.Kind() != KindX11 {
			return nil, ErrUnsupportedWindow
		}
		return nil, errors.New("unreachable")
	}, nil)
	t.Cleanup(func() { Unregister("native-" + t.Name()) })

	p, err := New(Offscreen(), 50, 50)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() { _ = p.Close() }()

	if p.Backend() != MemorySurfaceName {
		t.Errorf("backend = %q, want %q", p.Backend(), MemorySurfaceName)
	}
}
