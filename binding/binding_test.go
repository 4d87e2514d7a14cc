package binding

import (
	"errors"
	"fmt"
	"image/color"
	"testing"

	"github.com/gogpu/softblit"
)

// fakeSurface records surface calls so tests can assert on the order the
// binding drives the presenter in.
type fakeSurface struct {
	width  int
	height int
	valid  bool

	calls  []string
	frames [][]byte

	resizeErr error
}

var _ softblit.Surface = (*fakeSurface)(nil)

func (f *fakeSurface) Name() string                 { return "recorder" }
func (f *fakeSurface) Format() softblit.PixelFormat { return softblit.FormatBGRA }

func (f *fakeSurface) Size() (int, int) { return f.width, f.height }

func (f *fakeSurface) Resize(width, height int) error {
	if !f.valid {
		return softblit.ErrSurfaceInvalid
	}
	if f.resizeErr != nil {
		f.valid = false
		return f.resizeErr
	}
	f.width, f.height = width, height
	f.calls = append(f.calls, fmt.Sprintf("resize %dx%d", width, height))
	return nil
}

func (f *fakeSurface) Blit(buf *softblit.Buffer) error {
	if !f.valid {
		return softblit.ErrSurfaceInvalid
	}
	f.calls = append(f.calls, fmt.Sprintf("blit %dx%d", buf.Width(), buf.Height()))
	f.frames = append(f.frames, append([]byte(nil), buf.Pix()...))
	return nil
}

func (f *fakeSurface) Invalidate() {
	f.valid = false
	f.calls = append(f.calls, "invalidate")
}

func (f *fakeSurface) Release() error {
	f.calls = append(f.calls, "release")
	return nil
}

// newTestBinding attaches a presenter to a recording backend and wraps it
// in a binding.
func newTestBinding(t *testing.T, width, height int, draw FrameFunc) (*Binding, *fakeSurface) {
	t.Helper()

	f := &fakeSurface{}
	name := "recorder-" + t.Name()
	softblit.Register(name, 500, func(h softblit.WindowHandle, cfg softblit.Config) (softblit.Surface, error) {
		f.width, f.height = cfg.Width, cfg.Height
		f.valid = true
		return f, nil
	}, nil)
	t.Cleanup(func() { softblit.Unregister(name) })

	p, err := softblit.New(softblit.Offscreen(), width, height, softblit.WithBackend(name))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return New(p, draw), f
}

// TestRedrawDrawsAndPresents tests the basic redraw cycle.
func TestRedrawDrawsAndPresents(t *testing.T) {
	var drawn int
	b, f := newTestBinding(t, 64, 32, func(buf *softblit.Buffer) {
		drawn++
		buf.Fill(color.RGBA{R: 0xde, G: 0xad, B: 0xbe, A: 0xff})
	})

	if err := b.RedrawRequested(); err != nil {
		t.Fatalf("RedrawRequested failed: %v", err)
	}
	if drawn != 1 {
		t.Errorf("draw called %d times, want 1", drawn)
	}
	if len(f.frames) != 1 {
		t.Fatalf("presented %d frames, want 1", len(f.frames))
	}
	// FormatBGRA stores the fill as B, G, R, X.
	if got := f.frames[0][:4]; got[0] != 0xbe || got[1] != 0xad || got[2] != 0xde {
		t.Errorf("first pixel = % x, want be ad de ff", got)
	}
}

// TestResizeAppliedBeforeRedraw tests that a pending resize reaches the
// surface before the frame is drawn.
func TestResizeAppliedBeforeRedraw(t *testing.T) {
	var sawW, sawH int
	b, f := newTestBinding(t, 100, 100, func(buf *softblit.Buffer) {
		sawW, sawH = buf.Size()
	})

	b.Resized(300, 200)
	if err := b.RedrawRequested(); err != nil {
		t.Fatalf("RedrawRequested failed: %v", err)
	}

	if sawW != 300 || sawH != 200 {
		t.Errorf("draw saw %dx%d buffer, want 300x200", sawW, sawH)
	}
	want := []string{"resize 300x200", "blit 300x200"}
	if len(f.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", f.calls, want)
	}
	for i := range want {
		if f.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", f.calls, want)
		}
	}
}

// TestResizeCoalesced tests that only the latest of several resize events
// is applied.
func TestResizeCoalesced(t *testing.T) {
	b, f := newTestBinding(t, 100, 100, nil)

	b.Resized(150, 150)
	b.Resized(200, 180)
	b.Resized(320, 240)
	if err := b.RedrawRequested(); err != nil {
		t.Fatalf("RedrawRequested failed: %v", err)
	}

	var resizes int
	for _, c := range f.calls {
		if c == "resize 320x240" {
			resizes++
		}
	}
	if resizes != 1 || len(f.calls) != 2 {
		t.Errorf("calls = %v, want exactly [resize 320x240, blit 320x240]", f.calls)
	}

	// A redraw with nothing pending must not resize again.
	if err := b.RedrawRequested(); err != nil {
		t.Fatalf("second RedrawRequested failed: %v", err)
	}
	if got := f.calls[len(f.calls)-1]; got != "blit 320x240" {
		t.Errorf("last call = %q, want blit 320x240", got)
	}
}

// TestZeroSizeSkipsRedraw tests that redraws are skipped while the window
// is minimized and resume when a usable size arrives.
func TestZeroSizeSkipsRedraw(t *testing.T) {
	var drawn int
	b, f := newTestBinding(t, 100, 100, func(*softblit.Buffer) { drawn++ })

	b.Resized(0, 0)
	if err := b.RedrawRequested(); err != nil {
		t.Fatalf("RedrawRequested during minimize failed: %v", err)
	}
	if drawn != 0 || len(f.calls) != 0 {
		t.Fatalf("minimized redraw ran: drawn=%d calls=%v", drawn, f.calls)
	}

	b.Resized(120, 90)
	if err := b.RedrawRequested(); err != nil {
		t.Fatalf("RedrawRequested after restore failed: %v", err)
	}
	if drawn != 1 {
		t.Errorf("draw called %d times after restore, want 1", drawn)
	}
	if w, h := f.width, f.height; w != 120 || h != 90 {
		t.Errorf("surface size = %dx%d, want 120x90", w, h)
	}
}

// TestDestroyed tests teardown ordering and idempotence.
func TestDestroyed(t *testing.T) {
	b, f := newTestBinding(t, 64, 64, nil)

	b.Destroyed()
	b.Destroyed()

	var invalidates, releases int
	for _, c := range f.calls {
		switch c {
		case "invalidate":
			invalidates++
		case "release":
			releases++
		}
	}
	if invalidates != 1 || releases != 1 {
		t.Errorf("invalidate/release = %d/%d, want 1/1 (calls %v)", invalidates, releases, f.calls)
	}

	if err := b.RedrawRequested(); !errors.Is(err, softblit.ErrSurfaceInvalid) {
		t.Errorf("RedrawRequested after destroy = %v, want ErrSurfaceInvalid", err)
	}

	// Late events must be ignored, not crash.
	b.Resized(10, 10)
	if err := b.RedrawRequested(); !errors.Is(err, softblit.ErrSurfaceInvalid) {
		t.Errorf("RedrawRequested after late resize = %v, want ErrSurfaceInvalid", err)
	}
}

// TestScaleChanged tests that scale events reach the presenter's viewport
// bookkeeping.
func TestScaleChanged(t *testing.T) {
	b, _ := newTestBinding(t, 200, 100, nil)

	b.ScaleChanged(100, 50, 2.0)

	p := b.Presenter()
	if got := p.Scale(); got != 2.0 {
		t.Errorf("Scale() = %v, want 2.0", got)
	}
	if lw, lh := p.LogicalSize(); lw != 100 || lh != 50 {
		t.Errorf("LogicalSize() = %dx%d, want 100x50", lw, lh)
	}
}

// TestNilDrawPresentsPreservedContents tests that a binding without a
// frame callback still presents, showing whatever the application last
// wrote.
func TestNilDrawPresentsPreservedContents(t *testing.T) {
	b, f := newTestBinding(t, 16, 16, nil)

	buf, err := b.Presenter().Acquire()
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	buf.Fill(color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff})
	if err := b.Presenter().Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}

	if err := b.RedrawRequested(); err != nil {
		t.Fatalf("RedrawRequested failed: %v", err)
	}
	if len(f.frames) != 2 {
		t.Fatalf("presented %d frames, want 2", len(f.frames))
	}
	for i := range f.frames[0] {
		if f.frames[0][i] != f.frames[1][i] {
			t.Fatalf("redraw without callback changed frame contents at byte %d", i)
		}
	}
}

// TestRedrawResizeFailure tests that a failed resize surfaces through the
// redraw path and leaves the binding reporting an invalid surface.
func TestRedrawResizeFailure(t *testing.T) {
	b, f := newTestBinding(t, 64, 64, nil)
	boom := errors.New("boom")
	f.resizeErr = boom

	b.Resized(128, 128)
	if err := b.RedrawRequested(); !errors.Is(err, boom) {
		t.Fatalf("RedrawRequested = %v, want wrapped boom", err)
	}

	f.resizeErr = nil
	if err := b.RedrawRequested(); !errors.Is(err, softblit.ErrSurfaceInvalid) {
		t.Errorf("RedrawRequested after failed resize = %v, want ErrSurfaceInvalid", err)
	}
}
