// Package binding connects a presenter to window-system events.
//
// A Binding receives the events every windowing layer produces in some
// form (resize, scale change, redraw request, destruction) and drives the
// presenter's frame protocol in response. It owns the one piece of state
// that makes event-driven presentation correct: the pending resize.
// Window systems deliver resize events freely, often several per frame
// while a user drags a window edge, and resizing the swap storage on each
// one wastes work. The binding coalesces them and applies only the latest
// size, immediately before the next frame is drawn, so the buffer handed
// to the frame callback always matches the window.
//
// Bindings are not safe for concurrent use. Call all methods from the
// event-loop goroutine that owns the window.
package binding

import (
	"fmt"

	"github.com/gogpu/softblit"
)

// FrameFunc draws one frame into the buffer. The buffer is valid only for
// the duration of the call; do not retain it.
type FrameFunc func(*softblit.Buffer)

// Binding drives a presenter from window-system events.
type Binding struct {
	presenter *softblit.Presenter
	draw      FrameFunc

	pendingW      int
	pendingH      int
	resizePending bool

	destroyed bool
}

// New wires a presenter to a frame callback.
//
// A nil draw is allowed: redraws then present the buffer's preserved
// contents unchanged, which covers applications that render outside the
// redraw path and only need expose handling.
func New(p *softblit.Presenter, draw FrameFunc) *Binding {
	return &Binding{presenter: p, draw: draw}
}

// Resized records a new framebuffer size in pixels. Successive calls
// coalesce; only the most recent size is applied, and not until the next
// redraw.
func (b *Binding) Resized(width, height int) {
	if b.destroyed {
		return
	}
	b.pendingW, b.pendingH = width, height
	b.resizePending = true
}

// ScaleChanged records a new DPI scale factor together with the window's
// logical size. It feeds the presenter's viewport bookkeeping and never
// touches swap storage; a scale change that also changes the framebuffer
// size arrives as a separate Resized call.
func (b *Binding) ScaleChanged(logicalW, logicalH int, scale float64) {
	b.presenter.SetViewport(logicalW, logicalH, scale)
}

// RedrawRequested produces and presents one frame.
//
// Any pending resize is applied first, so the frame callback always sees
// a buffer matching the current window size. A pending size with a zero
// or negative dimension means the window is minimized; the redraw is
// skipped without error and the resize stays pending until a usable size
// arrives.
func (b *Binding) RedrawRequested() error {
	if b.destroyed {
		return softblit.ErrSurfaceInvalid
	}

	if b.resizePending {
		if b.pendingW < 1 || b.pendingH < 1 {
			return nil
		}
		if err := b.presenter.Resize(b.pendingW, b.pendingH); err != nil {
			return fmt.Errorf("binding: applying resize: %w", err)
		}
		b.resizePending = false
	}

	buf, err := b.presenter.Acquire()
	if err != nil {
		return err
	}
	if b.draw != nil {
		b.draw(buf)
	}
	return b.presenter.Present()
}

// Destroyed reacts to the window going away. The presenter's surface is
// invalidated and released while the native handle is still live; every
// later call on the binding reports ErrSurfaceInvalid. Destroyed is
// idempotent.
func (b *Binding) Destroyed() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.presenter.WindowDestroyed()
}

// Presenter returns the bound presenter.
func (b *Binding) Presenter() *softblit.Presenter { return b.presenter }
