// Package glfwbind opens GLFW windows wired to software presenters.
//
// GLFW is asked for a window without any GPU context (ClientAPI NoAPI);
// the native handle it created is handed to the presenter, and the GLFW
// callbacks are routed into a binding so resize, scale, refresh and
// destruction all follow the presentation protocol. The package is the
// shortest path from "draw into a buffer" to pixels in a real window:
//
//	win, err := glfwbind.Open(glfwbind.Config{Title: "demo", Width: 640, Height: 480},
//		func(buf *softblit.Buffer) {
//			buf.Fill(color.RGBA{R: 30, G: 30, B: 46, A: 255})
//		})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer win.Close()
//	if err := win.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// GLFW requires the main OS thread; Open locks the calling goroutine to
// it, and Run and Close must be called from that same goroutine. Put
// Open in main, or in a function main calls directly.
package glfwbind

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/softblit"
	"github.com/gogpu/softblit/binding"
)

// Config describes the window to open. Width and Height are logical
// (screen coordinate) dimensions; the presenter is sized to the
// framebuffer, which is larger on HiDPI displays.
type Config struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
}

// Window couples a GLFW window with the binding that presents into it.
type Window struct {
	win  *glfw.Window
	bind *binding.Binding
}

// Open creates the window, attaches a presenter to its native handle and
// wires the event callbacks. Extra options are passed through to the
// presenter, so WithBackend and WithScanlineAlign work here too.
//
// The surface backends select on the handle kind, which means the
// matching backend package must be imported (usually blank) by the final
// program.
func Open(cfg Config, draw binding.FrameFunc, opts ...softblit.Option) (*Window, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfwbind: initializing glfw: %w", err)
	}

	// Software presentation: no GL or Vulkan context on the window.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	if cfg.Resizable {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfwbind: creating window: %w", err)
	}

	fbW, fbH := win.GetFramebufferSize()
	if fbW < 1 || fbH < 1 {
		fbW, fbH = cfg.Width, cfg.Height
	}

	p, err := softblit.New(nativeHandle(win), fbW, fbH, opts...)
	if err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, err
	}

	sx, _ := win.GetContentScale()
	lw, lh := win.GetSize()
	p.SetViewport(lw, lh, float64(sx))

	b := binding.New(p, draw)
	w := &Window{win: win, bind: b}

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		b.Resized(width, height)
	})
	win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		b.ScaleChanged(width, height, p.Scale())
	})
	win.SetContentScaleCallback(func(_ *glfw.Window, x, _ float32) {
		lw, lh := win.GetSize()
		b.ScaleChanged(lw, lh, float64(x))
	})
	win.SetRefreshCallback(func(_ *glfw.Window) {
		// Fires while the user drags a border; repaint immediately so
		// the window never shows stale or undefined pixels.
		if err := b.RedrawRequested(); err != nil {
			softblit.Logger().Warn("refresh redraw failed", "err", err)
		}
	})

	return w, nil
}

// Run presents frames until the window is closed. Each iteration redraws
// through the binding and then polls events, so animations run at the
// display's pace without any event trickery. A presentation failure stops
// the loop and is returned; closing the window returns nil.
func (w *Window) Run() error {
	for !w.win.ShouldClose() {
		if err := w.bind.RedrawRequested(); err != nil {
			return err
		}
		glfw.PollEvents()
	}
	return nil
}

// Close tears the window down in the order the presenter requires: the
// surface is released while the native handle is still alive, then the
// window is destroyed and GLFW terminated. Close is safe to call after a
// failed Run.
func (w *Window) Close() {
	w.bind.Destroyed()
	w.win.Destroy()
	glfw.Terminate()
}

// Presenter returns the presenter attached to this window.
func (w *Window) Presenter() *softblit.Presenter { return w.bind.Presenter() }

// Binding returns the event binding, for hosts that drive redraws
// themselves instead of using Run.
func (w *Window) Binding() *binding.Binding { return w.bind }

// GLFW returns the underlying window for input callbacks and anything
// else this package does not wrap.
func (w *Window) GLFW() *glfw.Window { return w.win }
