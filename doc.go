// Package softblit presents CPU-rendered pixel buffers on native windows.
//
// # Overview
//
// softblit is a software presentation layer: the application renders into a
// plain block of memory and softblit hands the finished frame to the
// windowing system, without a GPU context anywhere in the path. It fills the
// gap between "I have pixels" and "they are on screen" for tools, emulators,
// simulators and custom UI stacks that do their own rasterization.
//
// # Quick Start
//
//	import "github.com/gogpu/softblit"
//
//	// Attach a presenter to a native window handle.
//	p, err := softblit.New(softblit.X11Window(xid), 800, 600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	// Acquire, draw, present.
//	buf, _ := p.Acquire()
//	buf.Fill(color.RGBA{R: 30, G: 30, B: 46, A: 255})
//	if err := p.Present(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Architecture
//
// The library is organized into:
//   - Public API: Buffer, Presenter, WindowHandle, Surface
//   - Backends: x11 (MIT-SHM), win32 (GDI), cocoa (Core Graphics), memory
//   - Bindings: binding (host event adapter), binding/glfwbind (GLFW windows)
//
// Backends register themselves with the surface registry; importing a
// backend package is enough to make it a selection candidate. The memory
// backend is pure Go and always available, which keeps headless tests and
// offscreen captures working on machines with no display at all.
//
// # Threading Model
//
// A Presenter and its Buffer belong to one goroutine, normally the
// goroutine that runs the host window's event loop. None of the methods
// take locks; the acquire/present protocol is the only guard. SetLogger is
// the single exception and may be called from anywhere.
//
// # Coordinate System
//
// Buffers are top-down: row 0 is the top of the window, X increases right,
// Y increases down. Sizes are physical pixels. On HiDPI displays the
// logical window size and the pixel size differ; see Presenter.SetViewport.
package softblit

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
