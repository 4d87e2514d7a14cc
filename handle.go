package softblit

import "fmt"

// HandleKind identifies the windowing subsystem a WindowHandle belongs to.
type HandleKind uint8

const (
	// KindNone is the zero handle. No backend accepts it, so a forgotten
	// handle fails loudly at attach time instead of silently going
	// offscreen.
	KindNone HandleKind = iota

	// KindOffscreen selects presentation without a native window. Only the
	// memory backend accepts it.
	KindOffscreen

	// KindX11 wraps an X11 window ID.
	KindX11

	// KindWin32 wraps a Win32 HWND.
	KindWin32

	// KindCocoa wraps a Cocoa NSWindow pointer.
	KindCocoa
)

// String returns the kind name.
func (k HandleKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindOffscreen:
		return "offscreen"
	case KindX11:
		return "x11"
	case KindWin32:
		return "win32"
	case KindCocoa:
		return "cocoa"
	default:
		return "unknown"
	}
}

// WindowHandle is an opaque reference to a native window paired with the
// windowing subsystem it belongs to. Handles are plain values: constructing
// one performs no native calls and does not validate the window, validation
// happens when a backend attaches.
//
// The handle does not own the window. Destroying the native window while a
// surface is attached is the host's business; it must report the
// destruction (Presenter.WindowDestroyed) before releasing the handle.
type WindowHandle struct {
	kind HandleKind
	xid  uint32
	ptr  uintptr
}

// Offscreen returns a handle for presentation without a native window.
func Offscreen() WindowHandle {
	return WindowHandle{kind: KindOffscreen}
}

// X11Window wraps an X11 window ID. The window must live on the display the
// backend connects to ($DISPLAY unless overridden with WithDisplay).
func X11Window(id uint32) WindowHandle {
	return WindowHandle{kind: KindX11, xid: id}
}

// Win32Window wraps a Win32 window handle (HWND).
func Win32Window(hwnd uintptr) WindowHandle {
	return WindowHandle{kind: KindWin32, ptr: hwnd}
}

// CocoaWindow wraps a Cocoa window pointer (NSWindow*). The backend
// presents into the window's content view.
func CocoaWindow(window uintptr) WindowHandle {
	return WindowHandle{kind: KindCocoa, ptr: window}
}

// Kind returns the windowing subsystem this handle belongs to.
func (h WindowHandle) Kind() HandleKind { return h.kind }

// XID returns the X11 window ID. Meaningful only for KindX11.
func (h WindowHandle) XID() uint32 { return h.xid }

// Pointer returns the native pointer value. Meaningful for KindWin32
// (HWND) and KindCocoa (NSWindow*).
func (h WindowHandle) Pointer() uintptr { return h.ptr }

// String formats the handle for logs.
func (h WindowHandle) String() string {
	switch h.kind {
	case KindX11:
		return fmt.Sprintf("x11(0x%x)", h.xid)
	case KindWin32, KindCocoa:
		return fmt.Sprintf("%s(0x%x)", h.kind, h.ptr)
	default:
		return h.kind.String()
	}
}
