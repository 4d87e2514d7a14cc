//go:build linux && wayland

package glfwbind

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/softblit"
)

// nativeHandle returns an empty handle under Wayland. No backend accepts
// it, so attach fails with ErrUnsupportedWindow instead of handing a
// wl_surface to code that cannot present to one.
func nativeHandle(win *glfw.Window) softblit.WindowHandle {
	return softblit.WindowHandle{}
}
