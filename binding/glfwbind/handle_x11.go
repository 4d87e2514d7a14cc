//go:build linux && !wayland

package glfwbind

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/softblit"
)

// nativeHandle extracts the X11 window ID behind the GLFW window.
func nativeHandle(win *glfw.Window) softblit.WindowHandle {
	return softblit.X11Window(uint32(win.GetX11Window()))
}
