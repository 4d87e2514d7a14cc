//go:build darwin

package glfwbind

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/softblit"
)

// nativeHandle extracts the NSWindow behind the GLFW window.
func nativeHandle(win *glfw.Window) softblit.WindowHandle {
	return softblit.CocoaWindow(uintptr(win.GetCocoaWindow()))
}
