//go:build windows

package glfwbind

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/softblit"
)

// nativeHandle extracts the HWND behind the GLFW window.
func nativeHandle(win *glfw.Window) softblit.WindowHandle {
	return softblit.Win32Window(uintptr(unsafe.Pointer(win.GetWin32Window())))
}
