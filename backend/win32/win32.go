// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build windows

package win32

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/gogpu/softblit"
)

// Name is the registry name of this backend.
const Name = "win32"

func init() {
	softblit.Register(Name, 100, New, nil)
}

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")

	procIsWindow      = user32.NewProc("IsWindow")
	procGetDC         = user32.NewProc("GetDC")
	procReleaseDC     = user32.NewProc("ReleaseDC")
	procStretchDIBits = gdi32.NewProc("StretchDIBits")
)

const (
	biRGB        = 0
	dibRGBColors = 0
	srcCopy      = 0x00cc0020
)

// bitmapInfoHeader mirrors BITMAPINFOHEADER. With BI_RGB at 32 bits per
// pixel no color table follows, so the header alone serves as the
// BITMAPINFO StretchDIBits wants.
type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// Surface presents buffers on one HWND. GDI copies the frame out during
// the StretchDIBits call, so the surface itself holds no pixel storage.
type Surface struct {
	hwnd uintptr

	width  int
	height int
	stride int
	align  int

	valid bool
}

var _ softblit.Surface = (*Surface)(nil)

// New attaches to the window in h. The HWND must refer to a live window.
func New(h softblit.WindowHandle, cfg softblit.Config) (softblit.Surface, error) {
	if h.Kind() != softblit.KindWin32 {
		return nil, fmt.Errorf("%w: win32 backend needs an HWND, got %s", softblit.ErrUnsupportedWindow, h)
	}
	if ret, _, _ := procIsWindow.Call(h.Pointer()); ret == 0 {
		return nil, fmt.Errorf("%w: 0x%x is not a window", softblit.ErrUnsupportedWindow, h.Pointer())
	}

	s := &Surface{
		hwnd:  h.Pointer(),
		align: cfg.ScanlineAlign,
		valid: true,
	}
	if s.align == 0 {
		s.align = softblit.BytesPerPixel
	}
	if err := s.setSize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	softblit.Logger().Debug("win32 surface attached",
		"hwnd", fmt.Sprintf("0x%x", s.hwnd), "width", s.width, "height", s.height)
	return s, nil
}

// setSize validates and records dimensions and the padded stride.
func (s *Surface) setSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w (got %dx%d)", softblit.ErrInvalidDimensions, width, height)
	}
	s.width = width
	s.height = height
	s.stride = (width*softblit.BytesPerPixel + s.align - 1) / s.align * s.align
	return nil
}

// Name returns the backend name.
func (s *Surface) Name() string { return Name }

// Format returns FormatBGRA, the BI_RGB 32-bit DIB byte order.
func (s *Surface) Format() softblit.PixelFormat { return softblit.FormatBGRA }

// Size returns the current surface dimensions.
func (s *Surface) Size() (width, height int) { return s.width, s.height }

// Resize records the new dimensions. GDI keeps no per-surface state, so
// there is nothing native to reallocate.
func (s *Surface) Resize(width, height int) error {
	if !s.valid {
		return softblit.ErrSurfaceInvalid
	}
	if width == s.width && height == s.height {
		return nil
	}
	return s.setSize(width, height)
}

// Blit copies the frame to the window through StretchDIBits. The call is
// synchronous; the buffer is reusable when it returns.
func (s *Surface) Blit(buf *softblit.Buffer) error {
	if !s.valid {
		return softblit.ErrSurfaceInvalid
	}
	s.checkBuffer(buf)

	hdc, _, _ := procGetDC.Call(s.hwnd)
	if hdc == 0 {
		return fmt.Errorf("%w: GetDC failed for 0x%x", softblit.ErrResourceExhausted, s.hwnd)
	}
	defer procReleaseDC.Call(s.hwnd, hdc)

	// Negative height marks the DIB top-down; the header width spans the
	// full stride so padded rows line up, while the blit rectangle stays
	// at the visible width.
	bih := bitmapInfoHeader{
		Size:        uint32(unsafe.Sizeof(bitmapInfoHeader{})),
		Width:       int32(s.stride / softblit.BytesPerPixel),
		Height:      -int32(s.height),
		Planes:      1,
		BitCount:    32,
		Compression: biRGB,
	}

	pix := buf.Pix()
	ret, _, _ := procStretchDIBits.Call(
		hdc,
		0, 0, uintptr(s.width), uintptr(s.height),
		0, 0, uintptr(s.width), uintptr(s.height),
		uintptr(unsafe.Pointer(&pix[0])),
		uintptr(unsafe.Pointer(&bih)),
		dibRGBColors,
		srcCopy,
	)
	if ret == 0 {
		return fmt.Errorf("softblit/win32: StretchDIBits copied no scanlines")
	}
	return nil
}

// checkBuffer enforces the blit preconditions. A mismatch means the
// presenter protocol was bypassed, so it panics instead of erroring.
func (s *Surface) checkBuffer(buf *softblit.Buffer) {
	if buf.Width() != s.width || buf.Height() != s.height {
		panic(fmt.Sprintf("softblit/win32: blit of %dx%d buffer onto %dx%d surface",
			buf.Width(), buf.Height(), s.width, s.height))
	}
	if buf.Format() != softblit.FormatBGRA {
		panic(fmt.Sprintf("softblit/win32: blit of %s buffer, surface needs bgra", buf.Format()))
	}
	if buf.Stride() != s.stride {
		panic(fmt.Sprintf("softblit/win32: blit with stride %d, surface expects %d",
			buf.Stride(), s.stride))
	}
}

// Invalidate marks the surface dead. Called when the window is being
// destroyed; the HWND is about to stop existing.
func (s *Surface) Invalidate() { s.valid = false }

// Release invalidates the surface. No GDI objects outlive a blit, so
// there is nothing else to free. Idempotent.
func (s *Surface) Release() error {
	s.valid = false
	return nil
}
