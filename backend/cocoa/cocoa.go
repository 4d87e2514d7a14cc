// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build darwin

package cocoa

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework Cocoa -framework QuartzCore

#import <Cocoa/Cocoa.h>
#import <QuartzCore/QuartzCore.h>

// softblit_contentView returns the window's content view, made
// layer-backed so its contents can be replaced directly.
static void *softblit_contentView(void *window) {
	NSWindow *w = (__bridge NSWindow *)window;
	NSView *v = [w contentView];
	if (v == nil) {
		return NULL;
	}
	[v setWantsLayer:YES];
	return (__bridge void *)v;
}

// softblit_setLayerContents wraps the pixels in a CGImage and swaps it
// into the view's layer inside one transaction. CFDataCreate copies the
// bytes before returning, so the caller's memory is free for reuse as
// soon as the call completes.
static int softblit_setLayerContents(void *view, const void *pixels,
                                     int width, int height, int stride) {
	NSView *v = (__bridge NSView *)view;
	CFDataRef data = CFDataCreate(NULL, (const UInt8 *)pixels,
	                              (CFIndex)stride * height);
	if (data == NULL) {
		return 0;
	}
	CGDataProviderRef provider = CGDataProviderCreateWithCFData(data);
	CFRelease(data);
	if (provider == NULL) {
		return 0;
	}
	CGColorSpaceRef space = CGColorSpaceCreateWithName(kCGColorSpaceSRGB);
	CGImageRef image = CGImageCreate((size_t)width, (size_t)height, 8, 32,
		(size_t)stride, space,
		kCGBitmapByteOrder32Little | kCGImageAlphaNoneSkipFirst,
		provider, NULL, false, kCGRenderingIntentDefault);
	CGColorSpaceRelease(space);
	CGDataProviderRelease(provider);
	if (image == NULL) {
		return 0;
	}
	[CATransaction begin];
	[CATransaction setDisableActions:YES];
	v.layer.contents = (__bridge id)image;
	[CATransaction commit];
	CGImageRelease(image);
	return 1;
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/softblit"
)

// Name is the backend identifier used for registration.
const Name = "cocoa"

func init() {
	softblit.Register(Name, 100, New, nil)
}

// Surface presents buffers on the content view of an NSWindow.
//
// The native side keeps no per-frame resources; each Blit builds a fresh
// CGImage from a copy of the pixels and hands it to the view's layer.
type Surface struct {
	view unsafe.Pointer

	width  int
	height int
	stride int
	align  int

	valid bool
}

var _ softblit.Surface = (*Surface)(nil)

// New attaches a surface to the NSWindow carried by the handle.
func New(handle softblit.WindowHandle, cfg softblit.Config) (softblit.Surface, error) {
	if handle.Kind() != softblit.KindCocoa {
		return nil, fmt.Errorf("cocoa: handle kind %s: %w", handle.Kind(), softblit.ErrUnsupportedWindow)
	}
	if handle.Pointer() == 0 {
		return nil, fmt.Errorf("cocoa: nil NSWindow: %w", softblit.ErrUnsupportedWindow)
	}

	// The pointer came from the windowing layer and never moved through
	// the Go heap.
	view := C.softblit_contentView(unsafe.Pointer(handle.Pointer()))
	if view == nil {
		return nil, fmt.Errorf("cocoa: window has no content view: %w", softblit.ErrUnsupportedWindow)
	}

	s := &Surface{view: view, align: cfg.ScanlineAlign}
	if err := s.setSize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	s.valid = true

	softblit.Logger().Debug("cocoa surface attached",
		"width", s.width, "height", s.height, "stride", s.stride)
	return s, nil
}

// Name returns the backend identifier.
func (s *Surface) Name() string { return Name }

// Format returns the pixel format the surface consumes.
func (s *Surface) Format() softblit.PixelFormat { return softblit.FormatBGRA }

// Size returns the current surface dimensions in pixels.
func (s *Surface) Size() (width, height int) { return s.width, s.height }

func (s *Surface) setSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("cocoa: %dx%d: %w", width, height, softblit.ErrInvalidDimensions)
	}
	s.width = width
	s.height = height
	s.stride = (width*softblit.BytesPerPixel + s.align - 1) / s.align * s.align
	return nil
}

// Resize records the new dimensions. The layer needs no reallocation
// because every frame carries its own image.
func (s *Surface) Resize(width, height int) error {
	if !s.valid {
		return softblit.ErrSurfaceInvalid
	}
	return s.setSize(width, height)
}

// Blit swaps a CGImage built from buf into the view's layer.
func (s *Surface) Blit(buf *softblit.Buffer) error {
	if !s.valid {
		return softblit.ErrSurfaceInvalid
	}
	s.checkBuffer(buf)

	pix := buf.Pix()
	ok := C.softblit_setLayerContents(s.view, unsafe.Pointer(&pix[0]),
		C.int(s.width), C.int(s.height), C.int(s.stride))
	if ok == 0 {
		return fmt.Errorf("cocoa: creating frame image: %w", softblit.ErrResourceExhausted)
	}
	return nil
}

// checkBuffer enforces the blit preconditions. A mismatch means the
// presenter protocol was bypassed, so it panics instead of erroring.
func (s *Surface) checkBuffer(buf *softblit.Buffer) {
	if buf.Width() != s.width || buf.Height() != s.height {
		panic(fmt.Sprintf("softblit/cocoa: blit of %dx%d buffer onto %dx%d surface",
			buf.Width(), buf.Height(), s.width, s.height))
	}
	if buf.Format() != softblit.FormatBGRA {
		panic(fmt.Sprintf("softblit/cocoa: blit of %s buffer, surface needs bgra", buf.Format()))
	}
	if buf.Stride() != s.stride {
		panic(fmt.Sprintf("softblit/cocoa: blit with stride %d, surface expects %d",
			buf.Stride(), s.stride))
	}
}

// Invalidate marks the surface unusable without touching the view. The
// window may already be tearing down when this is called.
func (s *Surface) Invalidate() {
	s.valid = false
}

// Release drops the view reference. The layer keeps the last frame until
// the window goes away.
func (s *Surface) Release() error {
	s.valid = false
	s.view = nil
	return nil
}
