package softblit

import (
	"fmt"
	"image"
)

// MemorySurfaceName is the registry name of the built-in memory backend.
const MemorySurfaceName = "memory"

// MemorySurface is the built-in presentation target without a window:
// presenting copies the frame into an in-memory store instead of a native
// surface. It is pure Go and always available, which makes it the backend
// for headless captures, CI, and any test that wants to assert on exactly
// what was presented.
//
// MemorySurface implements Readback; Snapshot returns the last presented
// frame.
type MemorySurface struct {
	width  int
	height int
	stride int
	align  int
	store  []byte
	valid  bool

	blits   int
	resizes int
}

var (
	_ Surface  = (*MemorySurface)(nil)
	_ Readback = (*MemorySurface)(nil)
)

// NewMemorySurface creates a memory surface. The handle must be
// Offscreen(); any window-bearing handle is refused with
// ErrUnsupportedWindow so that automatic selection keeps looking for a
// backend that can actually reach the window.
func NewMemorySurface(h WindowHandle, cfg Config) (Surface, error) {
	if h.Kind() != KindOffscreen {
		return nil, fmt.Errorf("%w: memory backend presents offscreen only (handle %s)", ErrUnsupportedWindow, h)
	}
	align := cfg.ScanlineAlign
	if align == 0 {
		align = defaultAlign
	}
	stride, size, err := bufferLayout(cfg.Width, cfg.Height, align)
	if err != nil {
		return nil, err
	}
	return &MemorySurface{
		width:  cfg.Width,
		height: cfg.Height,
		stride: stride,
		align:  align,
		store:  make([]byte, size),
		valid:  true,
	}, nil
}

func init() {
	Register(MemorySurfaceName, 10, NewMemorySurface, nil)
}

// Name returns the backend name.
func (s *MemorySurface) Name() string { return MemorySurfaceName }

// Format returns FormatRGBA: with no window system dictating byte order,
// the memory surface keeps the Go-native layout.
func (s *MemorySurface) Format() PixelFormat { return FormatRGBA }

// Size returns the current surface dimensions.
func (s *MemorySurface) Size() (width, height int) { return s.width, s.height }

// Resize reallocates the store for the new dimensions. The previous frame
// is discarded. Resizing to the current size is a no-op.
func (s *MemorySurface) Resize(width, height int) error {
	if !s.valid {
		return ErrSurfaceInvalid
	}
	if width == s.width && height == s.height {
		return nil
	}
	stride, size, err := bufferLayout(width, height, s.align)
	if err != nil {
		return err
	}
	s.width = width
	s.height = height
	s.stride = stride
	s.store = make([]byte, size)
	s.blits = 0
	s.resizes++
	return nil
}

// Blit copies the frame into the store.
func (s *MemorySurface) Blit(buf *Buffer) error {
	if !s.valid {
		return ErrSurfaceInvalid
	}
	s.checkBuffer(buf)
	copy(s.store, buf.Pix())
	s.blits++
	return nil
}

// checkBuffer enforces the blit preconditions. A mismatch means the
// acquire/present protocol was bypassed, so it panics instead of erroring.
func (s *MemorySurface) checkBuffer(buf *Buffer) {
	if buf.Width() != s.width || buf.Height() != s.height {
		panic(fmt.Sprintf("softblit: blit of %dx%d buffer onto %dx%d surface",
			buf.Width(), buf.Height(), s.width, s.height))
	}
	if buf.Format() != s.Format() {
		panic(fmt.Sprintf("softblit: blit of %s buffer onto %s surface",
			buf.Format(), s.Format()))
	}
	if buf.Stride() != s.stride {
		panic(fmt.Sprintf("softblit: blit with stride %d onto surface with stride %d",
			buf.Stride(), s.stride))
	}
}

// Invalidate marks the surface dead.
func (s *MemorySurface) Invalidate() { s.valid = false }

// Release drops the store. Idempotent.
func (s *MemorySurface) Release() error {
	s.valid = false
	s.store = nil
	return nil
}

// Snapshot returns a copy of the last presented frame, or nil if nothing
// has been presented since creation or the last resize.
func (s *MemorySurface) Snapshot() *image.RGBA {
	if s.blits == 0 || s.store == nil {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	for y := 0; y < s.height; y++ {
		so := y * s.stride
		copy(img.Pix[y*img.Stride:y*img.Stride+s.width*BytesPerPixel],
			s.store[so:so+s.width*BytesPerPixel])
	}
	return img
}

// BlitCount returns the number of frames presented since creation or the
// last resize.
func (s *MemorySurface) BlitCount() int { return s.blits }

// ResizeCount returns the number of effective (size-changing) resizes.
func (s *MemorySurface) ResizeCount() int { return s.resizes }
