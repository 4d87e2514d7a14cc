package softblit

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/softblit/internal/swizzle"
)

// defaultAlign is the scanline alignment used when no option overrides it.
// 4-byte pixels make every row naturally 4-aligned, so the default adds no
// padding.
const defaultAlign = 4

// maxBufferBytes caps a buffer's storage. Native blit paths take 32-bit
// sizes, so anything larger could not be presented anyway.
const maxBufferBytes = math.MaxInt32

// Buffer is a CPU-side frame of pixels.
//
// Storage is a single contiguous block of stride*height bytes in top-down
// row-major order. The stride is the byte distance between the starts of
// consecutive rows; it is at least width*4 and may be larger when the
// backend requires scanline alignment, in which case the bytes past width*4
// on each row are padding that is never presented.
//
// A Buffer is not safe for concurrent use. Presentation buffers are owned
// by their Presenter and handed out via Acquire.
type Buffer struct {
	width  int
	height int
	stride int
	align  int
	format PixelFormat
	pix    []byte
}

// NewBuffer creates a zero-filled buffer with the given dimensions and
// pixel format and no row padding. It returns ErrInvalidDimensions if
// width or height is not positive, and an ErrResourceExhausted error if
// the pixel storage would exceed the addressable blit size.
func NewBuffer(width, height int, format PixelFormat) (*Buffer, error) {
	return newBufferAligned(width, height, format, defaultAlign)
}

// newBufferAligned creates a buffer whose stride is rounded up to align
// bytes. Presenters use this to satisfy backend scanline requirements.
func newBufferAligned(width, height int, format PixelFormat, align int) (*Buffer, error) {
	stride, size, err := bufferLayout(width, height, align)
	if err != nil {
		return nil, err
	}
	return &Buffer{
		width:  width,
		height: height,
		stride: stride,
		align:  align,
		format: format,
		pix:    make([]byte, size),
	}, nil
}

// bufferLayout validates dimensions and computes the stride and total byte
// size for them. Splitting this from allocation lets callers check a
// prospective size before committing to it.
func bufferLayout(width, height, align int) (stride, size int, err error) {
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w (got %dx%d)", ErrInvalidDimensions, width, height)
	}
	if align < BytesPerPixel || align%BytesPerPixel != 0 {
		return 0, 0, fmt.Errorf("softblit: scanline alignment must be a positive multiple of %d (got %d)", BytesPerPixel, align)
	}
	row := width * BytesPerPixel
	stride = (row + align - 1) / align * align
	if height > maxBufferBytes/stride {
		return 0, 0, fmt.Errorf("%w: %dx%d buffer exceeds %d bytes", ErrResourceExhausted, width, height, maxBufferBytes)
	}
	return stride, stride * height, nil
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Size returns the buffer dimensions in pixels.
func (b *Buffer) Size() (width, height int) { return b.width, b.height }

// Stride returns the byte distance between the starts of consecutive rows.
func (b *Buffer) Stride() int { return b.stride }

// Format returns the pixel byte order of the buffer.
func (b *Buffer) Format() PixelFormat { return b.format }

// Bounds returns the buffer rectangle anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Pix returns the raw pixel storage, stride*height bytes in the buffer's
// native format. Mutating it mutates the buffer.
func (b *Buffer) Pix() []byte { return b.pix }

// Row returns the pixels of row y as a mutable slice of exactly width*4
// bytes, excluding any stride padding. It panics if y is out of range;
// passing an invalid row index is a programming error, not a runtime
// condition to handle.
func (b *Buffer) Row(y int) []byte {
	if y < 0 || y >= b.height {
		panic(fmt.Sprintf("softblit: row %d out of range [0, %d)", y, b.height))
	}
	off := y * b.stride
	return b.pix[off : off+b.width*BytesPerPixel : off+b.stride]
}

// Resize discards the contents and reallocates storage for the new
// dimensions, keeping the format and scanline alignment. The buffer comes
// back zero-filled. Validation matches NewBuffer.
func (b *Buffer) Resize(width, height int) error {
	if width == b.width && height == b.height {
		return nil
	}
	stride, size, err := bufferLayout(width, height, b.align)
	if err != nil {
		return err
	}
	b.width = width
	b.height = height
	b.stride = stride
	b.pix = make([]byte, size)
	return nil
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c color.RGBA) {
	var px [BytesPerPixel]byte
	b.format.Encode(px[:], c)
	for y := 0; y < b.height; y++ {
		row := b.Row(y)
		for x := 0; x < len(row); x += BytesPerPixel {
			copy(row[x:], px[:])
		}
	}
}

// SetRGBA sets a single pixel. Out-of-bounds coordinates are ignored.
func (b *Buffer) SetRGBA(x, y int, c color.RGBA) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.format.Encode(b.pix[y*b.stride+x*BytesPerPixel:], c)
}

// RGBAAt returns the pixel at (x, y). Out-of-bounds coordinates return the
// zero color.
func (b *Buffer) RGBAAt(x, y int) color.RGBA {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.RGBA{}
	}
	return b.format.Decode(b.pix[y*b.stride+x*BytesPerPixel:])
}

// WriteRGBA copies src into the buffer starting at the origin, reordering
// channels into the buffer's format. The copy covers the overlap of the two
// sizes; anything outside it is left untouched. src rows are read from
// src.Bounds().Min, so subimages work.
func (b *Buffer) WriteRGBA(src *image.RGBA) {
	w := min(b.width, src.Bounds().Dx())
	h := min(b.height, src.Bounds().Dy())
	if w <= 0 || h <= 0 {
		return
	}
	for y := 0; y < h; y++ {
		so := src.PixOffset(src.Bounds().Min.X, src.Bounds().Min.Y+y)
		srow := src.Pix[so : so+w*BytesPerPixel]
		drow := b.Row(y)[:w*BytesPerPixel]
		if b.format == FormatBGRA {
			swizzle.CopyBGRA(drow, srow)
		} else {
			copy(drow, srow)
		}
	}
}

// Snapshot returns a copy of the buffer as an RGBA image, reordering
// channels out of the buffer's format. Stride padding is not included.
// Modifications to the returned image do not affect the buffer.
func (b *Buffer) Snapshot() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		srow := b.Row(y)
		drow := img.Pix[y*img.Stride : y*img.Stride+b.width*BytesPerPixel]
		if b.format == FormatBGRA {
			swizzle.CopyBGRA(drow, srow)
		} else {
			copy(drow, srow)
		}
	}
	return img
}
