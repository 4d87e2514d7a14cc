package softblit

import "image/color"

// PixelFormat describes the byte order of a Buffer's pixels. Every format
// is 8 bits per channel, 4 bytes per pixel. The fourth byte carries alpha
// for code that wants it, but the window backends in this module treat it
// as padding: frames are presented opaque.
//
// The format of a presentation buffer is chosen by the backend at attach
// time so that Blit is a straight memory copy. Application code that works
// in RGBA order can stay format-agnostic by using WriteRGBA and Snapshot,
// which reorder channels as needed.
type PixelFormat uint8

const (
	// FormatRGBA stores pixels as R, G, B, A bytes, matching image.RGBA.
	FormatRGBA PixelFormat = iota

	// FormatBGRA stores pixels as B, G, R, X bytes. This is the native
	// layout of little-endian X11 ZPixmap visuals, 32-bit Win32 DIBs and
	// Core Graphics byte-order-32-little bitmaps.
	FormatBGRA
)

// BytesPerPixel is the storage size of one pixel in every supported format.
const BytesPerPixel = 4

// String returns the format name.
func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA:
		return "rgba"
	case FormatBGRA:
		return "bgra"
	default:
		return "unknown"
	}
}

// Encode writes c into dst[0:4] using the format's byte order.
func (f PixelFormat) Encode(dst []byte, c color.RGBA) {
	if f == FormatBGRA {
		dst[0], dst[1], dst[2], dst[3] = c.B, c.G, c.R, c.A
		return
	}
	dst[0], dst[1], dst[2], dst[3] = c.R, c.G, c.B, c.A
}

// Decode reads the pixel stored at src[0:4].
func (f PixelFormat) Decode(src []byte) color.RGBA {
	if f == FormatBGRA {
		return color.RGBA{R: src[2], G: src[1], B: src[0], A: src[3]}
	}
	return color.RGBA{R: src[0], G: src[1], B: src[2], A: src[3]}
}
