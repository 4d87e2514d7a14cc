// Package swizzle converts 32-bit pixel rows between RGBA and BGRA byte
// order. Little-endian X11 visuals, Win32 DIB sections and Core Graphics
// layers all store pixels as B, G, R, X in memory while Go image code
// conventionally works in R, G, B, A order, so this conversion sits on the
// boundary between application pixels and native surface pixels.
package swizzle

// BGRA swaps the first and third byte of every 4-byte group of p in place.
// The swap is its own inverse, so the same call converts RGBA to BGRA and
// back. len(p) must be a multiple of 4.
func BGRA(p []byte) {
	if len(p)%4 != 0 {
		panic("swizzle: input length not a multiple of 4")
	}
	// Four pixels per iteration keeps the bounds checks amortized.
	n := len(p) &^ 0x0f
	for i := 0; i < n; i += 16 {
		p[i+0], p[i+2] = p[i+2], p[i+0]
		p[i+4], p[i+6] = p[i+6], p[i+4]
		p[i+8], p[i+10] = p[i+10], p[i+8]
		p[i+12], p[i+14] = p[i+14], p[i+12]
	}
	for i := n; i < len(p); i += 4 {
		p[i+0], p[i+2] = p[i+2], p[i+0]
	}
}

// CopyBGRA copies pixels from src to dst while swapping the first and third
// byte of every 4-byte group. It converts an RGBA row into a BGRA row (or
// the reverse) without mutating src. The slices must not overlap and must
// have equal lengths that are a multiple of 4.
func CopyBGRA(dst, src []byte) {
	if len(dst) != len(src) {
		panic("swizzle: length mismatch")
	}
	if len(src)%4 != 0 {
		panic("swizzle: input length not a multiple of 4")
	}
	for i := 0; i < len(src); i += 4 {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		dst[i+3] = src[i+3]
	}
}
