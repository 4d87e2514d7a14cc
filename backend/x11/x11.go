// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build linux

package x11

import (
	"fmt"
	"os"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/shm"
	"github.com/jezek/xgb/xproto"

	"github.com/gogpu/softblit"
)

// Name is the registry name of this backend.
const Name = "x11"

func init() {
	softblit.Register(Name, 100, New, available)
}

// available reports whether an X display is plausibly reachable. The real
// check happens at attach; this only keeps the backend out of automatic
// selection on displayless systems.
func available() bool {
	return os.Getenv("DISPLAY") != ""
}

// maxDim is the X11 window dimension limit (CARD16 in the protocol).
const maxDim = 0xffff

// putChunk caps the payload of one core-protocol PutImage request, staying
// comfortably under the 256 KiB request limit of servers without
// BIG-REQUESTS.
const putChunk = 1 << 16

// Surface presents buffers on one X11 window over a private connection.
//
// The preferred path keeps a SysV shared memory segment attached on both
// sides: Blit copies the frame into the segment and issues one shm.PutImage.
// Without MIT-SHM the frame goes through core-protocol PutImage requests
// instead, chunked by rows.
type Surface struct {
	conn   *xgb.Conn
	window xproto.Window
	gc     xproto.Gcontext
	depth  byte

	width  int
	height int
	stride int
	align  int

	useSHM bool
	seg    *shmSegment
	xseg   shm.Seg

	valid bool
}

var _ softblit.Surface = (*Surface)(nil)

// New attaches to the X11 window in h. The window must exist and have
// depth 24 or 32. cfg.Display overrides $DISPLAY.
func New(h softblit.WindowHandle, cfg softblit.Config) (softblit.Surface, error) {
	if h.Kind() != softblit.KindX11 {
		return nil, fmt.Errorf("%w: x11 backend needs an X11 window, got %s", softblit.ErrUnsupportedWindow, h)
	}

	conn, err := connect(cfg.Display)
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to X display: %v", softblit.ErrUnsupportedWindow, err)
	}

	s := &Surface{
		conn:   conn,
		window: xproto.Window(h.XID()),
		align:  cfg.ScanlineAlign,
		valid:  true,
	}
	if s.align == 0 {
		s.align = softblit.BytesPerPixel
	}

	geo, err := xproto.GetGeometry(conn, xproto.Drawable(s.window)).Reply()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: querying window 0x%x: %v", softblit.ErrUnsupportedWindow, h.XID(), err)
	}
	if geo.Depth != 24 && geo.Depth != 32 {
		conn.Close()
		return nil, fmt.Errorf("%w: window depth %d, need 24 or 32", softblit.ErrUnsupportedWindow, geo.Depth)
	}
	s.depth = geo.Depth

	gcid, err := xproto.NewGcontextId(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("softblit/x11: allocating gcontext id: %w", err)
	}
	if err := xproto.CreateGCChecked(conn, gcid, xproto.Drawable(s.window), 0, nil).Check(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("softblit/x11: creating gc: %w", err)
	}
	s.gc = gcid

	s.useSHM = shm.Init(conn) == nil
	if !s.useSHM {
		softblit.Logger().Warn("MIT-SHM unavailable, using core-protocol PutImage",
			"window", h.String())
	}

	if err := s.allocate(cfg.Width, cfg.Height); err != nil {
		if s.useSHM {
			// Segment creation can fail where the extension probe did not,
			// e.g. under shm limits. Degrade to the core path once.
			softblit.Logger().Warn("shared memory setup failed, using core-protocol PutImage",
				"window", h.String(), "err", err)
			s.useSHM = false
			err = s.allocate(cfg.Width, cfg.Height)
		}
		if err != nil {
			s.teardown()
			return nil, err
		}
	}

	softblit.Logger().Debug("x11 surface attached",
		"window", h.String(), "depth", s.depth, "shm", s.useSHM)
	return s, nil
}

// connect opens a private X connection for this surface.
func connect(display string) (*xgb.Conn, error) {
	if display != "" {
		return xgb.NewConnDisplay(display)
	}
	return xgb.NewConn()
}

// allocate sets up presentation storage for the given dimensions. On the
// SHM path that is a segment attached both locally and on the server; the
// core path needs no storage because requests carry the pixels.
func (s *Surface) allocate(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w (got %dx%d)", softblit.ErrInvalidDimensions, width, height)
	}
	if width > maxDim || height > maxDim {
		return fmt.Errorf("%w: %dx%d exceeds the X11 window size limit", softblit.ErrInvalidDimensions, width, height)
	}
	stride := (width*softblit.BytesPerPixel + s.align - 1) / s.align * s.align

	if s.useSHM {
		seg, err := newSHMSegment(stride * height)
		if err != nil {
			return fmt.Errorf("%w: %v", softblit.ErrResourceExhausted, err)
		}
		xseg, err := shm.NewSegId(s.conn)
		if err != nil {
			_ = seg.detach()
			return fmt.Errorf("softblit/x11: allocating shm seg id: %w", err)
		}
		if err := shm.AttachChecked(s.conn, xseg, uint32(seg.id), false).Check(); err != nil {
			_ = seg.detach()
			return fmt.Errorf("%w: server shm attach: %v", softblit.ErrResourceExhausted, err)
		}
		s.seg = seg
		s.xseg = xseg
	}

	s.width = width
	s.height = height
	s.stride = stride
	return nil
}

// releaseStorage drops the current presentation storage on both sides.
func (s *Surface) releaseStorage() error {
	if s.seg == nil {
		return nil
	}
	// Server side first so the kernel can reap the RMID-marked segment as
	// soon as our own detach follows.
	shm.Detach(s.conn, s.xseg)
	err := s.seg.detach()
	s.seg = nil
	return err
}

// Name returns the backend name.
func (s *Surface) Name() string { return Name }

// Format returns FormatBGRA, the little-endian ZPixmap byte order.
func (s *Surface) Format() softblit.PixelFormat { return softblit.FormatBGRA }

// Size returns the current surface dimensions.
func (s *Surface) Size() (width, height int) { return s.width, s.height }

// Resize reallocates presentation storage for the new dimensions.
// A failure invalidates the surface: the old segment is already gone, so
// there is nothing left to present from.
func (s *Surface) Resize(width, height int) error {
	if !s.valid {
		return softblit.ErrSurfaceInvalid
	}
	if width == s.width && height == s.height {
		return nil
	}
	if err := s.releaseStorage(); err != nil {
		s.valid = false
		return fmt.Errorf("softblit/x11: releasing old segment: %w", err)
	}
	if err := s.allocate(width, height); err != nil {
		s.valid = false
		return err
	}
	return nil
}

// Blit sends the frame to the window.
func (s *Surface) Blit(buf *softblit.Buffer) error {
	if !s.valid {
		return softblit.ErrSurfaceInvalid
	}
	s.checkBuffer(buf)

	if s.useSHM {
		// Full copy before the request so the server reads a settled
		// frame; Check round-trips, so the segment is reusable (and the
		// frame is on the server) by the time Blit returns.
		copy(s.seg.data, buf.Pix())
		err := shm.PutImageChecked(s.conn,
			xproto.Drawable(s.window), s.gc,
			uint16(s.stride/softblit.BytesPerPixel), uint16(s.height),
			0, 0, uint16(s.width), uint16(s.height),
			0, 0,
			s.depth, xproto.ImageFormatZPixmap,
			0, s.xseg, 0).Check()
		if err != nil {
			return fmt.Errorf("softblit/x11: shm put: %w", err)
		}
		return nil
	}
	return s.blitCore(buf)
}

// blitCore pushes the frame through core-protocol PutImage requests,
// chunked by rows to stay under the request size limit.
func (s *Surface) blitCore(buf *softblit.Buffer) error {
	rowBytes := s.width * softblit.BytesPerPixel
	rows := putChunk / rowBytes
	if rows < 1 {
		rows = 1
	}

	packed := s.stride != rowBytes
	var stage []byte
	if packed {
		stage = make([]byte, rows*rowBytes)
	}

	for y := 0; y < s.height; y += rows {
		n := rows
		if y+n > s.height {
			n = s.height - y
		}
		var data []byte
		if packed {
			// Strip the stride padding: core PutImage rows are exactly
			// width*4 bytes at depth 24/32.
			for i := 0; i < n; i++ {
				copy(stage[i*rowBytes:(i+1)*rowBytes], buf.Row(y+i))
			}
			data = stage[:n*rowBytes]
		} else {
			data = buf.Pix()[y*s.stride : (y+n)*s.stride]
		}
		err := xproto.PutImageChecked(s.conn,
			xproto.ImageFormatZPixmap,
			xproto.Drawable(s.window), s.gc,
			uint16(s.width), uint16(n),
			0, int16(y),
			0, s.depth, data).Check()
		if err != nil {
			return fmt.Errorf("softblit/x11: put rows %d..%d: %w", y, y+n, err)
		}
	}
	return nil
}

// checkBuffer enforces the blit preconditions. A mismatch means the
// presenter protocol was bypassed, so it panics instead of erroring.
func (s *Surface) checkBuffer(buf *softblit.Buffer) {
	if buf.Width() != s.width || buf.Height() != s.height {
		panic(fmt.Sprintf("softblit/x11: blit of %dx%d buffer onto %dx%d surface",
			buf.Width(), buf.Height(), s.width, s.height))
	}
	if buf.Format() != softblit.FormatBGRA {
		panic(fmt.Sprintf("softblit/x11: blit of %s buffer, surface needs bgra", buf.Format()))
	}
	if buf.Stride() != s.stride {
		panic(fmt.Sprintf("softblit/x11: blit with stride %d, surface expects %d",
			buf.Stride(), s.stride))
	}
}

// Invalidate marks the surface dead without touching the connection. Used
// when the window is going away and X resources die with it.
func (s *Surface) Invalidate() { s.valid = false }

// Release detaches the shared memory segment and closes the connection.
// Idempotent.
func (s *Surface) Release() error {
	s.valid = false
	if s.conn == nil {
		return nil
	}
	err := s.releaseStorage()
	xproto.FreeGC(s.conn, s.gc)
	s.conn.Close()
	s.conn = nil
	if err != nil {
		return fmt.Errorf("softblit/x11: %w", err)
	}
	return nil
}

// teardown is the attach-failure path: free whatever was set up, ignoring
// secondary errors because the attach error is the one that matters.
func (s *Surface) teardown() {
	_ = s.releaseStorage()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.valid = false
}
