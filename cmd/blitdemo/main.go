// Command blitdemo animates a color plasma in a native window through the
// software presentation pipeline. It exists to exercise every layer at
// once: buffer writes, format conversion, resize handling and the
// platform blit of whichever backend the window ends up on.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/softblit"
	"github.com/gogpu/softblit/binding/glfwbind"

	_ "github.com/gogpu/softblit/backend/cocoa"
	_ "github.com/gogpu/softblit/backend/win32"
	_ "github.com/gogpu/softblit/backend/x11"
)

func main() {
	var (
		width   = flag.Int("width", 640, "window width")
		height  = flag.Int("height", 480, "window height")
		title   = flag.String("title", "softblit demo", "window title")
		backend = flag.String("backend", "", "force a backend (x11, win32, cocoa)")
		frames  = flag.Int("frames", 0, "exit after this many frames (0 = run until closed)")
		capture = flag.Int("capture", 0, "write every Nth frame to frame-NNNN.bmp (0 = off)")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	softblit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	d := &demo{
		start:        time.Now(),
		palette:      buildPalette(),
		captureEvery: *capture,
		maxFrames:    *frames,
	}

	var opts []softblit.Option
	if *backend != "" {
		opts = append(opts, softblit.WithBackend(*backend))
	}

	win, err := glfwbind.Open(glfwbind.Config{
		Title:     *title,
		Width:     *width,
		Height:    *height,
		Resizable: true,
	}, d.frame, opts...)
	if err != nil {
		log.Fatalf("Failed to open window: %v", err)
	}
	defer win.Close()

	d.win = win
	d.backend = win.Presenter().Backend()

	win.GLFW().SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	log.Printf("Presenting on %s (escape closes)", d.backend)
	if err := win.Run(); err != nil {
		log.Fatalf("Presentation failed: %v", err)
	}
}

type demo struct {
	win     *glfwbind.Window
	backend string

	img     *image.RGBA
	low     *image.RGBA
	palette [256][4]uint8

	start time.Time
	last  float64
	fps   float64
	count int

	captureEvery int
	maxFrames    int
}

// frame draws one plasma frame into the acquired buffer.
func (d *demo) frame(buf *softblit.Buffer) {
	w, h := buf.Size()
	if d.img == nil || d.img.Bounds().Dx() != w || d.img.Bounds().Dy() != h {
		d.img = image.NewRGBA(image.Rect(0, 0, w, h))
		// The field is computed at half resolution and scaled up; the
		// sines are smooth enough that nobody can tell, and it is a
		// quarter of the math.
		d.low = image.NewRGBA(image.Rect(0, 0, (w+1)/2, (h+1)/2))
	}

	t := time.Since(d.start).Seconds()
	d.plasma(t)
	draw.NearestNeighbor.Scale(d.img, d.img.Bounds(), d.low, d.low.Bounds(), draw.Src, nil)
	d.tick(t)
	d.hud(w, h)
	buf.WriteRGBA(d.img)

	d.count++
	if d.captureEvery > 0 && d.count%d.captureEvery == 0 {
		name := fmt.Sprintf("frame-%04d.bmp", d.count)
		if err := saveBMP(name, d.img); err != nil {
			log.Printf("Capture failed: %v", err)
		}
	}
	if d.maxFrames > 0 && d.count >= d.maxFrames {
		d.win.GLFW().SetShouldClose(true)
	}
}

// plasma renders the classic sum-of-sines effect through the palette.
func (d *demo) plasma(t float64) {
	b := d.low.Bounds()
	w, h := b.Dx(), b.Dy()
	cx, cy := float64(w)/2, float64(h)/2

	for y := 0; y < h; y++ {
		row := d.low.Pix[y*d.low.Stride : y*d.low.Stride+w*4]
		fy := float64(y)
		for x := 0; x < w; x++ {
			fx := float64(x)
			v := math.Sin(fx/16+t) +
				math.Sin(fy/12-t*0.7) +
				math.Sin((fx+fy)/21) +
				math.Sin(math.Hypot(fx-cx, fy-cy)/15)
			// v is in [-4, 4]; shift and scale to a palette index, then
			// let time rotate the palette.
			idx := int((v+4)*31.875+t*40) & 0xff
			c := d.palette[idx]
			o := x * 4
			row[o] = c[0]
			row[o+1] = c[1]
			row[o+2] = c[2]
			row[o+3] = c[3]
		}
	}
}

func (d *demo) tick(t float64) {
	dt := t - d.last
	d.last = t
	if dt <= 0 {
		return
	}
	inst := 1 / dt
	if d.fps == 0 {
		d.fps = inst
		return
	}
	d.fps += (inst - d.fps) * 0.1
}

// hud overlays backend, size and frame rate in the top-left corner.
func (d *demo) hud(w, h int) {
	label := fmt.Sprintf("%s  %dx%d  %5.1f fps", d.backend, w, h, d.fps)
	dr := &font.Drawer{
		Dst:  d.img,
		Src:  image.White,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(8, 16),
	}
	dr.DrawString(label)
}

// buildPalette sweeps hue once around the wheel at fixed saturation and
// value, which keeps the plasma bands readable instead of muddy.
func buildPalette() (p [256][4]uint8) {
	for i := range p {
		hue := float64(i) / 256 * 360
		r, g, b := colorful.Hsv(hue, 0.65, 0.95).RGB255()
		p[i] = [4]uint8{r, g, b, 0xff}
	}
	return p
}

func saveBMP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return bmp.Encode(f, img)
}
