package printshop

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/phanxgames/printshop/placement"
)

// shot is a queued screenshot.
type shot struct {
	label     string
	container bool // crop to the design container
}

// Screenshot queues a capture of the whole window, taken at the end of the
// current frame's Draw. Files land in ScreenshotDir as
// <time>_<seq>_<label>.png.
func (c *Canvas) Screenshot(label string) {
	c.shots = append(c.shots, shot{label: label})
}

// ScreenshotContainer queues a capture of the design container only: the
// mockup with its guide and overlay, without toolbar or status text.
func (c *Canvas) ScreenshotContainer(label string) {
	c.shots = append(c.shots, shot{label: label, container: true})
}

// flushScreenshots reads the frame back once and writes every queued shot.
func (c *Canvas) flushScreenshots(screen *ebiten.Image) {
	if len(c.shots) == 0 {
		return
	}
	shots := c.shots
	c.shots = c.shots[:0]

	if err := os.MkdirAll(c.ScreenshotDir, 0o755); err != nil {
		c.log.Warn("screenshot: failed to create directory", zap.String("dir", c.ScreenshotDir), zap.Error(err))
		return
	}

	b := screen.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pixels)
	frame := unpremultiply(pixels, b.Dx(), b.Dy())

	stamp := time.Now().Format("20060102_150405")
	for _, s := range shots {
		c.shotSeq++
		var img image.Image = frame
		if s.container {
			img = frame.SubImage(rectToImage(c.ContainerRect()))
		}
		name := fmt.Sprintf("%s_%03d_%s.png", stamp, c.shotSeq, sanitizeLabel(s.label))
		path := filepath.Join(c.ScreenshotDir, name)
		if err := writePNG(path, img); err != nil {
			c.log.Warn("screenshot: write failed", zap.Error(err))
			continue
		}
		c.log.Info("screenshot saved",
			zap.String("path", path),
			zap.Bool("container", s.container))
	}
}

// rectToImage converts a screen rect to whole pixels, rounding outwards.
func rectToImage(r placement.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.Width)), int(math.Ceil(r.Y+r.Height)),
	)
}

// unpremultiply turns ReadPixels output (premultiplied RGBA) into NRGBA.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, pixels)
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := int(img.Pix[i+3])
		if a == 0 || a == 255 {
			continue
		}
		for j := i; j < i+3; j++ {
			img.Pix[j] = uint8(min(int(img.Pix[j])*255/a, 255))
		}
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '.' and replaces everything
// else with '_'. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
