package printshop

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/ftrvxmtrx/tga"
	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/webp"

	"github.com/phanxgames/printshop/placement"
)

// DefaultImageEdge is the longest side, in pixels, of an uploaded image
// placed at scale 1.
const DefaultImageEdge = 150

// LoadImage decodes a PNG, JPEG, WebP or TGA file into NRGBA.
func LoadImage(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("image: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("image: decode %s: %w", path, err)
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA with its origin at (0, 0).
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// ImageCache resolves overlay image references to decoded images. A
// reference is a file path, relative references are resolved against the
// cache's directory. Failed loads are remembered so a missing upload is
// reported once.
type ImageCache struct {
	mu     sync.RWMutex
	dir    string
	items  map[string]*cacheEntry
	upload func(image.Image) *ebiten.Image
}

type cacheEntry struct {
	img *image.NRGBA
	gpu *ebiten.Image
	err error
}

// NewImageCache returns an empty cache rooted at dir.
func NewImageCache(dir string) *ImageCache {
	return &ImageCache{
		dir:    dir,
		items:  make(map[string]*cacheEntry),
		upload: ebiten.NewImageFromImage,
	}
}

// Put registers an already decoded image under ref.
func (c *ImageCache) Put(ref string, img image.Image) {
	c.mu.Lock()
	c.items[ref] = &cacheEntry{img: toNRGBA(img)}
	c.mu.Unlock()
}

// Resolve loads and caches the image for ref.
func (c *ImageCache) Resolve(ref string) (*image.NRGBA, error) {
	if ref == "" {
		return nil, nil
	}
	e := c.entry(ref)
	return e.img, e.err
}

func (c *ImageCache) entry(ref string) *cacheEntry {
	// Fast path: read lock
	c.mu.RLock()
	if e, ok := c.items[ref]; ok {
		c.mu.RUnlock()
		return e
	}
	c.mu.RUnlock()

	path := ref
	if !filepath.IsAbs(path) && c.dir != "" {
		path = filepath.Join(c.dir, path)
	}
	img, err := LoadImage(path)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[ref]; ok {
		return e
	}
	e := &cacheEntry{img: img, err: err}
	c.items[ref] = e
	return e
}

// ebitenImage returns the GPU copy of ref, uploading it once on first use.
func (c *ImageCache) ebitenImage(ref string) *ebiten.Image {
	if ref == "" {
		return nil
	}
	e := c.entry(ref)
	if e.img == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e.gpu == nil {
		e.gpu = c.upload(e.img)
	}
	return e.gpu
}

// fitSize scales an image's bounds so the longest side is edge pixels.
func fitSize(b image.Rectangle, edge float64) placement.Size {
	w, h := float64(b.Dx()), float64(b.Dy())
	if w <= 0 || h <= 0 {
		return placement.Size{}
	}
	k := edge / max(w, h)
	return placement.Size{Width: w * k, Height: h * k}
}

// Measurer computes overlay sizes from real content: the loaded image
// fitted to ImageEdge and the text laid out in Font. It satisfies
// customize.MeasureFunc through its Measure method.
type Measurer struct {
	Font      *Font
	Images    *ImageCache
	ImageEdge float64
}

// Measure returns the untransformed overlay size. When both an image and
// text are present the overlay is the union of the two, centred.
func (m *Measurer) Measure(o placement.Overlay) placement.Size {
	var s placement.Size
	if o.ImageRef != "" {
		edge := m.ImageEdge
		if edge <= 0 {
			edge = DefaultImageEdge
		}
		s = placement.Size{Width: edge, Height: edge}
		if m.Images != nil {
			if img, err := m.Images.Resolve(o.ImageRef); err == nil && img != nil {
				s = fitSize(img.Bounds(), edge)
			}
		}
	}
	if o.Text != "" && m.Font != nil {
		w, h := m.Font.MeasureString(o.Text)
		s.Width = max(s.Width, w)
		s.Height = max(s.Height, h)
	}
	return s
}

// placeholder is drawn in place of an image that failed to load.
var placeholder = color.NRGBA{R: 200, G: 60, B: 200, A: 255}
