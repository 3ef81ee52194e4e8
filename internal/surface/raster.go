// Package surface implements the low-resolution logical surface that scene
// layers draw into before the ASCII sampler reads it back.
package surface

import (
	"fmt"
	"image"
	"math"
)

// Canvas is the drawing context handed to scene layers. Coordinates are in
// world pixels; the surface maps them onto its raster.
type Canvas interface {
	FillRect(x, y, w, h float64, c RGB, alpha float64)
}

// Raster is an opaque RGBA image with a world→raster scale transform.
type Raster struct {
	img            *image.RGBA
	scaleX, scaleY float64
}

func New(width, height int) (*Raster, error) {
	r := &Raster{scaleX: 1, scaleY: 1}
	if err := r.Resize(width, height); err != nil {
		return nil, err
	}
	return r, nil
}

// Resize reallocates the raster and clears it to black.
func (r *Raster) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: raster %dx%d", ErrSurfaceInit, width, height)
	}
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
	r.Clear(Black)
	return nil
}

func (r *Raster) Width() int  { return r.img.Rect.Dx() }
func (r *Raster) Height() int { return r.img.Rect.Dy() }

func (r *Raster) Clear(c RGB) {
	pix := r.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, 255
	}
}

// Fade composites black at the given alpha over the whole raster. Channels
// are truncated so dim pixels reach zero instead of sticking at 1-2.
func (r *Raster) Fade(alpha float64) {
	if alpha <= 0 {
		return
	}
	keep := 1 - math.Min(alpha, 1)
	pix := r.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = uint8(float64(pix[i]) * keep)
		pix[i+1] = uint8(float64(pix[i+1]) * keep)
		pix[i+2] = uint8(float64(pix[i+2]) * keep)
	}
}

// SetTransform sets the world→raster scale used by FillRect.
func (r *Raster) SetTransform(scaleX, scaleY float64) {
	r.scaleX, r.scaleY = scaleX, scaleY
}

func (r *Raster) ResetTransform() { r.scaleX, r.scaleY = 1, 1 }

// FillRect blends c over every pixel the rectangle touches, weighted by the
// covered fraction of the pixel.
func (r *Raster) FillRect(x, y, w, h float64, c RGB, alpha float64) {
	if alpha <= 0 || w <= 0 || h <= 0 {
		return
	}
	alpha = math.Min(alpha, 1)
	x0, y0 := x*r.scaleX, y*r.scaleY
	x1, y1 := (x+w)*r.scaleX, (y+h)*r.scaleY

	width, height := r.Width(), r.Height()
	px0 := max(0, int(math.Floor(x0)))
	py0 := max(0, int(math.Floor(y0)))
	px1 := min(width, int(math.Ceil(x1)))
	py1 := min(height, int(math.Ceil(y1)))
	if px0 >= px1 || py0 >= py1 {
		return
	}

	for py := py0; py < py1; py++ {
		cy := overlap(y0, y1, float64(py))
		if cy <= 0 {
			continue
		}
		row := py * r.img.Stride
		for px := px0; px < px1; px++ {
			a := alpha * cy * overlap(x0, x1, float64(px))
			if a <= 0 {
				continue
			}
			i := row + px*4
			r.img.Pix[i] = blend(r.img.Pix[i], c.R, a)
			r.img.Pix[i+1] = blend(r.img.Pix[i+1], c.G, a)
			r.img.Pix[i+2] = blend(r.img.Pix[i+2], c.B, a)
		}
	}
}

// ReadPixels copies the raster into dst (grown if needed) as packed RGBA
// rows and returns it.
func (r *Raster) ReadPixels(dst []uint8) []uint8 {
	n := len(r.img.Pix)
	if cap(dst) < n {
		dst = make([]uint8, n)
	}
	dst = dst[:n]
	copy(dst, r.img.Pix)
	return dst
}

// At returns the color of pixel (x, y).
func (r *Raster) At(x, y int) RGB {
	i := r.img.PixOffset(x, y)
	return RGB{r.img.Pix[i], r.img.Pix[i+1], r.img.Pix[i+2]}
}

// Image exposes the underlying raster for debugging dumps.
func (r *Raster) Image() image.Image { return r.img }

func overlap(a0, a1, p float64) float64 {
	return math.Min(a1, p+1) - math.Max(a0, p)
}

func blend(dst, src uint8, a float64) uint8 {
	v := float64(dst) + (float64(src)-float64(dst))*a
	return uint8(math.Round(v))
}
