// Package signature captures freehand signature input on a fixed-size
// raster surface and persists it as a small embedded JPEG, upserted per
// job.
package signature

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
)

const (
	// Surface geometry and stroke parameters.
	surfaceWidth  = 600
	surfaceHeight = 400
	strokeWidth   = 3

	// Pixels with every channel at or above this value count as white
	// when scanning for ink.
	nearWhiteThreshold = 245

	// Saved artifact geometry and JPEG quality.
	thumbWidth  = 200
	thumbHeight = 100
	jpegQuality = 60
)

// Pad is a fixed-size drawing surface. Input arrives in display
// coordinates and is translated into surface coordinates via the scale
// factor, so input resolution is independent of display scaling.
// Consecutive sampled points are connected with straight segments; round
// caps and joins come from disc stamping. No smoothing is applied.
type Pad struct {
	img *image.RGBA

	scaleX, scaleY float64

	drawing      bool
	lastX, lastY float64
}

// NewPad returns a blank white pad at 1:1 display scale.
func NewPad() *Pad {
	p := &Pad{scaleX: 1, scaleY: 1}
	p.img = image.NewRGBA(image.Rect(0, 0, surfaceWidth, surfaceHeight))
	p.Clear()
	return p
}

// SetDisplaySize establishes the displayed size of the surface; subsequent
// stroke coordinates are scaled from that size onto the surface.
func (p *Pad) SetDisplaySize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	p.scaleX = surfaceWidth / width
	p.scaleY = surfaceHeight / height
}

// Clear repaints the surface white and aborts any in-progress stroke.
func (p *Pad) Clear() {
	draw.Draw(p.img, p.img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	p.drawing = false
}

// StrokeStart begins a stroke at a display coordinate.
func (p *Pad) StrokeStart(x, y float64) {
	p.lastX, p.lastY = x*p.scaleX, y*p.scaleY
	p.drawing = true
}

// StrokeMove extends the current stroke to a display coordinate with a
// straight segment. Ignored when no stroke is in progress.
func (p *Pad) StrokeMove(x, y float64) {
	if !p.drawing {
		return
	}
	sx, sy := x*p.scaleX, y*p.scaleY
	p.segment(p.lastX, p.lastY, sx, sy)
	p.lastX, p.lastY = sx, sy
}

// StrokeEnd finishes the current stroke.
func (p *Pad) StrokeEnd() {
	p.drawing = false
}

// segment stamps discs of the stroke radius along the line from (x0,y0)
// to (x1,y1), in surface coordinates.
func (p *Pad) segment(x0, y0, x1, y1 float64) {
	radius := float64(strokeWidth) / 2
	length := math.Hypot(x1-x0, y1-y0)
	steps := int(math.Ceil(length*2)) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p.stamp(x0+(x1-x0)*t, y0+(y1-y0)*t, radius)
	}
}

func (p *Pad) stamp(cx, cy, radius float64) {
	minX := int(math.Floor(cx - radius))
	maxX := int(math.Ceil(cx + radius))
	minY := int(math.Floor(cy - radius))
	maxY := int(math.Ceil(cy + radius))
	b := p.img.Bounds()
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
				continue
			}
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= radius*radius {
				p.img.SetRGBA(x, y, color.RGBA{A: 255})
			}
		}
	}
}

// HasInk scans the pixel buffer and reports whether anything was drawn: a
// pixel counts as ink when it is not fully transparent and any of its
// color channels falls below the near-white threshold.
func (p *Pad) HasInk() bool {
	b := p.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := p.img.RGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			if c.R < nearWhiteThreshold || c.G < nearWhiteThreshold || c.B < nearWhiteThreshold {
				return true
			}
		}
	}
	return false
}

// EncodeDataURL downsamples the surface onto the fixed thumbnail size and
// serializes it as a JPEG data URL at the fixed quality. The downscale is
// a plain resize, not content-aware.
func (p *Pad) EncodeDataURL() (string, error) {
	thumb := imaging.Resize(p.img, thumbWidth, thumbHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
