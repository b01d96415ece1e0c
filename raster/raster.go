// raster draws a scene into an image, for encoders that need pixels rather than svg.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"

	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/models"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const (
	// Height in pixels of the caption band above the plot area.
	captionHeight = 24
	// Pixels of padding around the plot area.
	padding = 8
	// Cubic bezier control distance for approximating a quarter circle.
	kappa = 0.5522847498
)

var (
	background = color.RGBA{255, 255, 255, 255}
	axesColor  = color.RGBA{64, 64, 64, 255}
	textColor  = color.RGBA{0, 0, 0, 255}
)

// Canvas maps world coordinates of a scene's bounds to pixels.
type Canvas struct {
	Width, Height int
	bounds        models.Bounds
	plot          image.Rectangle
}

// NewCanvas sizes a canvas @width pixels wide whose plot area keeps the aspect ratio of @bounds.
func NewCanvas(bounds models.Bounds, width int) *Canvas {
	plotWidth := width - 2*padding
	plotHeight := int(math.Round(float64(plotWidth) * bounds.Height() / bounds.Width()))
	// Encoders prefer even dimensions.
	height := captionHeight + plotHeight + 2*padding
	height += height % 2

	return &Canvas{
		Width:  width,
		Height: height,
		bounds: bounds,
		plot:   image.Rect(padding, captionHeight+padding, padding+plotWidth, captionHeight+padding+plotHeight),
	}
}

// scale returns pixels per world unit along x.
func (cv *Canvas) scale() float64 {
	return float64(cv.plot.Dx()) / cv.bounds.Width()
}

// toPixel maps a world point into the plot area; world y grows upward, pixel y downward.
func (cv *Canvas) toPixel(p models.Point) (float32, float32) {
	x := float64(cv.plot.Min.X) + (p.X-cv.bounds.XMin)/cv.bounds.Width()*float64(cv.plot.Dx())
	y := float64(cv.plot.Min.Y) + (cv.bounds.YMax-p.Y)/cv.bounds.Height()*float64(cv.plot.Dy())
	return float32(x), float32(y)
}

// Draw renders @frame: caption, axes box, then the shapes in scene order.
func (cv *Canvas) Draw(frame models.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cv.Width, cv.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	caption := frame.Scene.Title
	if frame.Total > 0 {
		caption = fmt.Sprintf("%s  [%d/%d]", caption, frame.Index+1, frame.Total)
	}
	drawLabel(img, padding, captionHeight-7, caption)
	cv.drawBox(img)

	z := vector.NewRasterizer(cv.Width, cv.Height)
	for _, shape := range frame.Scene.Shapes() {
		z.Reset(cv.Width, cv.Height)
		switch shape.Kind {
		case models.CircleShape:
			cx, cy := cv.toPixel(shape.From)
			circle(z, cx, cy, float32(shape.Radius*cv.scale()))
		case models.MarkerShape:
			cx, cy := cv.toPixel(shape.From)
			circle(z, cx, cy, float32(shape.Size/2))
		case models.SegmentShape:
			x0, y0 := cv.toPixel(shape.From)
			x1, y1 := cv.toPixel(shape.To)
			if !segment(z, x0, y0, x1, y1, float32(shape.Width)) {
				continue
			}
		}
		z.Draw(img, img.Bounds(), image.NewUniform(ParseColor(shape.Color)), image.Point{})
	}
	return img
}

// drawBox outlines the plot area, one pixel wide.
func (cv *Canvas) drawBox(img *image.RGBA) {
	r := cv.plot
	edges := []image.Rectangle{
		image.Rect(r.Min.X-1, r.Min.Y-1, r.Max.X+1, r.Min.Y),
		image.Rect(r.Min.X-1, r.Max.Y, r.Max.X+1, r.Max.Y+1),
		image.Rect(r.Min.X-1, r.Min.Y, r.Min.X, r.Max.Y),
		image.Rect(r.Max.X, r.Min.Y, r.Max.X+1, r.Max.Y),
	}
	for _, edge := range edges {
		draw.Draw(img, edge, &image.Uniform{axesColor}, image.Point{}, draw.Src)
	}
}

func circle(z *vector.Rasterizer, cx, cy, r float32) {
	k := r * kappa
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
}

// segment adds a stroked line as a quad; it reports false for a zero length line.
func segment(z *vector.Rasterizer, x0, y0, x1, y1, width float32) bool {
	dx, dy := x1-x0, y1-y0
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return false
	}
	// Half-width normal.
	nx, ny := -dy/length*width/2, dx/length*width/2
	z.MoveTo(x0+nx, y0+ny)
	z.LineTo(x1+nx, y1+ny)
	z.LineTo(x1-nx, y1-ny)
	z.LineTo(x0-nx, y0-ny)
	z.ClosePath()
	return true
}

func drawLabel(img *image.RGBA, x, y int, label string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(label)
}

var named = map[string]color.RGBA{
	"black": {0, 0, 0, 255},
	"white": {255, 255, 255, 255},
	"red":   {255, 0, 0, 255},
	"green": {0, 128, 0, 255},
	"blue":  {0, 0, 255, 255},
}

// ParseColor understands the css names used by the layouts and #rrggbb. Anything else is black.
func ParseColor(s string) color.RGBA {
	if c, ok := named[strings.ToLower(s)]; ok {
		return c
	}
	if len(s) == 7 && s[0] == '#' {
		if v, err := strconv.ParseUint(s[1:], 16, 32); err == nil {
			return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
		}
	}
	return named["black"]
}
