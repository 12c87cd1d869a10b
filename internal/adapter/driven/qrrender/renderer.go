// Package qrrender draws styled QR code images.
package qrrender

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"

	"github.com/ericfisherdev/scanmaster/internal/domain/model"
	"github.com/ericfisherdev/scanmaster/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Renderer = (*Renderer)(nil)

const (
	finderSize  = 7
	jpegQuality = 92
	// logoPadding is the gap kept clear around the logo, in modules.
	logoPadding = 0.5
)

// Renderer draws QR codes with configurable module, corner and corner-dot
// shapes and an optional centered logo.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render implements driven.Renderer.
func (r *Renderer) Render(ctx context.Context, data string, style model.RenderStyle, format model.ImageFormat) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	style = style.Normalized()
	if err := style.Validate(); err != nil {
		return nil, err
	}

	fg, err := parseHexColor(style.Foreground)
	if err != nil {
		return nil, err
	}
	bg, err := parseHexColor(style.Background)
	if err != nil {
		return nil, err
	}

	code, err := qrcode.New(data, recoveryLevel(style.ErrorCorrection))
	if err != nil {
		if data != "" {
			return nil, fmt.Errorf("encode qr matrix: %w: %v", driven.ErrPayloadTooLong, err)
		}
		return nil, fmt.Errorf("encode qr matrix: %w", err)
	}
	code.DisableBorder = true
	bitmap := code.Bitmap()

	img := image.NewRGBA(image.Rect(0, 0, style.Size, style.Size))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	c := canvas{
		img:    img,
		fg:     fg,
		origin: float64(style.Margin),
		module: float64(style.Size-2*style.Margin) / float64(len(bitmap)),
	}
	if c.module <= 0 {
		return nil, fmt.Errorf("margin %d leaves no room for a %d pixel code", style.Margin, style.Size)
	}

	var logo image.Image
	var reserved image.Rectangle
	if len(style.Logo) > 0 {
		logo, _, err = image.Decode(bytes.NewReader(style.Logo))
		if err != nil {
			return nil, fmt.Errorf("decode logo: %w: %v", driven.ErrInvalidLogo, err)
		}
		reserved = c.logoRect(logo.Bounds(), style.LogoScale, len(bitmap))
	}

	n := len(bitmap)
	for y, row := range bitmap {
		for x, dark := range row {
			if !dark || inFinder(x, y, n) {
				continue
			}
			if !reserved.Empty() && c.moduleRect(x, y).Overlaps(reserved) {
				continue
			}
			c.drawModule(x, y, style.ModuleStyle)
		}
	}

	for _, corner := range [][2]int{{0, 0}, {n - finderSize, 0}, {0, n - finderSize}} {
		c.drawFinder(corner[0], corner[1], style.CornerStyle, style.CornerDotStyle)
	}

	if logo != nil {
		inner := reserved.Inset(int(c.module * logoPadding))
		draw.CatmullRom.Scale(img, inner, logo, logo.Bounds(), draw.Over, nil)
	}

	var buf bytes.Buffer
	switch format {
	case model.ImageFormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	case model.ImageFormatPNG, "":
		err = png.Encode(&buf, img)
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

func recoveryLevel(level model.ECLevel) qrcode.RecoveryLevel {
	switch level {
	case model.ECLevelLow:
		return qrcode.Low
	case model.ECLevelMedium:
		return qrcode.Medium
	case model.ECLevelQuartile:
		return qrcode.High
	default:
		return qrcode.Highest
	}
}

// inFinder reports whether module (x, y) belongs to one of the three finder
// patterns, which are drawn separately.
func inFinder(x, y, n int) bool {
	left := x < finderSize
	right := x >= n-finderSize
	top := y < finderSize
	bottom := y >= n-finderSize
	return (left && top) || (right && top) || (left && bottom)
}

func parseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// canvas maps module coordinates onto image pixels.
type canvas struct {
	img    *image.RGBA
	fg     color.RGBA
	origin float64
	module float64
}

func (c canvas) px(m float64) float64 {
	return c.origin + m*c.module
}

func (c canvas) moduleRect(x, y int) image.Rectangle {
	return image.Rect(
		int(math.Floor(c.px(float64(x)))), int(math.Floor(c.px(float64(y)))),
		int(math.Ceil(c.px(float64(x+1)))), int(math.Ceil(c.px(float64(y+1)))),
	)
}

// logoRect is the centered square area reserved for the logo, including its
// padding. The logo keeps its aspect ratio inside it.
func (c canvas) logoRect(src image.Rectangle, scale float64, n int) image.Rectangle {
	side := scale * float64(n) * c.module
	w, h := side, side
	if src.Dx() > src.Dy() {
		h = side * float64(src.Dy()) / float64(src.Dx())
	} else if src.Dy() > src.Dx() {
		w = side * float64(src.Dx()) / float64(src.Dy())
	}
	center := c.px(float64(n) / 2)
	return image.Rect(
		int(center-w/2), int(center-h/2),
		int(math.Ceil(center+w/2)), int(math.Ceil(center+h/2)),
	)
}

func (c canvas) drawModule(x, y int, style model.ModuleStyle) {
	x0, y0 := c.px(float64(x)), c.px(float64(y))
	x1, y1 := c.px(float64(x+1)), c.px(float64(y+1))
	switch style {
	case model.ModuleStyleDots:
		cx, cy, r := (x0+x1)/2, (y0+y1)/2, c.module*0.45
		c.fill(x0, y0, x1, y1, func(px, py float64) bool {
			return inCircle(px, py, cx, cy, r)
		})
	case model.ModuleStyleRounded:
		r := c.module * 0.35
		c.fill(x0, y0, x1, y1, func(px, py float64) bool {
			return inRoundedRect(px, py, x0, y0, x1, y1, r)
		})
	default:
		c.fill(x0, y0, x1, y1, func(float64, float64) bool { return true })
	}
}

// drawFinder draws the 7x7 ring and 3x3 center of a finder pattern whose top
// left module is (mx, my).
func (c canvas) drawFinder(mx, my int, corner model.CornerStyle, dot model.CornerDotStyle) {
	x0, y0 := c.px(float64(mx)), c.px(float64(my))
	x1, y1 := c.px(float64(mx+finderSize)), c.px(float64(my+finderSize))
	m := c.module

	outer, inner := finderShapes(corner, x0, y0, x1, y1, m)
	c.fill(x0, y0, x1, y1, func(px, py float64) bool {
		return outer(px, py) && !inner(px, py)
	})

	dx0, dy0 := x0+2*m, y0+2*m
	dx1, dy1 := x1-2*m, y1-2*m
	c.fill(dx0, dy0, dx1, dy1, func(px, py float64) bool {
		if dot == model.CornerDotStyleDot {
			return inCircle(px, py, (dx0+dx1)/2, (dy0+dy1)/2, 1.5*m)
		}
		return true
	})
}

func finderShapes(style model.CornerStyle, x0, y0, x1, y1, m float64) (outer, inner func(float64, float64) bool) {
	cx, cy := (x0+x1)/2, (y0+y1)/2
	switch style {
	case model.CornerStyleDot:
		outer = func(px, py float64) bool { return inCircle(px, py, cx, cy, 3.5*m) }
		inner = func(px, py float64) bool { return inCircle(px, py, cx, cy, 2.5*m) }
	case model.CornerStyleExtraRounded:
		outer = func(px, py float64) bool { return inRoundedRect(px, py, x0, y0, x1, y1, 2.5*m) }
		inner = func(px, py float64) bool { return inRoundedRect(px, py, x0+m, y0+m, x1-m, y1-m, 1.5*m) }
	default:
		outer = func(px, py float64) bool { return inRoundedRect(px, py, x0, y0, x1, y1, 0) }
		inner = func(px, py float64) bool { return inRoundedRect(px, py, x0+m, y0+m, x1-m, y1-m, 0) }
	}
	return outer, inner
}

// fill paints every pixel in the box whose center satisfies inside.
func (c canvas) fill(x0, y0, x1, y1 float64, inside func(px, py float64) bool) {
	b := c.img.Bounds()
	minX, minY := max(int(math.Floor(x0)), b.Min.X), max(int(math.Floor(y0)), b.Min.Y)
	maxX, maxY := min(int(math.Ceil(x1)), b.Max.X), min(int(math.Ceil(y1)), b.Max.Y)
	for py := minY; py < maxY; py++ {
		for px := minX; px < maxX; px++ {
			fx, fy := float64(px)+0.5, float64(py)+0.5
			if fx < x0 || fx > x1 || fy < y0 || fy > y1 {
				continue
			}
			if inside(fx, fy) {
				c.img.SetRGBA(px, py, c.fg)
			}
		}
	}
}

func inCircle(px, py, cx, cy, r float64) bool {
	dx, dy := px-cx, py-cy
	return dx*dx+dy*dy <= r*r
}

func inRoundedRect(px, py, x0, y0, x1, y1, r float64) bool {
	if px < x0 || px > x1 || py < y0 || py > y1 {
		return false
	}
	r = min(r, (x1-x0)/2, (y1-y0)/2)
	if r <= 0 {
		return true
	}
	cx := math.Max(x0+r, math.Min(px, x1-r))
	cy := math.Max(y0+r, math.Min(py, y1-r))
	return inCircle(px, py, cx, cy, r)
}
