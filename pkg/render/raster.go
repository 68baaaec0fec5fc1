package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	padding     = 16
	lineSpacing = 4
	logoGap     = 12
)

// MaxLogoDimension bounds the width and height of a logo in pixels.
const MaxLogoDimension = 4096

// ErrLogoTooLarge is returned by CheckLogo for images wider or taller than
// MaxLogoDimension.
var ErrLogoTooLarge = errors.New("render: logo dimensions too large")

// CheckLogo reads only the image header and rejects images that cannot be
// decoded or exceed MaxLogoDimension on either side.
func CheckLogo(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if cfg.Width < 1 || cfg.Height < 1 || cfg.Width > MaxLogoDimension || cfg.Height > MaxLogoDimension {
		return fmt.Errorf("%w: %dx%d", ErrLogoTooLarge, cfg.Width, cfg.Height)
	}
	return nil
}

// DefaultBackground is the paper colour of exported receipts.
const DefaultBackground = "#fffcf5"

// Raster draws receipts onto an image using a fixed-width bitmap font.
type Raster struct {
	background color.NRGBA
	ink        color.Color
	face       font.Face
	cellWidth  int
	lineHeight int
	ascent     int
}

// NewRaster creates a renderer with the given background colour in #rrggbb
// form. An empty string selects DefaultBackground.
func NewRaster(background string) (*Raster, error) {
	if background == "" {
		background = DefaultBackground
	}
	bg, err := ParseHexColor(background)
	if err != nil {
		return nil, err
	}
	face := basicfont.Face7x13
	return &Raster{
		background: bg,
		ink:        color.Black,
		face:       face,
		cellWidth:  face.Advance,
		lineHeight: face.Height + lineSpacing,
		ascent:     face.Ascent,
	}, nil
}

// Render draws the view and enlarges the result by scale (values below 1 are
// treated as 1). Logos that cannot be decoded are left out.
func (r *Raster) Render(v View, scale int) (image.Image, error) {
	if scale < 1 {
		scale = 1
	}
	t := v.template()
	lines := Layout(v)

	width := t.Width*r.cellWidth + 2*padding
	logo := r.logo(v, width-2*padding)

	height := 2*padding + len(lines)*r.lineHeight
	if logo != nil {
		height += logo.Bounds().Dy() + logoGap
	}

	canvas := imaging.New(width, height, r.background)
	y := padding
	if logo != nil {
		x := (width - logo.Bounds().Dx()) / 2
		canvas = imaging.Overlay(canvas, logo, image.Pt(x, y), 1.0)
		y += logo.Bounds().Dy() + logoGap
	}

	for _, l := range lines {
		if l.Large && r.fitsLarge(l.Text, width) {
			canvas = r.drawLarge(canvas, l, width, y)
		} else {
			r.drawLine(canvas, l, t.Width, y)
		}
		y += r.lineHeight
	}

	if scale == 1 {
		return canvas, nil
	}
	return imaging.Resize(canvas, width*scale, height*scale, imaging.NearestNeighbor), nil
}

func (r *Raster) drawLine(dst *image.NRGBA, l Line, cols, y int) {
	text := place(l, cols)
	r.drawText(dst, text, padding, y)
	if l.Bold {
		r.drawText(dst, text, padding+1, y)
	}
}

func (r *Raster) drawText(dst *image.NRGBA, text string, x, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(r.ink),
		Face: r.face,
		Dot:  fixed.P(x, y+r.ascent),
	}
	d.DrawString(text)
}

func (r *Raster) fitsLarge(text string, width int) bool {
	return 2*utf8.RuneCountInString(text)*r.cellWidth <= width-2*padding
}

// drawLarge renders the line at double width, keeping the regular line
// height.
func (r *Raster) drawLarge(dst *image.NRGBA, l Line, width, y int) *image.NRGBA {
	textWidth := utf8.RuneCountInString(l.Text) * r.cellWidth
	strip := imaging.New(textWidth+1, r.lineHeight, r.background)
	r.drawText(strip, l.Text, 0, 0)
	if l.Bold {
		r.drawText(strip, l.Text, 1, 0)
	}
	big := imaging.Resize(strip, strip.Bounds().Dx()*2, r.lineHeight, imaging.NearestNeighbor)

	x := padding
	switch l.Align {
	case AlignCenter:
		x = (width - big.Bounds().Dx()) / 2
	case AlignRight:
		x = width - padding - big.Bounds().Dx()
	}
	return imaging.Paste(dst, big, image.Pt(x, y))
}

func (r *Raster) logo(v View, maxWidth int) *image.NRGBA {
	if len(v.Logo) == 0 || CheckLogo(v.Logo) != nil {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(v.Logo))
	if err != nil {
		return nil
	}
	w := v.LogoWidth
	if w <= 0 || w > maxWidth {
		w = maxWidth
	}
	return imaging.Resize(img, w, 0, imaging.Lanczos)
}

// ParseHexColor parses "#rrggbb" or "rrggbb".
func ParseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("render: invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("render: invalid colour %q", s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
