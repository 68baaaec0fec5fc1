package render

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/johnfercher/maroto/v2"
	mimage "github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

const (
	// mmPerPixel converts CSS pixels (96 dpi) to millimetres.
	mmPerPixel = 25.4 / 96
	pdfMargin  = 10.0
	// maroto keeps a bottom margin we cannot set, leave room for it.
	pdfBottomSlack = 20.0
)

// EncodePNG writes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("render: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJPEG writes img as JPEG at the given quality (1-100).
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("render: encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodePDF places img on a single page sized to the unscaled receipt, so a
// scale 3 raster prints at its on-screen size with three times the detail.
func EncodePDF(img image.Image, scale, quality int) ([]byte, error) {
	if scale < 1 {
		scale = 1
	}
	jpg, err := EncodeJPEG(img, quality)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	widthMM := float64(b.Dx()/scale) * mmPerPixel
	heightMM := float64(b.Dy()/scale) * mmPerPixel

	cfg := config.NewBuilder().
		WithDimensions(widthMM+2*pdfMargin, heightMM+2*pdfMargin+pdfBottomSlack).
		WithLeftMargin(pdfMargin).
		WithTopMargin(pdfMargin).
		WithRightMargin(pdfMargin).
		Build()

	m := maroto.New(cfg)
	m.AddRow(heightMM,
		mimage.NewFromBytesCol(12, jpg, extension.Jpg, props.Rect{
			Center:  true,
			Percent: 100,
		}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render: generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}
