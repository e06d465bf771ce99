// Package ocr holds image preparation shared by OCR engines.
package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

var sharpenKernel = [9]float64{
	0, -1, 0,
	-1, 5, -1,
	0, -1, 0,
}

// Preprocess prepares a page for text recognition: the image is halved,
// converted to grayscale, sharpened and binarized with an Otsu threshold.
func Preprocess(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx()/2, b.Dy()/2
	var out *image.NRGBA
	if w > 0 && h > 0 {
		out = imaging.Resize(img, w, h, imaging.Linear)
	} else {
		out = imaging.Clone(img)
	}

	out = imaging.Grayscale(out)
	out = imaging.Convolve3x3(out, sharpenKernel, nil)

	threshold := OtsuThreshold(out)
	return imaging.AdjustFunc(out, func(c color.NRGBA) color.NRGBA {
		if c.R > threshold {
			return color.NRGBA{R: 255, G: 255, B: 255, A: c.A}
		}
		return color.NRGBA{A: c.A}
	})
}

// OtsuThreshold picks the gray level that maximizes between-class variance
// of a grayscale image. Only the red channel is read.
func OtsuThreshold(img *image.NRGBA) uint8 {
	var hist [256]int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			hist[row[x*4]]++
		}
	}

	total := b.Dx() * b.Dy()
	if total == 0 {
		return 127
	}

	var sum float64
	for i, n := range hist {
		sum += float64(i * n)
	}

	var (
		sumBg    float64
		weightBg int
		best     float64
		level    uint8
	)
	for i, n := range hist {
		weightBg += n
		if weightBg == 0 {
			continue
		}
		weightFg := total - weightBg
		if weightFg == 0 {
			break
		}
		sumBg += float64(i * n)
		meanBg := sumBg / float64(weightBg)
		meanFg := (sum - sumBg) / float64(weightFg)
		between := float64(weightBg) * float64(weightFg) * (meanBg - meanFg) * (meanBg - meanFg)
		if between > best {
			best = between
			level = uint8(i)
		}
	}
	return level
}

// EncodePNG serializes img for engines that accept raw image bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
