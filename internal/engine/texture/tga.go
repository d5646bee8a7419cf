// Package texture decodes texture images, deduplicates texture uploads and
// names texture roles for shaders.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed      = 2  // Uncompressed true-color
	TGATypeGray              = 3  // Uncompressed grayscale
	TGATypeRLE               = 10 // RLE compressed true-color
	TGATypeRLEGray           = 11 // RLE compressed grayscale
	tgaHeaderSize            = 18
	tgaDescriptorTopToBottom = 0x20
)

var errTGATruncated = errors.New("TGA data truncated")

// DecodeTGA decodes a TGA image.
// Supports uncompressed and RLE true-color (24/32 bpp) and grayscale (8 bpp).
// Grayscale files decode to *image.Gray, 24 bpp to an opaque *image.NRGBA,
// 32 bpp to *image.NRGBA with the stored alpha.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&tgaDescriptorTopToBottom != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	gray := imageType == TGATypeGray || imageType == TGATypeRLEGray
	switch imageType {
	case TGATypeUncompressed, TGATypeRLE:
		if bpp != 24 && bpp != 32 {
			return nil, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", bpp)
		}
	case TGATypeGray, TGATypeRLEGray:
		if bpp != 8 {
			return nil, fmt.Errorf("unsupported grayscale TGA bit depth %d", bpp)
		}
	default:
		return nil, fmt.Errorf("unsupported TGA type %d", imageType)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("empty TGA image %dx%d", width, height)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}
	pixelData := data[offset:]
	bytesPerPixel := bpp / 8

	var set func(x, y int, px []byte)
	var img image.Image
	if gray {
		g := image.NewGray(image.Rect(0, 0, width, height))
		set = func(x, y int, px []byte) { g.SetGray(x, y, color.Gray{Y: px[0]}) }
		img = g
	} else {
		n := image.NewNRGBA(image.Rect(0, 0, width, height))
		set = func(x, y int, px []byte) {
			a := uint8(255)
			if len(px) == 4 {
				a = px[3]
			}
			// Stored as BGR(A).
			n.SetNRGBA(x, y, color.NRGBA{R: px[2], G: px[1], B: px[0], A: a})
		}
		img = n
	}

	// put writes the i-th pixel in file order, honouring the origin bit.
	put := func(i int, px []byte) {
		x := i % width
		y := i / width
		if !topToBottom {
			y = height - 1 - y
		}
		set(x, y, px)
	}

	pixelCount := width * height
	if imageType == TGATypeUncompressed || imageType == TGATypeGray {
		if len(pixelData) < pixelCount*bytesPerPixel {
			return nil, errTGATruncated
		}
		for i := 0; i < pixelCount; i++ {
			put(i, pixelData[i*bytesPerPixel:(i+1)*bytesPerPixel])
		}
		return img, nil
	}

	if err := decodeTGARLE(pixelData, pixelCount, bytesPerPixel, put); err != nil {
		return nil, err
	}
	return img, nil
}

// decodeTGARLE expands RLE packets, calling put for each pixel in file order.
func decodeTGARLE(pixelData []byte, pixelCount, bytesPerPixel int, put func(i int, px []byte)) error {
	pixelIdx := 0
	dataIdx := 0

	for pixelIdx < pixelCount {
		if dataIdx >= len(pixelData) {
			return errTGATruncated
		}
		packet := pixelData[dataIdx]
		dataIdx++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run-length packet: one pixel repeated.
			if dataIdx+bytesPerPixel > len(pixelData) {
				return errTGATruncated
			}
			px := pixelData[dataIdx : dataIdx+bytesPerPixel]
			dataIdx += bytesPerPixel
			for i := 0; i < count && pixelIdx < pixelCount; i++ {
				put(pixelIdx, px)
				pixelIdx++
			}
			continue
		}

		// Raw packet.
		for i := 0; i < count && pixelIdx < pixelCount; i++ {
			if dataIdx+bytesPerPixel > len(pixelData) {
				return errTGATruncated
			}
			put(pixelIdx, pixelData[dataIdx:dataIdx+bytesPerPixel])
			dataIdx += bytesPerPixel
			pixelIdx++
		}
	}

	return nil
}
