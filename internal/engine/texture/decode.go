package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Pixels is a decoded image in tightly packed 8-bit rows, top row first.
type Pixels struct {
	Width    int
	Height   int
	Channels int // 1, 3 or 4
	Data     []byte
}

// Decode decodes image bytes. The name is only used to pick the TGA decoder,
// which has no magic number; every other format is sniffed.
func Decode(name string, data []byte) (*Pixels, error) {
	var img image.Image
	var err error
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		img, err = DecodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}
	return FromImage(img)
}

// FromImage packs img into Pixels, keeping as many channels as the source
// format carries.
func FromImage(img image.Image) (*Pixels, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty image %dx%d", w, h)
	}

	ch := channels(img)
	px := &Pixels{Width: w, Height: h, Channels: ch, Data: make([]byte, w*h*ch)}

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w]
			copy(px.Data[y*w:], row)
		}
		return px, nil
	case *image.NRGBA:
		if ch == 4 {
			for y := 0; y < h; y++ {
				row := src.Pix[y*src.Stride : y*src.Stride+w*4]
				copy(px.Data[y*w*4:], row)
			}
			return px, nil
		}
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if ch == 1 {
				px.Data[i] = color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
				i++
				continue
			}
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			px.Data[i] = c.R
			px.Data[i+1] = c.G
			px.Data[i+2] = c.B
			if ch == 4 {
				px.Data[i+3] = c.A
			}
			i += ch
		}
	}
	return px, nil
}

// channels reports how many channels the decoded source really has.
func channels(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	case *image.YCbCr, *image.CMYK:
		return 3
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return 3
	}
	return 4
}

// FlipVertical reverses the row order in place.
func (p *Pixels) FlipVertical() {
	stride := p.Width * p.Channels
	tmp := make([]byte, stride)
	for top, bottom := 0, p.Height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := p.Data[top*stride : (top+1)*stride]
		b := p.Data[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}
