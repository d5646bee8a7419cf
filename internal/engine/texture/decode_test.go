package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeChannels(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(1, 0, color.Gray{Y: 200})

	rgb := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			rgb.SetRGBA(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}

	rgba := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	rgba.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 128})

	tests := []struct {
		name     string
		img      image.Image
		channels int
	}{
		{"gray", gray, 1},
		{"opaque rgb", rgb, 3},
		{"translucent rgba", rgba, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px, err := Decode("tex.png", encodePNG(t, tt.img))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if px.Channels != tt.channels {
				t.Errorf("channels: got %d, want %d", px.Channels, tt.channels)
			}
			if px.Width != 2 || px.Height != 2 {
				t.Errorf("size: got %dx%d, want 2x2", px.Width, px.Height)
			}
			if len(px.Data) != 2*2*tt.channels {
				t.Errorf("data length: got %d, want %d", len(px.Data), 2*2*tt.channels)
			}
		})
	}
}

func TestDecodeKeepsPixelValues(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.SetGray(1, 0, color.Gray{Y: 200})

	px, err := Decode("mask.png", encodePNG(t, gray))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if px.Data[0] != 0 || px.Data[1] != 200 {
		t.Errorf("gray pixels: got %v, want [0 200]", px.Data)
	}

	rgba := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	rgba.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	px, err = Decode("a.png", encodePNG(t, rgba))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(px.Data, []byte{1, 2, 3, 4}) {
		t.Errorf("rgba pixels: got %v, want [1 2 3 4]", px.Data)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode("broken.png", []byte("definitely not an image")); err == nil {
		t.Error("expected error decoding garbage")
	}
	if _, err := Decode("broken.tga", []byte{1, 2, 3}); err == nil {
		t.Error("expected error decoding short TGA")
	}
}

func TestFlipVertical(t *testing.T) {
	px := &Pixels{
		Width:    1,
		Height:   3,
		Channels: 1,
		Data:     []byte{1, 2, 3},
	}
	px.FlipVertical()
	if !bytes.Equal(px.Data, []byte{3, 2, 1}) {
		t.Errorf("got %v, want [3 2 1]", px.Data)
	}
}

// tgaHeader builds an 18-byte TGA header.
func tgaHeader(imageType byte, w, h int, bpp byte, topToBottom bool) []byte {
	hdr := make([]byte, tgaHeaderSize)
	hdr[2] = imageType
	hdr[12] = byte(w)
	hdr[13] = byte(w >> 8)
	hdr[14] = byte(h)
	hdr[15] = byte(h >> 8)
	hdr[16] = bpp
	if topToBottom {
		hdr[17] = tgaDescriptorTopToBottom
	}
	return hdr
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// 2x1, 24 bpp, BGR order, top-to-bottom.
	data := append(tgaHeader(TGATypeUncompressed, 2, 1, 24, true),
		0, 0, 255, // red
		255, 0, 0, // blue
	)

	px, err := Decode("wall.TGA", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if px.Channels != 3 {
		t.Fatalf("channels: got %d, want 3", px.Channels)
	}
	want := []byte{255, 0, 0, 0, 0, 255}
	if !bytes.Equal(px.Data, want) {
		t.Errorf("pixels: got %v, want %v", px.Data, want)
	}
}

func TestDecodeTGABottomUp(t *testing.T) {
	// 1x2 grayscale stored bottom row first.
	data := append(tgaHeader(TGATypeGray, 1, 2, 8, false), 10, 20)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	g, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("expected *image.Gray, got %T", img)
	}
	if g.GrayAt(0, 0).Y != 20 || g.GrayAt(0, 1).Y != 10 {
		t.Errorf("rows not flipped: top=%d bottom=%d", g.GrayAt(0, 0).Y, g.GrayAt(0, 1).Y)
	}
}

func TestDecodeTGARLE(t *testing.T) {
	// 3x1, 32 bpp: a run of 2 green pixels then 1 raw translucent pixel.
	data := append(tgaHeader(TGATypeRLE, 3, 1, 32, true),
		0x81, 0, 255, 0, 255, // run packet, count 2
		0x00, 0, 0, 255, 64, // raw packet, count 1
	)

	px, err := Decode("leaf.tga", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if px.Channels != 4 {
		t.Fatalf("channels: got %d, want 4", px.Channels)
	}
	want := []byte{
		0, 255, 0, 255,
		0, 255, 0, 255,
		255, 0, 0, 64,
	}
	if !bytes.Equal(px.Data, want) {
		t.Errorf("pixels: got %v, want %v", px.Data, want)
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"color mapped", func() []byte { h := tgaHeader(TGATypeUncompressed, 1, 1, 24, true); h[1] = 1; return h }()},
		{"bad type", tgaHeader(1, 1, 1, 8, true)},
		{"bad depth", tgaHeader(TGATypeUncompressed, 1, 1, 16, true)},
		{"truncated pixels", tgaHeader(TGATypeUncompressed, 4, 4, 24, true)},
		{"truncated rle", append(tgaHeader(TGATypeRLE, 4, 1, 24, true), 0x83)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); err == nil {
				t.Error("expected error")
			}
		})
	}
}
