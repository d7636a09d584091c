package image

import (
	"bytes"
	"errors"
	stdimage "image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func encodeStd(t *testing.T, img stdimage.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestFromStdImage_NRGBA(t *testing.T) {
	nrgba := stdimage.NewNRGBA(stdimage.Rect(0, 0, 10, 10))
	nrgba.SetNRGBA(3, 3, color.NRGBA{R: 128, G: 64, B: 32, A: 200})

	buf, err := FromStdImage(nrgba)
	if err != nil {
		t.Fatalf("FromStdImage() error = %v", err)
	}
	r, g, b, a := buf.GetRGBA(3, 3)
	if r != 128 || g != 64 || b != 32 || a != 200 {
		t.Errorf("Pixel = (%d, %d, %d, %d), want (128, 64, 32, 200)", r, g, b, a)
	}
}

func TestFromStdImage_SubImageOffset(t *testing.T) {
	nrgba := stdimage.NewNRGBA(stdimage.Rect(0, 0, 8, 8))
	nrgba.SetNRGBA(5, 6, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	sub := nrgba.SubImage(stdimage.Rect(4, 4, 8, 8))

	buf, err := FromStdImage(sub)
	if err != nil {
		t.Fatalf("FromStdImage() error = %v", err)
	}
	if buf.Width() != 4 || buf.Height() != 4 {
		t.Fatalf("Dimensions = (%d, %d), want (4, 4)", buf.Width(), buf.Height())
	}
	r, g, b, a := buf.GetRGBA(1, 2)
	if r != 1 || g != 2 || b != 3 || a != 4 {
		t.Errorf("Pixel = (%d, %d, %d, %d), want (1, 2, 3, 4)", r, g, b, a)
	}
}

func TestFromStdImage_Gray(t *testing.T) {
	gray := stdimage.NewGray(stdimage.Rect(0, 0, 10, 10))
	gray.SetGray(5, 5, color.Gray{Y: 128})

	buf, err := FromStdImage(gray)
	if err != nil {
		t.Fatalf("FromStdImage() error = %v", err)
	}
	r, g, b, a := buf.GetRGBA(5, 5)
	if r != 128 || g != 128 || b != 128 || a != 255 {
		t.Errorf("Pixel = (%d, %d, %d, %d), want (128, 128, 128, 255)", r, g, b, a)
	}
}

func TestFromStdImage_PalettedTranslucent(t *testing.T) {
	palette := color.Palette{
		color.NRGBA{R: 230, G: 230, B: 230, A: 100},
		color.NRGBA{R: 10, G: 20, B: 30, A: 255},
	}
	pal := stdimage.NewPaletted(stdimage.Rect(0, 0, 2, 1), palette)
	pal.SetColorIndex(0, 0, 0)
	pal.SetColorIndex(1, 0, 1)

	buf, err := FromStdImage(pal)
	if err != nil {
		t.Fatalf("FromStdImage() error = %v", err)
	}
	r, g, b, a := buf.GetRGBA(0, 0)
	if r != 230 || g != 230 || b != 230 || a != 100 {
		t.Errorf("Pixel(0,0) = (%d, %d, %d, %d), want (230, 230, 230, 100)", r, g, b, a)
	}
	r, g, b, a = buf.GetRGBA(1, 0)
	if r != 10 || g != 20 || b != 30 || a != 255 {
		t.Errorf("Pixel(1,0) = (%d, %d, %d, %d), want (10, 20, 30, 255)", r, g, b, a)
	}
}

func TestFromStdImage_NRGBA64(t *testing.T) {
	n64 := stdimage.NewNRGBA64(stdimage.Rect(0, 0, 2, 1))
	n64.SetNRGBA64(0, 0, color.NRGBA64{R: 0xCC00, G: 0xCC00, B: 0xCC00, A: 0x0101})
	n64.SetNRGBA64(1, 0, color.NRGBA64{R: 0xF0FF, G: 0x12AB, B: 0xFFFF, A: 0x80FF})

	buf, err := FromStdImage(n64)
	if err != nil {
		t.Fatalf("FromStdImage() error = %v", err)
	}
	r, g, b, a := buf.GetRGBA(0, 0)
	if r != 0xCC || g != 0xCC || b != 0xCC || a != 0x01 {
		t.Errorf("Pixel(0,0) = (%d, %d, %d, %d), want (204, 204, 204, 1)", r, g, b, a)
	}
	r, g, b, a = buf.GetRGBA(1, 0)
	if r != 0xF0 || g != 0x12 || b != 0xFF || a != 0x80 {
		t.Errorf("Pixel(1,0) = (%d, %d, %d, %d), want (240, 18, 255, 128)", r, g, b, a)
	}
}

func TestDecodeBytes_PNG16Translucent(t *testing.T) {
	n64 := stdimage.NewNRGBA64(stdimage.Rect(0, 0, 1, 1))
	n64.SetNRGBA64(0, 0, color.NRGBA64{R: 0xCC00, G: 0xCC00, B: 0xCC00, A: 0x0101})

	buf, _, err := DecodeBytes(encodeStd(t, n64))
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	if r, g, b, a := buf.GetRGBA(0, 0); r != 204 || g != 204 || b != 204 || a != 1 {
		t.Errorf("Pixel = (%d, %d, %d, %d), want (204, 204, 204, 1)", r, g, b, a)
	}
}

func TestDecodeBytes_ExtraFormats(t *testing.T) {
	src := stdimage.NewRGBA(stdimage.Rect(0, 0, 3, 2))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	src.SetRGBA(1, 1, color.RGBA{R: 12, G: 34, B: 56, A: 255})

	tests := []struct {
		format string
		encode func(*bytes.Buffer) error
	}{
		{"bmp", func(w *bytes.Buffer) error { return bmp.Encode(w, src) }},
		{"tiff", func(w *bytes.Buffer) error { return tiff.Encode(w, src, nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var data bytes.Buffer
			if err := tt.encode(&data); err != nil {
				t.Fatalf("encode error = %v", err)
			}
			buf, format, err := DecodeBytes(data.Bytes())
			if err != nil {
				t.Fatalf("DecodeBytes() error = %v", err)
			}
			if format != tt.format {
				t.Errorf("format = %q, want %q", format, tt.format)
			}
			if buf.Width() != 3 || buf.Height() != 2 {
				t.Fatalf("Dimensions = (%d, %d), want (3, 2)", buf.Width(), buf.Height())
			}
			if r, g, b, a := buf.GetRGBA(1, 1); r != 12 || g != 34 || b != 56 || a != 255 {
				t.Errorf("Pixel(1,1) = (%d, %d, %d, %d), want (12, 34, 56, 255)", r, g, b, a)
			}
			if r, g, b, a := buf.GetRGBA(0, 0); r != 255 || g != 255 || b != 255 || a != 255 {
				t.Errorf("Pixel(0,0) = (%d, %d, %d, %d), want white", r, g, b, a)
			}
		})
	}
}

func TestFromStdImage_OpaqueRGBA(t *testing.T) {
	rgba := stdimage.NewRGBA(stdimage.Rect(0, 0, 3, 3))
	for i := 3; i < len(rgba.Pix); i += 4 {
		rgba.Pix[i] = 255
	}
	rgba.SetRGBA(2, 2, color.RGBA{R: 250, G: 7, B: 99, A: 255})

	buf, err := FromStdImage(rgba)
	if err != nil {
		t.Fatalf("FromStdImage() error = %v", err)
	}
	r, g, b, a := buf.GetRGBA(2, 2)
	if r != 250 || g != 7 || b != 99 || a != 255 {
		t.Errorf("Pixel = (%d, %d, %d, %d), want (250, 7, 99, 255)", r, g, b, a)
	}
}

func TestDecodeBytes(t *testing.T) {
	src := stdimage.NewNRGBA(stdimage.Rect(0, 0, 2, 2))
	src.SetNRGBA(1, 1, color.NRGBA{R: 250, G: 250, B: 250, A: 255})

	buf, format, err := DecodeBytes(encodeStd(t, src))
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want %q", format, "png")
	}
	if r, _, _, a := buf.GetRGBA(1, 1); r != 250 || a != 255 {
		t.Errorf("Pixel(1,1) r=%d a=%d, want r=250 a=255", r, a)
	}
}

func TestDecodeBytes_Errors(t *testing.T) {
	if _, _, err := DecodeBytes(nil); !errors.Is(err, ErrEmptyData) {
		t.Errorf("DecodeBytes(nil) error = %v, want ErrEmptyData", err)
	}
	if _, _, err := DecodeBytes([]byte("definitely not an image")); err == nil {
		t.Error("DecodeBytes(garbage) error = nil, want error")
	}
}

func TestEncodePNG_Lossless(t *testing.T) {
	buf, _ := NewImageBuf(16, 16)
	for y := range 16 {
		for x := range 16 {
			_ = buf.SetRGBA(x, y, uint8(x*16), uint8(y*16), uint8(x+y), uint8(255-x*y))
		}
	}

	var data bytes.Buffer
	if err := buf.EncodePNG(&data); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	got, _, err := DecodeBytes(data.Bytes())
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	if !buf.Equal(got) {
		t.Error("PNG round trip altered pixel values")
	}
}

func TestSavePNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	buf, _ := NewImageBuf(2, 2)
	copy(buf.Data(), []byte{9, 8, 7, 6, 9, 8, 7, 6, 9, 8, 7, 6, 9, 8, 7, 6})
	if err := buf.SavePNG(path); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	got, _, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	if !buf.Equal(got) {
		t.Error("saved image differs from buffer")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temp file left behind?)", len(entries))
	}
}

func TestSavePNG_MissingDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "out.png")

	buf, _ := NewImageBuf(1, 1)
	if err := buf.SavePNG(path); err == nil {
		t.Fatal("SavePNG() into missing directory error = nil, want error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Stat(%s) error = %v, want not-exist", path, err)
	}
}

func TestSavePNG_WritesThroughSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.png")
	link := filepath.Join(dir, "link.png")
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	buf, _ := NewImageBuf(1, 1)
	_ = buf.SetRGBA(0, 0, 1, 2, 3, 4)
	if err := buf.SavePNG(link); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}

	fi, err := os.Lstat(link)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode()&os.ModeSymlink == 0 {
		t.Error("symlink replaced by a regular file")
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	got, _, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("target not rewritten: %v", err)
	}
	if !buf.Equal(got) {
		t.Error("target differs from saved buffer")
	}
}
