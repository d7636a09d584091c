package image

import (
	"bytes"
	"errors"
	"fmt"
	stdimage "image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	// Decoders accepted as input; output is always PNG.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// I/O errors.
var (
	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")
)

// DefaultCompression is the PNG compression level used by EncodePNG.
// Compression is lossless at every level; this only trades time for size.
const DefaultCompression = png.BestCompression

// DecodeBytes decodes an image from a byte slice, auto-detecting the format,
// and converts it to RGBA8. It also returns the detected format name.
func DecodeBytes(data []byte) (*ImageBuf, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from the given reader, auto-detecting the format,
// and converts it to RGBA8. It also returns the detected format name.
func Decode(r io.Reader) (*ImageBuf, string, error) {
	img, format, err := stdimage.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("image: decode: %w", err)
	}
	buf, err := FromStdImage(img)
	if err != nil {
		return nil, format, fmt.Errorf("image: decode %s: %w", format, err)
	}
	return buf, format, nil
}

// FromStdImage converts any standard library image to an RGBA8 buffer.
// The source image is never modified.
func FromStdImage(img stdimage.Image) (*ImageBuf, error) {
	bounds := img.Bounds()
	buf, err := NewImageBuf(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	// Fast path: already non-premultiplied RGBA8.
	if nrgba, ok := img.(*stdimage.NRGBA); ok {
		for y := range buf.height {
			start := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(buf.RowBytes(y), nrgba.Pix[start:start+buf.width*BytesPerPixel])
		}
		return buf, nil
	}

	// 16-bit non-premultiplied: keep the high byte of each big-endian channel.
	if nrgba64, ok := img.(*stdimage.NRGBA64); ok {
		for y := range buf.height {
			src := nrgba64.Pix[nrgba64.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			row := buf.RowBytes(y)
			for i := range row {
				row[i] = src[i*2]
			}
		}
		return buf, nil
	}

	// Opaque sources carry no premultiplication, so a Src draw is exact.
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		dst := &stdimage.NRGBA{
			Pix:    buf.data,
			Stride: buf.stride,
			Rect:   stdimage.Rect(0, 0, buf.width, buf.height),
		}
		draw.Draw(dst, dst.Rect, img, bounds.Min, draw.Src)
		return buf, nil
	}

	// Generic path: convert each pixel through the NRGBA model so that
	// translucent palette entries keep their exact channel values.
	for y := range buf.height {
		row := buf.RowBytes(y)
		for x := range buf.width {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			i := x * BytesPerPixel
			row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return buf, nil
}

// EncodePNG encodes the image as PNG to the given writer.
func (b *ImageBuf) EncodePNG(w io.Writer) error {
	enc := png.Encoder{CompressionLevel: DefaultCompression}
	if err := enc.Encode(w, b.ToNRGBA()); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// SavePNG saves the image as a PNG file.
//
// The image is written to a temporary file in the destination directory and
// renamed over path once fully flushed, so path is either left untouched or
// replaced by a complete file. A symlinked path is resolved first and its
// target is replaced. An existing file keeps its permission bits; a new file
// is created with 0666 filtered by the umask.
func (b *ImageBuf) SavePNG(path string) (err error) {
	path = filepath.Clean(path)
	if resolved, evalErr := filepath.EvalSymlinks(path); evalErr == nil {
		path = resolved
	}

	perm, existing := os.FileMode(0o666), false
	if fi, statErr := os.Stat(path); statErr == nil {
		perm, existing = fi.Mode().Perm(), true
	}

	f, err := createTemp(filepath.Dir(path), filepath.Base(path), perm)
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if err = b.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	if existing {
		// The umask applied at creation may have narrowed the original mode.
		if err = f.Chmod(perm); err != nil {
			_ = f.Close()
			return fmt.Errorf("image: chmod file: %w", err)
		}
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("image: sync file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("image: close file: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("image: rename file: %w", err)
	}
	return nil
}

// createTemp creates a new hidden file next to base in dir. Unlike
// os.CreateTemp it takes the mode, so the umask applies as for os.Create.
func createTemp(dir, base string, perm os.FileMode) (*os.File, error) {
	for range 100 {
		name := filepath.Join(dir, "."+base+"."+strconv.FormatUint(rand.Uint64(), 36)+".tmp")
		f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, perm)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return f, err
	}
	return nil, fmt.Errorf("image: no unused temporary name in %s", dir)
}
