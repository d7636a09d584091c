// Package image provides the in-memory pixel buffer used by unhalo.
//
// An ImageBuf always holds non-premultiplied RGBA8 pixels, whatever the
// colour mode of the decoded source was, so that filters can read and
// rewrite channel values exactly.
package image

import (
	"errors"
	stdimage "image"
)

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrOutOfBounds is returned when pixel coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

// BytesPerPixel is the size of one RGBA8 pixel.
const BytesPerPixel = 4

// ImageBuf is an exclusively owned RGBA8 pixel buffer.
//
// Pixels are stored row-major in a contiguous byte slice, four bytes per
// pixel in R, G, B, A order, without alpha premultiplication.
//
// Thread safety: ImageBuf performs no locking. It is meant to be owned by a
// single caller for the duration of one filter pass.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
}

// NewImageBuf creates a zeroed (transparent black) buffer.
func NewImageBuf(width, height int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	stride := width * BytesPerPixel
	return &ImageBuf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
	}, nil
}

// Clone creates a deep copy of the image buffer.
func (b *ImageBuf) Clone() *ImageBuf {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return &ImageBuf{
		data:   data,
		width:  b.width,
		height: b.height,
		stride: b.stride,
	}
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int {
	return b.height
}

// Data returns the raw pixel data slice.
// Modifying this data modifies the image.
func (b *ImageBuf) Data() []byte {
	return b.data
}

// RowBytes returns a slice of the pixel data for row y.
// Returns nil if y is out of bounds.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.width*BytesPerPixel]
}

// pixelOffset returns the byte offset of pixel (x, y) in the data slice,
// or -1 if coordinates are out of bounds.
func (b *ImageBuf) pixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*BytesPerPixel
}

// GetRGBA returns the channels at (x, y).
// Returns (0,0,0,0) if coordinates are out of bounds.
func (b *ImageBuf) GetRGBA(x, y int) (r, g, bl, a uint8) {
	off := b.pixelOffset(x, y)
	if off < 0 {
		return 0, 0, 0, 0
	}
	p := b.data[off : off+BytesPerPixel : off+BytesPerPixel]
	return p[0], p[1], p[2], p[3]
}

// SetRGBA sets the channels at (x, y).
// Returns ErrOutOfBounds if coordinates are outside image bounds.
func (b *ImageBuf) SetRGBA(x, y int, r, g, bl, a uint8) error {
	off := b.pixelOffset(x, y)
	if off < 0 {
		return ErrOutOfBounds
	}
	p := b.data[off : off+BytesPerPixel : off+BytesPerPixel]
	p[0], p[1], p[2], p[3] = r, g, bl, a
	return nil
}

// Equal reports whether two buffers have the same dimensions and pixels.
func (b *ImageBuf) Equal(other *ImageBuf) bool {
	if other == nil || b.width != other.width || b.height != other.height {
		return false
	}
	for y := range b.height {
		if string(b.RowBytes(y)) != string(other.RowBytes(y)) {
			return false
		}
	}
	return true
}

// ToNRGBA copies the buffer into a new *image.NRGBA anchored at (0, 0).
func (b *ImageBuf) ToNRGBA() *stdimage.NRGBA {
	nrgba := stdimage.NewNRGBA(stdimage.Rect(0, 0, b.width, b.height))
	if nrgba.Stride == b.stride {
		copy(nrgba.Pix, b.data)
		return nrgba
	}
	for y := range b.height {
		copy(nrgba.Pix[y*nrgba.Stride:], b.RowBytes(y))
	}
	return nrgba
}
