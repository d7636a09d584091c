package unhalo

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/gogpu/unhalo/internal/image"
)

// Destination selects where ProcessFile writes its result.
// Use Overwrite or ToPath; the zero value is not valid.
type Destination struct {
	path      string
	overwrite bool
}

// Overwrite writes the result back to the input path, replacing the original.
func Overwrite() Destination {
	return Destination{overwrite: true}
}

// ToPath writes the result to path. path may equal the input path.
func ToPath(path string) Destination {
	return Destination{path: path}
}

// resolve returns the output path for the given input path.
func (d Destination) resolve(input string) (string, error) {
	if d.overwrite {
		return input, nil
	}
	if d.path == "" {
		return "", fmt.Errorf("%w: empty output path", ErrUsage)
	}
	return d.path, nil
}

// ProcessFile reads the image at input, makes its near-white halo pixels
// transparent and writes the result as PNG to dst.
//
// Nothing is written unless the image was decoded and filtered successfully,
// and the output file is replaced atomically. Errors wrap ErrUsage,
// ErrNotFound, ErrDecode or ErrIO.
func ProcessFile(input string, dst Destination, opts ...Option) (Stats, error) {
	if input == "" {
		return Stats{}, fmt.Errorf("%w: missing input path", ErrUsage)
	}
	output, err := dst.resolve(input)
	if err != nil {
		return Stats{}, err
	}

	f := NewFilter(opts...)

	data, err := os.ReadFile(input) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Stats{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return Stats{}, fmt.Errorf("%w: read input: %w", ErrIO, err)
	}

	buf, err := f.decode(data)
	if err != nil {
		return Stats{}, err
	}

	stats := f.Apply(buf)

	if err := buf.SavePNG(output); err != nil {
		return Stats{}, fmt.Errorf("%w: write output: %w", ErrIO, err)
	}

	f.log().Info("unhalo: output written",
		slog.String("input", input),
		slog.String("output", output),
		slog.Int("transparent", stats.Total()))

	return stats, nil
}

// Process reads an image from r, makes its near-white halo pixels
// transparent and writes the result as PNG to w.
//
// Nothing is written to w unless decoding succeeded. Errors wrap ErrDecode
// or ErrIO.
func Process(r io.Reader, w io.Writer, opts ...Option) (Stats, error) {
	f := NewFilter(opts...)

	data, err := io.ReadAll(r)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: read input: %w", ErrIO, err)
	}

	buf, err := f.decode(data)
	if err != nil {
		return Stats{}, err
	}

	stats := f.Apply(buf)

	if err := buf.EncodePNG(w); err != nil {
		return Stats{}, fmt.Errorf("%w: write output: %w", ErrIO, err)
	}
	return stats, nil
}

// decode converts encoded image bytes into an exclusively owned RGBA8 buffer.
func (f *Filter) decode(data []byte) (*image.ImageBuf, error) {
	buf, format, err := image.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	f.log().Debug("unhalo: image decoded",
		slog.String("format", format),
		slog.Int("width", buf.Width()),
		slog.Int("height", buf.Height()))
	return buf, nil
}
