package unhalo

import (
	stdimage "image"
	"log/slog"

	"github.com/gogpu/unhalo/internal/image"
)

// Stats reports the outcome of one filter pass.
type Stats struct {
	// Width and Height are the dimensions of the processed image.
	Width, Height int

	// HardWhite, AverageWhite and TranslucentBright count the pixels
	// zeroed by each rule. A pixel is counted under the first rule it matches.
	HardWhite         int
	AverageWhite      int
	TranslucentBright int
}

// Total returns the number of pixels made transparent.
func (s Stats) Total() int {
	return s.HardWhite + s.AverageWhite + s.TranslucentBright
}

// Count returns the number of pixels matched by rule r.
func (s Stats) Count(r Rule) int {
	switch r {
	case RuleHardWhite:
		return s.HardWhite
	case RuleAverageWhite:
		return s.AverageWhite
	case RuleTranslucentBright:
		return s.TranslucentBright
	default:
		return 0
	}
}

func (s *Stats) add(r Rule) {
	switch r {
	case RuleHardWhite:
		s.HardWhite++
	case RuleAverageWhite:
		s.AverageWhite++
	case RuleTranslucentBright:
		s.TranslucentBright++
	}
}

// Filter turns near-white halo pixels fully transparent.
//
// A Filter is immutable after creation and may be shared; each Apply call
// works only on the buffer it is given.
type Filter struct {
	threshold int
	logger    *slog.Logger
}

// NewFilter creates a filter with the given options.
func NewFilter(opts ...Option) *Filter {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	t := o.threshold
	if o.clamp {
		t = min(max(t, 0), 255)
	}
	return &Filter{threshold: t, logger: o.logger}
}

// Threshold returns the effective threshold.
func (f *Filter) Threshold() int {
	return f.threshold
}

func (f *Filter) log() *slog.Logger {
	if f.logger != nil {
		return f.logger
	}
	return Logger()
}

// Apply zeroes, in place, every pixel of buf matched by Classify.
//
// A matched pixel becomes exactly (0, 0, 0, 0); every other pixel keeps its
// bytes. Zeroed pixels match no rule for any positive threshold, so applying
// the same filter to its own output changes nothing.
func (f *Filter) Apply(buf *image.ImageBuf) Stats {
	stats := Stats{Width: buf.Width(), Height: buf.Height()}
	t := f.threshold

	for y := range buf.Height() {
		row := buf.RowBytes(y)
		for i := 0; i < len(row); i += image.BytesPerPixel {
			p := row[i : i+image.BytesPerPixel : i+image.BytesPerPixel]
			rule := Classify(p[0], p[1], p[2], p[3], t)
			if rule == RuleNone {
				continue
			}
			p[0], p[1], p[2], p[3] = 0, 0, 0, 0
			stats.add(rule)
		}
	}

	f.log().Debug("unhalo: filter applied",
		slog.Int("threshold", t),
		slog.Int("width", stats.Width),
		slog.Int("height", stats.Height),
		slog.Int(RuleHardWhite.String(), stats.HardWhite),
		slog.Int(RuleAverageWhite.String(), stats.AverageWhite),
		slog.Int(RuleTranslucentBright.String(), stats.TranslucentBright))

	return stats
}

// ApplyImage filters a copy of img and returns it as non-premultiplied RGBA.
// The returned image has img's dimensions anchored at (0, 0); img itself is
// not modified.
func (f *Filter) ApplyImage(img stdimage.Image) (*stdimage.NRGBA, Stats, error) {
	buf, err := image.FromStdImage(img)
	if err != nil {
		return nil, Stats{}, err
	}
	stats := f.Apply(buf)
	return buf.ToNRGBA(), stats, nil
}
