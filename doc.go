// Package unhalo removes the near-white halo left around icon edges.
//
// # Overview
//
// Icons exported on a white background often keep a fringe of white or
// almost-white pixels along their edges. unhalo scans every pixel of an
// image and replaces the white-ish ones with fully transparent black,
// leaving every other pixel byte-identical.
//
// # Quick Start
//
//	import "github.com/gogpu/unhalo"
//
//	// Write the cleaned icon next to the original
//	stats, err := unhalo.ProcessFile("icon.png", unhalo.ToPath("icon_fixed.png"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(stats.Total(), "pixels made transparent")
//
//	// Replace the original in place
//	_, err = unhalo.ProcessFile("icon.png", unhalo.Overwrite(), unhalo.WithThreshold(250))
//
// # Rules
//
// With threshold T (default 240), a pixel (r, g, b, a) is made transparent
// when the first of these holds:
//   - hard white: r, g and b are each at least T
//   - average white: (r+g+b)/3 is at least T
//   - translucent bright: a < 255 and (r+g+b)/3 is at least 0.85*T
//
// Averages are computed in float64 without truncation. See [Classify].
//
// # Formats
//
// Input may be any format registered with the standard image package
// (PNG, GIF, JPEG, BMP, TIFF, WebP) in any colour mode; it is converted to
// 8-bit non-premultiplied RGBA before filtering. Output is always PNG.
package unhalo
