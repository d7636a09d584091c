package unhalo

import "errors"

// Errors returned by unhalo. Returned errors wrap one of these with context;
// test for them with errors.Is.
var (
	// ErrUsage is returned for invalid arguments, such as a missing input
	// path or an unparsable threshold.
	ErrUsage = errors.New("unhalo: invalid usage")

	// ErrNotFound is returned when the input file does not exist.
	// Errors wrapping it also match fs.ErrNotExist.
	ErrNotFound = errors.New("unhalo: input not found")

	// ErrDecode is returned when the input cannot be decoded as an image.
	ErrDecode = errors.New("unhalo: cannot decode image")

	// ErrIO is returned when reading the input or writing the output fails.
	ErrIO = errors.New("unhalo: i/o error")
)
