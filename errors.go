package solid2d

import "github.com/pkg/errors"

// Usage errors report a broken Begin/Draw/End call sequence or a missing
// argument. They signal a programming mistake; retrying the same call will
// fail the same way.
var (
	ErrBeginCalled    = errors.New("solid2d: Begin cannot be called again until End has been called")
	ErrBeginNotCalled = errors.New("solid2d: Begin must be called before Draw or End")
	ErrNilTexture     = errors.New("solid2d: texture is nil")
	ErrNilBox         = errors.New("solid2d: box is nil")
)

// ErrNilDevice is returned by NewBatch2D when no device is given.
var ErrNilDevice = errors.New("solid2d: device is nil")

// ErrInvalidAnchor is returned by Box.Resize and Box.ScaleSize for anchor
// values outside the defined set. The returned error names the value.
var ErrInvalidAnchor = errors.New("solid2d: undefined anchor")

// IsUsageError reports whether err is one of the batch usage errors.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrBeginCalled) ||
		errors.Is(err, ErrBeginNotCalled) ||
		errors.Is(err, ErrNilTexture) ||
		errors.Is(err, ErrNilBox)
}
