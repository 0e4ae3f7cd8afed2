package bootstrap

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a bootstrap failure by where it came from. Every kind
// except KindRuntimePanic is rendered through the same failure report.
type Kind int

const (
	KindUnknown Kind = iota
	KindAssetLoad
	KindRenderingStart
	KindChannelCall
	KindRuntimePanic
)

func (k Kind) String() string {
	switch k {
	case KindAssetLoad:
		return "asset load"
	case KindRenderingStart:
		return "rendering start"
	case KindChannelCall:
		return "channel call"
	case KindRuntimePanic:
		return "runtime panic"
	default:
		return "unknown"
	}
}

// ErrMissingFrame is returned when GetFftData succeeds but carries no frame.
var ErrMissingFrame = errors.New("response carries no fft frame")

// Error is a failure raised by one step of the bootstrap sequence.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Cause lets errors.Cause see through an *Error.
func (e *Error) Cause() error { return e.Err }

func wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
