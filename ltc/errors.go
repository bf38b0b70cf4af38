package ltc

import (
	"github.com/pkg/errors"
)

// Kind classifies the fatal conditions of a decode run.
type Kind int

const (
	NoError Kind = iota
	InputError
	FormatError
	CalibrationError
	SyncError
	ResourceError
)

func (k Kind) String() string {
	switch k {
	case NoError:
		return "ok"
	case InputError:
		return "input error"
	case FormatError:
		return "format error"
	case CalibrationError:
		return "calibration error"
	case SyncError:
		return "sync error"
	case ResourceError:
		return "resource error"
	default:
		return "unknown error"
	}
}

// Code returns the result code that is reported for the kind.
func (k Kind) Code() int {
	switch k {
	case NoError:
		return 200
	case InputError, FormatError:
		return 404
	case SyncError:
		return 408
	case CalibrationError:
		return 415
	default:
		return 500
	}
}

// Error is a classified, terminal decode error.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError classifies err as kind. A nil err stays nil.
func NewError(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

func errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: errors.Errorf(format, args...)}
}

// KindOf returns the kind of err. Unclassified errors are ResourceErrors.
func KindOf(err error) Kind {
	if err == nil {
		return NoError
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ResourceError
}

// Code returns the result code for err, 200 if err is nil.
func Code(err error) int {
	return KindOf(err).Code()
}
