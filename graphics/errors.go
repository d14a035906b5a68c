package graphics

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind names the acquisition step that failed.
type Kind int

const (
	KindUnknown Kind = iota
	PlatformInit
	InstanceCreation
	NoSuitableDevice
	DeviceCreation
	SurfaceCreation
)

func (k Kind) String() string {
	switch k {
	case PlatformInit:
		return "platform init"
	case InstanceCreation:
		return "instance creation"
	case NoSuitableDevice:
		return "no suitable device"
	case DeviceCreation:
		return "device creation"
	case SurfaceCreation:
		return "surface creation"
	default:
		return "unknown"
	}
}

// Error is returned by every acquisition step. Status is Success when the
// failure did not come from a driver call.
type Error struct {
	Kind   Kind
	Msg    string
	Status Result
	Err    error
}

// Sentinels for errors.Is. Any *Error of the same Kind matches.
var (
	ErrPlatformInit     = &Error{Kind: PlatformInit}
	ErrInstanceCreation = &Error{Kind: InstanceCreation}
	ErrNoSuitableDevice = &Error{Kind: NoSuitableDevice}
	ErrDeviceCreation   = &Error{Kind: DeviceCreation}
	ErrSurfaceCreation  = &Error{Kind: SurfaceCreation}
)

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Status != Success {
		msg = fmt.Sprintf("%s: %s (%d)", msg, e.Status, int32(e.Status))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// NewError builds an error of the given kind. Extra args format msg.
func NewError(kind Kind, msg string, args ...interface{}) *Error {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &Error{Kind: kind, Msg: msg}
}

func statusError(kind Kind, status Result, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Status: status}
}

// WrapError attaches kind and msg to err, keeping its stack.
func WrapError(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: errors.WithStack(err)}
}

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusOf reports the driver status carried by err, if any.
func StatusOf(err error) (Result, bool) {
	var e *Error
	if errors.As(err, &e) && e.Status != Success {
		return e.Status, true
	}
	return Success, false
}
