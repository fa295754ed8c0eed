// Package ebderr defines the error kinds shared by the core packages.
//
// The original C++ tool used an exception taxonomy; per the redesign notes
// this collapses to five wrapped sentinel kinds that callers can match with
// errors.Is.
package ebderr

import "github.com/pkg/errors"

// Sentinel kinds. Wrap a concrete error with one of these via Wrap/Wrapf so
// that errors.Is(err, ebderr.Config) (etc.) keeps working through the chain.
var (
	Config           = errors.New("config")
	InputFormat      = errors.New("input format")
	DataConsistency  = errors.New("data consistency")
	Numeric          = errors.New("numeric")
	IO               = errors.New("io")
)

type wrapped struct {
	kind error
	err  error
}

func (w *wrapped) Error() string { return w.err.Error() }
func (w *wrapped) Unwrap() error { return w.kind }
func (w *wrapped) Cause() error  { return w.err }

// Wrap annotates err with kind and a message, preserving errors.Is(_, kind).
func Wrap(kind error, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrapped{kind: kind, err: errors.Wrap(err, msg)}
}

// Wrapf is Wrap with a format string.
func Wrapf(kind error, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrapped{kind: kind, err: errors.Wrapf(err, format, args...)}
}

// New builds a fresh error of the given kind.
func New(kind error, msg string) error {
	return &wrapped{kind: kind, err: errors.New(msg)}
}

// Newf builds a fresh error of the given kind with a format string.
func Newf(kind error, format string, args ...interface{}) error {
	return &wrapped{kind: kind, err: errors.Errorf(format, args...)}
}
