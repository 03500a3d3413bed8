package helpers

import (
	"github.com/ztrue/tracerr"
)

// Error is a value type wrapping one or more stack-traced errors. A zero
// Error (or NilError) means no failure; check with IsNil rather than
// comparing against nil.
//
// An Error may carry a sentinel tag so callers can classify the failure
// without string matching:
//
//	err := TagErrorf(ErrIllegalMove, "no move from %v to %v", from, to)
//	err.Is(ErrIllegalMove) // true
type Error struct {
	tags []error
	errs []tracerr.Error
}

var NilError = Error{}

func (e Error) IsNil() bool {
	return len(e.errs) == 0
}

func IsNil(err error) bool {
	if traceableErr, ok := err.(Error); ok {
		return traceableErr.IsNil()
	}
	if traceableErr, ok := err.(*Error); ok {
		return traceableErr.IsNil()
	}
	return err == nil
}

func (e Error) Error() string {
	result := ""
	for _, err := range e.errs {
		result += Indent(tracerr.Sprint(err), ".  ") + "\n"
	}
	return result
}

func (e Error) String() string {
	result := ""
	for _, err := range e.errs {
		result += tracerr.SprintSource(err, 3) + "\n"
	}
	return result
}

// Is reports whether this error was tagged with the given sentinel.
func (e Error) Is(target error) bool {
	for _, tag := range e.tags {
		if tag == target {
			return true
		}
	}
	return false
}

func Wrap(err error) Error {
	if err == nil {
		return NilError
	}
	return Error{errs: []tracerr.Error{tracerr.Wrap(err)}}
}

func WrapReturn[T any](x T, err error) (T, Error) {
	return x, Wrap(err)
}

func Errorf(format string, args ...interface{}) Error {
	return Error{errs: []tracerr.Error{tracerr.Errorf(format, args...)}}
}

// TagErrorf builds a traced error classified by a sentinel tag.
func TagErrorf(tag error, format string, args ...interface{}) Error {
	return Error{
		tags: []error{tag},
		errs: []tracerr.Error{tracerr.Errorf(format, args...)},
	}
}

func Join(others ...Error) Error {
	result := Error{}
	for _, o := range others {
		result.tags = append(result.tags, o.tags...)
		result.errs = append(result.errs, o.errs...)
	}
	if len(result.errs) == 0 {
		return NilError
	}
	return result
}

func (e Error) NumErrors() int {
	return len(e.errs)
}
