package meshmodel

import "fmt"

// ErrorKind classifies the fatal and non-fatal conditions the mesh
// generator can encounter, per the error taxonomy of the design.
type ErrorKind int

const (
	// InvalidInput covers missing required parameters, ill-formed input
	// blocks, out-of-range node indices, and wrong polygon orientation.
	// Fatal; aborts before meshing.
	InvalidInput ErrorKind = iota

	// SizeFunctionSinkhole means rho evaluated below 1e-8 somewhere.
	// Fatal; aborts with the offending location.
	SizeFunctionSinkhole

	// GeometryDegenerate means a quadtree exceeded max depth, or a
	// validity test hit an unresolvable tie. Logged as a warning; the
	// offending candidate is rejected and meshing continues.
	GeometryDegenerate

	// FrontStalled means the advancing-front main loop exited with a
	// non-empty front. Fatal; the partial mesh is still emitted.
	FrontStalled

	// AreaMismatch means the accepted triangle area diverged from the
	// boundary-enclosed area by more than the 1e-5 relative tolerance.
	// Fatal.
	AreaMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case SizeFunctionSinkhole:
		return "SizeFunctionSinkhole"
	case GeometryDegenerate:
		return "GeometryDegenerate"
	case FrontStalled:
		return "FrontStalled"
	case AreaMismatch:
		return "AreaMismatch"
	default:
		return "UnknownError"
	}
}

// Error is the error type returned by every fatal condition in the mesh
// generator. It carries a Kind so callers (chiefly cmd/tmesh) can select
// a diagnostic and exit code without string-matching, while still
// composing with errors.Wrap/errors.Is/errors.As.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is supports errors.Is(err, &Error{Kind: SomeKind}) by comparing Kind
// alone, so call sites can test "is this an AreaMismatch" without caring
// about the message.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

// Errf builds an *Error with a formatted message.
func Errf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
