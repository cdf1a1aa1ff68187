package bundoerr

import "errors"

// Kind classifies why a build failed. Every failure is fatal;
// the kind only determines how it is reported.
type Kind int

const (
	// KindUnknown is an unclassified error.
	KindUnknown Kind = iota
	// KindMalformed is a malformed input, such as an unrecognized
	// targeting token in a directory name.
	KindMalformed
	// KindInconsistent is a cross-module inconsistency, such as two
	// modules disagreeing on the set of ABIs they target.
	KindInconsistent
	// KindConfigConflict is a contradiction between the bundle's
	// configuration and its contents.
	KindConfigConflict
	// KindInternal is a violated internal invariant. It indicates a
	// defect in bundo, not in the input.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed input"
	case KindInconsistent:
		return "cross-module inconsistency"
	case KindConfigConflict:
		return "configuration conflict"
	case KindInternal:
		return "internal error"
	}

	return "unknown error"
}

func New(err error, kind Kind) error {
	if err == nil {
		return nil
	}

	return &kindError{
		err:  err,
		kind: kind,
	}
}

type kindError struct {
	err  error
	kind Kind
}

func (e *kindError) Error() string {
	if e.err == nil {
		return ""
	}

	return e.kind.String() + ": " + e.err.Error()
}

func (e *kindError) Unwrap() error {
	return e.err
}

func KindOf(err error) Kind {
	kerr := &kindError{}
	if errors.As(err, &kerr) {
		return kerr.kind
	}

	return KindUnknown
}
