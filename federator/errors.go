package federator

import (
	"errors"
	"fmt"
)

// Kind classifies failures by how the run controller reacts to them.
type Kind int

const (
	// KindQuery is a failed or invalid chain read, retried with the pass.
	KindQuery Kind = iota + 1
	// KindSubmission is a failed vote transaction, retried with the pass.
	KindSubmission
	// KindConfiguration is never retried.
	KindConfiguration
	// KindStorage is a failed checkpoint write, never retried.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindQuery:
		return "query error"
	case KindSubmission:
		return "submission error"
	case KindConfiguration:
		return "configuration error"
	case KindStorage:
		return "storage error"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Retryable reports whether a failure of this kind is retried at pass level.
func (k Kind) Retryable() bool {
	return k == KindQuery || k == KindSubmission
}

// Sentinels to match with errors.Is, only the kind is compared.
var (
	ErrQuery         = &Error{Kind: KindQuery}
	ErrSubmission    = &Error{Kind: KindSubmission}
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrStorage       = &Error{Kind: KindStorage}

	ErrPassInProgress = errors.New("a federator pass is already running")
)

// Error carries the kind of a failure and the operation it happened in.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Op == "" && e.Err == nil:
		return e.Kind.String()
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	case e.Op == "":
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Err == nil
}

// KindOf returns the kind of the first *Error in the chain, zero if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// FatalError ends the federator. The host process decides how to exit.
type FatalError struct {
	Attempts int
	Err      error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("federator failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func queryErr(op string, err error) error {
	return NewError(KindQuery, op, err)
}

func submissionErr(op string, err error) error {
	return NewError(KindSubmission, op, err)
}

func configErr(op string, err error) error {
	return NewError(KindConfiguration, op, err)
}

func storageErr(op string, err error) error {
	return NewError(KindStorage, op, err)
}
