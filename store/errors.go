package store

import (
	"errors"
	"fmt"

	"github.com/quantumx/qvr-backend/model"
)

// Kind classifies repository failures
type Kind int

// Failure kinds
const (
	KindUnknown Kind = iota
	KindConfigMissing
	KindValidation
	KindNotFound
	KindBackend
	KindDataIntegrity
)

func (k Kind) String() string {
	switch k {
	case KindConfigMissing:
		return "ConfigMissing"
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFound"
	case KindBackend:
		return "BackendError"
	case KindDataIntegrity:
		return "DataIntegrityError"
	}
	return "Unknown"
}

// Sentinel errors for errors.Is checks
var (
	ErrConfigMissing = errors.New("backend configuration missing")
	ErrNotFound      = errors.New("document not found")
)

// Error carries the failure kind and the operation that produced it
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound wraps ErrNotFound for the given document id
func NotFound(op, id string) error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf("%w: %s", ErrNotFound, id)}
}

// BackendError wraps a failed backend call
func BackendError(op string, err error) error {
	return &Error{Kind: KindBackend, Op: op, Err: err}
}

// DataIntegrity reports a stored document that cannot be normalized
func DataIntegrity(op string, err error) error {
	return &Error{Kind: KindDataIntegrity, Op: op, Err: err}
}

// Validation reports a rejected input
func Validation(op string, err error) error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

// KindOf extracts the failure kind from err
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return KindValidation
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConfigMissing):
		return KindConfigMissing
	}
	return KindUnknown
}

// Message is the client-facing text for err. Validation messages are returned bare so
// clients see e.g. "Missing required field: organization".
func Message(err error) string {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Err.Error()
	}
	return err.Error()
}
