// Package errors provides structured error types for chatstate.
// These errors record which operation failed and on which storage key.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindIO
	KindConfig
	KindStorage
	KindCorrupt
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindIO:
		return "I/O error"
	case KindConfig:
		return "configuration error"
	case KindStorage:
		return "storage error"
	case KindCorrupt:
		return "corrupt data"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for chatstate.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Storage errors
func StorageReadFailed(key string, err error) error {
	return E(Op("kv.Get"), KindStorage, fmt.Sprintf("failed to read key %q", key), err)
}

func StorageWriteFailed(key string, err error) error {
	return E(Op("kv.Set"), KindStorage, fmt.Sprintf("failed to write key %q", key), err)
}

func StorageRemoveFailed(key string, err error) error {
	return E(Op("kv.Remove"), KindStorage, fmt.Sprintf("failed to remove key %q", key), err)
}

func StorageCorrupt(path string, err error) error {
	return E(Op("kv.Open"), KindCorrupt, fmt.Sprintf("storage file %s is not valid JSON", path), err)
}

func StorageOpenFailed(path string, err error) error {
	return E(Op("kv.Open"), KindIO, fmt.Sprintf("failed to open storage at %s", path), err)
}

func UnknownBackend(name string) error {
	return E(Op("kv.Open"), KindInvalid, fmt.Sprintf("unknown storage backend %q", name))
}

// Record errors
func RecordEncodeFailed(key string, err error) error {
	return E(Op("state.Persist"), KindInvalid, fmt.Sprintf("failed to encode record for %q", key), err)
}

func InvalidRecord(reason string) error {
	return E(Op("state.Validate"), KindInvalid, reason)
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}
