package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/splitledger/internal/storage"
)

// Error kinds. Match them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStore      = errors.New("store failure")
	ErrIntegrity  = errors.New("integrity failure")
)

// Error describes a failed ledger operation.
type Error struct {
	// Op is the ledger operation, e.g. "ledger.SettleAll".
	Op string

	// Kind is one of the Err* sentinels.
	Kind error

	// Msg is a human readable detail. May be empty.
	Msg string

	// Args are key/value pairs naming the affected ids.
	Args []any

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if len(e.Args) > 0 {
		b.WriteString(" [")
		for i := 0; i+1 < len(e.Args); i += 2 {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%v=%v", e.Args[i], e.Args[i+1])
		}
		b.WriteByte(']')
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func validationError(op, format string, a ...any) *Error {
	return &Error{Op: op, Kind: ErrValidation, Msg: fmt.Sprintf(format, a...)}
}

func notFound(op, what string, args ...any) *Error {
	return &Error{Op: op, Kind: ErrNotFound, Msg: what + " not found", Args: args}
}

func conflict(op, msg string, args ...any) *Error {
	return &Error{Op: op, Kind: ErrConflict, Msg: msg, Args: args}
}

func integrity(op string, err error, args ...any) *Error {
	var lerr *Error
	if errors.As(err, &lerr) && lerr.Kind == ErrIntegrity {
		return lerr
	}
	return &Error{Op: op, Kind: ErrIntegrity, Msg: "settlement rolled back", Args: args, Err: err}
}

// classify converts a repository error into a ledger error. Errors that are
// already classified pass through unchanged.
func classify(op string, err error, args ...any) error {
	if err == nil {
		return nil
	}

	var lerr *Error
	if errors.As(err, &lerr) {
		return err
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return &Error{Op: op, Kind: ErrNotFound, Args: args, Err: err}
	case errors.Is(err, storage.ErrDuplicate):
		return &Error{Op: op, Kind: ErrConflict, Msg: "already exists", Args: args, Err: err}
	default:
		return &Error{Op: op, Kind: ErrStore, Args: args, Err: err}
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, storage.ErrDuplicate)
}

// positive validates that every named id in kv (name, value pairs) is > 0.
func positive(op string, kv ...any) error {
	for i := 0; i+1 < len(kv); i += 2 {
		if v, _ := kv[i+1].(int64); v <= 0 {
			return validationError(op, "%v must be a positive id", kv[i])
		}
	}
	return nil
}

// resultLabel classifies err for metrics and logs.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrIntegrity):
		return "integrity"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "store"
	}
}
