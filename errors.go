package blockdn

import (
	"errors"
	"fmt"
)

// Kind discriminates the two ways a query can fail.
type Kind int

const (
	// KindRequest covers transport faults: connection errors, timeouts
	// and non-success HTTP statuses. The response body, if any, is
	// never decoded.
	KindRequest Kind = iota + 1

	// KindDecode covers malformed payloads: consensus decode errors and
	// JSON shape mismatches. The payload is discarded; no partial value
	// reaches the caller.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the only error type returned by Client operations.
type Error struct {
	Kind Kind
	Op   string // the client operation, e.g. "status" or "filters"
	Err  error  // underlying cause, never nil
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRequest reports whether err is a transport failure.
func IsRequest(err error) bool {
	var cerr *Error
	return errors.As(err, &cerr) && cerr.Kind == KindRequest
}

// IsDecode reports whether err is a malformed-response failure.
func IsDecode(err error) bool {
	var cerr *Error
	return errors.As(err, &cerr) && cerr.Kind == KindDecode
}

func requestErr(op string, err error) *Error {
	return &Error{Kind: KindRequest, Op: op, Err: err}
}

func decodeErr(op string, err error) *Error {
	return &Error{Kind: KindDecode, Op: op, Err: err}
}
