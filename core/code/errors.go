package code

import (
	"encoding/json"
)

// Error is a coded failure returned by sale operations. It carries the
// numeric code, a human-readable log line and the JSON-encoded payload
// produced by the payload constructors in this package.
type Error struct {
	code uint32
	log  string
	info string
}

func NewError(c uint32, log string, payload interface{}) *Error {
	return &Error{code: c, log: log, info: EncodeError(payload)}
}

func (e *Error) Error() string {
	return e.log
}

func (e *Error) Code() uint32 {
	return e.code
}

func (e *Error) Info() string {
	return e.info
}

// Is reports whether err is a coded Error with the given code.
func Is(err error, c uint32) bool {
	coded, ok := err.(*Error)
	return ok && coded.code == c
}

// EncodeError marshals an error payload to a JSON string, panics on
// marshaling failure since payloads are plain string structs.
func EncodeError(data interface{}) string {
	marshaled, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}

	return string(marshaled)
}
