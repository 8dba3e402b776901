package codec

import "fmt"

// DecodeError reports structurally malformed block bytes. Decode failures are
// always permanent: malformed bytes will not become well-formed on retry.
type DecodeError struct {
	// Offset is the byte position in the input at which decoding failed.
	Offset int
	// Field names the structure being decoded when the failure occurred.
	Field string
	Msg   string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode %s at offset %d: %v", e.Field, e.Offset, e.Err)
	}
	return fmt.Sprintf("decode %s at offset %d: %s", e.Field, e.Offset, e.Msg)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErrf(offset int, field, format string, args ...any) *DecodeError {
	return &DecodeError{Offset: offset, Field: field, Msg: fmt.Sprintf(format, args...)}
}
